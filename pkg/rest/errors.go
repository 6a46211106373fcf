package rest

import (
	"errors"
	"fmt"
)

const errorReceivingData = "error receiving data"

// ConnectionError reports a request that could not be sent, a stream that
// could not be opened, or a response with an unsuccessful status code.
// StatusCode is zero when the remote host gave no status.
type ConnectionError struct {
	StatusCode int
	Err        error
}

func (e *ConnectionError) Error() string { return e.Err.Error() }

func (e *ConnectionError) Unwrap() error { return e.Err }

// DecodeError reports a payload that could not be decoded into the
// requested type. Element is false when a whole buffered body failed and
// true when a single element of a stream failed; Seq is then the sequence
// number the element would have had.
type DecodeError struct {
	Element bool
	Seq     int
	Err     error
}

func (e *DecodeError) Error() string { return e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// StreamTerminationError reports a stream that ended without reaching
// the end of its top-level value. Its message is that of the decode
// failure that stopped it, if any.
type StreamTerminationError struct {
	Seq int
	Err error
}

func (e *StreamTerminationError) Error() string {
	var derr *DecodeError
	if errors.As(e.Err, &derr) {
		return derr.Error()
	}
	return errorReceivingData
}

func (e *StreamTerminationError) Unwrap() error { return e.Err }

// statusError describes a response whose status code is not 2xx.
func statusError(status int, url string, body []byte) *ConnectionError {
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &ConnectionError{
		StatusCode: status,
		Err:        fmt.Errorf("invalid response code %d for request url %q: %s", status, url, body),
	}
}
