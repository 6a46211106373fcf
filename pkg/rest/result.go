package rest

import (
	"errors"
	"time"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/client"
)

// StatusNone is the StatusCode of an envelope describing a local failure,
// one with no HTTP status to report.
const StatusNone = 0

// Status is the outcome of one unit of a call: the status code, the error
// if there was one, and how long the network and decoding phases took.
type Status struct {
	// RequestTime is the duration of the network phase.
	RequestTime time.Duration

	// DeserializationTime is the duration of the decoding phase. For
	// streamed elements it is the time elapsed since the stream started
	// being decoded, so it includes any time the caller spent handling
	// earlier elements.
	DeserializationTime time.Duration

	// StatusCode is the HTTP status, or StatusNone.
	StatusCode int

	// ErrorDescription is empty on success.
	ErrorDescription string

	// Err is the failure behind ErrorDescription: a *ConnectionError,
	// *DecodeError or *StreamTerminationError.
	Err error
}

func (s Status) TotalTime() time.Duration {
	return s.RequestTime + s.DeserializationTime
}

// Success reports whether StatusCode is 2xx.
func (s Status) Success() bool {
	return s.StatusCode >= 200 && s.StatusCode <= 299
}

func (s *Status) fail(status int, err error) {
	s.StatusCode = status
	s.Err = err
	s.ErrorDescription = err.Error()
}

// Result is the envelope handed to callers for every fetched value, and
// for every failure. Value is set if and only if the value was received
// and decoded.
type Result[T any] struct {
	Status

	// Seq is 0 for the first envelope of a call and grows by one for each
	// further envelope of a stream.
	Seq int

	Value *T
}

// Retype returns an envelope for values of type U with the status of r,
// no value, and a sequence number of 0.
func Retype[U, T any](r Result[T]) Result[U] {
	return Result[U]{Status: r.Status}
}

// Next returns the envelope following r in a stream: same status, no
// value, and the next sequence number. r is left untouched.
func (r Result[T]) Next() Result[T] {
	return Result[T]{Status: r.Status, Seq: r.Seq + 1}
}

func newConnectionError(err error) *ConnectionError {
	ce := &ConnectionError{Err: err}
	var cerr *client.Error
	if errors.As(err, &cerr) {
		ce.StatusCode = cerr.StatusCode
	}
	// A failure must never look like a success.
	if ce.StatusCode >= 200 && ce.StatusCode <= 299 {
		ce.StatusCode = StatusNone
	}
	return ce
}
