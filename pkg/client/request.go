package client

import (
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response is kept in an Error.
const maxErrorBody = 4 << 10

// Error reports a request that could not be sent, or a stream that could
// not be opened. StatusCode is zero unless the request was rejected with
// a non 2xx status; a body that breaks off while being read has none.
type Error struct {
	StatusCode int
	URL        string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request url %q failed: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status code is 2xx.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// Send issues req and reads the whole response body. Any status code is a
// valid response; only failures to exchange the request produce an error.
func Send(kc Interface, req *http.Request) (*Response, error) {
	reqURL := req.URL.String()
	resp, err := kc.Do(req)
	if err != nil {
		return nil, &Error{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     reqURL,
			Message: fmt.Sprintf("reading response body for request url %q (status %d): %v", reqURL, resp.StatusCode, err),
			Err:     err,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Open issues req and returns the response body unread, for the caller to
// consume incrementally and close. A non 2xx status is reported as an
// *Error carrying that status.
func Open(kc Interface, req *http.Request) (io.ReadCloser, error) {
	reqURL := req.URL.String()
	resp, err := kc.Do(req)
	if err != nil {
		return nil, &Error{URL: reqURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		errmsg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{
			StatusCode: resp.StatusCode,
			URL:        reqURL,
			Message:    fmt.Sprintf("invalid response code %d for request url %q: %s", resp.StatusCode, reqURL, errmsg),
		}
	}

	return resp.Body, nil
}
