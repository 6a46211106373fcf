package rest

import (
	"context"
	"time"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/client"
)

// Get sends the request and returns the response body as text. Failures
// are reported in the returned envelope, never as a panic.
func (r *Request) Get(ctx context.Context, finalPath string) Result[string] {
	c := r.client()
	result := c.get(ctx, r.Build(finalPath))
	c.observe(ModeGet, result.Seq, result.Status)
	return result
}

// GetAs sends the request and decodes the response body into a T. The
// body is only decoded when the status code is 2xx; a body that cannot
// be decoded gives an envelope with StatusNone and a *DecodeError.
func GetAs[T any](ctx context.Context, r *Request, finalPath string) Result[T] {
	c := r.client()
	raw := c.get(ctx, r.Build(finalPath))
	result := Retype[T](raw)
	defer func() { c.observe(ModeGet, result.Seq, result.Status) }()

	if !raw.Success() || raw.Value == nil {
		return result
	}

	var t T
	start := time.Now()
	if err := c.opts.unmarshal([]byte(*raw.Value), &t); err != nil {
		result.fail(StatusNone, &DecodeError{Err: err})
		c.opts.log.V(1).Info("unable to decode response", "url", r.Resolve(finalPath), "error", err)
		return result
	}
	result.DeserializationTime = time.Since(start)
	result.Value = &t

	return result
}

func (c *Client) get(ctx context.Context, d Descriptor) Result[string] {
	var result Result[string]
	log := c.opts.log.WithValues("method", d.Method, "url", d.URI)

	start := time.Now()
	resp, err := c.send(ctx, d)
	result.RequestTime = time.Since(start)

	if err != nil {
		ce := newConnectionError(err)
		result.fail(ce.StatusCode, ce)
		log.Info("request failed", "status", result.StatusCode, "error", err)
		return result
	}

	if !resp.Success() {
		result.fail(resp.StatusCode, statusError(resp.StatusCode, d.URI, resp.Body))
		log.V(1).Info("request unsuccessful", "status", resp.StatusCode, "duration", result.RequestTime)
		return result
	}

	body := string(resp.Body)
	result.StatusCode = resp.StatusCode
	result.Value = &body
	log.V(1).Info("request completed", "status", resp.StatusCode, "duration", result.RequestTime, "bytes", len(body))

	return result
}

func (c *Client) send(ctx context.Context, d Descriptor) (*client.Response, error) {
	req, err := d.HTTPRequest(ctx)
	if err != nil {
		return nil, &client.Error{URL: d.URI, Err: err}
	}
	return client.Send(c.kc, req)
}
