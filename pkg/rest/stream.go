package rest

import (
	"context"
	"errors"
	"io"
	"iter"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	utilnet "k8s.io/apimachinery/pkg/util/net"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/client"
	"github.com/pgiacomo69/FluentRestAdapter/pkg/stream"
)

// Stream returns the objects of the JSON array served at the request's
// URI, one envelope per object, each handed over as soon as it has been
// received and decoded rather than once the whole response has arrived.
//
// The request is built from r and sent when iteration starts, and again
// for every new iteration, so changes made to r in between are picked up.
// Unless the Client was created WithStreamRequestHeaders, it is a plain
// GET: the request's method, headers and body are not sent.
//
// If the stream cannot be opened, a single envelope describing the failure
// is produced. If the response ends before the array is complete, or an
// element cannot be decoded into a T, a final envelope with StatusNone and
// a *StreamTerminationError follows the elements received until then.
// Breaking out of the loop closes the response.
func Stream[T any](ctx context.Context, r *Request, finalPath string) iter.Seq[Result[T]] {
	return func(yield func(Result[T]) bool) {
		c := r.client()
		d := r.Build(finalPath)
		if !c.opts.streamHeaders {
			d = Descriptor{Method: http.MethodGet, URI: d.URI}
		}
		receive(ctx, c, d, yield)
	}
}

// StreamAsync runs Stream in its own goroutine, delivering envelopes on
// the returned AsyncStream's channel. Stop closes the response even while
// a read is pending.
func StreamAsync[T any](ctx context.Context, r *Request, finalPath string) *stream.AsyncStream[Result[T]] {
	ctx, cancel := context.WithCancel(ctx)
	seq := Stream[T](ctx, r, finalPath)

	return stream.NewAsyncStream[Result[T]](stream.Pull[Result[T]](func(yield func(Result[T]) bool) {
		defer cancel()
		seq(yield)
	}, cancel))
}

// receive opens the stream and yields its elements until the array ends,
// decoding fails, or yield asks to stop.
func receive[T any](ctx context.Context, c *Client, d Descriptor, yield func(Result[T]) bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := c.opts.log.WithValues("call", uuid.NewString(), "url", d.URI)
	emit := func(r Result[T]) bool {
		c.observe(ModeStream, r.Seq, r.Status)
		return yield(r)
	}

	var current Result[T]
	start := time.Now()
	body, err := c.open(ctx, d)
	current.RequestTime = time.Since(start)
	if err != nil {
		ce := newConnectionError(err)
		current.fail(ce.StatusCode, ce)
		log.Info("unable to open stream", "status", current.StatusCode, "error", err)
		emit(current)
		return
	}
	defer body.Close()
	current.StatusCode = http.StatusOK

	dec := c.opts.tokenDecoder(body)
	decodeStart := time.Now()
	received := 0
	var failure error

	for failure == nil {
		tok, err := dec.Next()
		if err == io.EOF {
			log.V(1).Info("stream completed", "received", received, "duration", time.Since(start))
			return
		} else if err != nil {
			failure = err
			continue
		}
		if tok != stream.BeginObject {
			continue
		}

		next := current
		if received > 0 {
			next = current.Next()
		}
		var t T
		if err := dec.Decode(&t); err != nil {
			failure = elementError(next.Seq, err)
			continue
		}
		next.DeserializationTime = time.Since(decodeStart)
		next.StatusCode = http.StatusOK
		next.Value = &t
		current = next
		received++

		log.V(1).Info("received object", "seq", next.Seq, "elapsed", next.DeserializationTime)
		if !emit(next) {
			return
		}
	}

	logTermination(log, failure)

	trailing := current
	if received > 0 {
		trailing = current.Next()
	}
	trailing.DeserializationTime = time.Since(decodeStart)
	trailing.fail(StatusNone, &StreamTerminationError{Seq: trailing.Seq, Err: failure})
	emit(trailing)
}

func (c *Client) open(ctx context.Context, d Descriptor) (io.ReadCloser, error) {
	req, err := d.HTTPRequest(ctx)
	if err != nil {
		return nil, &client.Error{URL: d.URI, Err: err}
	}
	return client.Open(c.kc, req)
}

// elementError tells a malformed element apart from a stream that broke
// while the element was being received.
func elementError(seq int, err error) error {
	var serr *stream.SyntaxError
	if errors.As(err, &serr) {
		return &DecodeError{Element: true, Seq: seq, Err: err}
	}
	return err
}

func logTermination(log logr.Logger, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		log.V(1).Info("stream canceled")
	case utilnet.IsProbableEOF(err):
		log.Info("unexpected EOF during stream decoding", "error", err)
	default:
		log.Info("unable to decode an object from the stream", "error", err)
	}
}
