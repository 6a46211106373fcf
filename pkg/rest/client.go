package rest

import (
	"io"
	"net/http"

	"github.com/go-logr/logr"
	jsoniter "github.com/json-iterator/go"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/client"
	"github.com/pgiacomo69/FluentRestAdapter/pkg/stream"
)

// UnmarshalFunc decodes a whole response body into v.
type UnmarshalFunc func(data []byte, v any) error

// TokenDecoderFunc wraps a streamed response body in a TokenDecoder.
type TokenDecoderFunc func(r io.Reader) stream.TokenDecoder

// Mode tells an Observer which operation produced a Status.
type Mode string

const (
	ModeGet    Mode = "get"
	ModeStream Mode = "stream"
)

// Observer is told about every envelope handed to a caller.
type Observer interface {
	Observe(mode Mode, seq int, status Status)
}

type Option func(opts *options)
type options struct {
	log           logr.Logger
	unmarshal     UnmarshalFunc
	tokenDecoder  TokenDecoderFunc
	observer      Observer
	streamHeaders bool
}

func WithLogger(log logr.Logger) Option {
	return func(opts *options) {
		opts.log = log
	}
}

// WithUnmarshaler replaces the decoder used by GetAs.
func WithUnmarshaler(f UnmarshalFunc) Option {
	return func(opts *options) {
		opts.unmarshal = f
	}
}

// WithTokenDecoder replaces the incremental decoder used by Stream. Decode
// errors of type *stream.SyntaxError are reported as malformed elements;
// any other error is treated as a broken stream.
func WithTokenDecoder(f TokenDecoderFunc) Option {
	return func(opts *options) {
		opts.tokenDecoder = f
	}
}

func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// WithStreamRequestHeaders makes Stream send the request's method,
// headers and body. Without it a stream is always opened with a bare GET.
func WithStreamRequestHeaders() Option {
	return func(opts *options) {
		opts.streamHeaders = true
	}
}

// Client creates Requests which share a transport and options. It holds
// no per-request state and is safe for concurrent use.
type Client struct {
	kc   client.Interface
	opts options
}

func NewClient(kc client.Interface, opt ...Option) *Client {
	opts := options{
		log:       logr.Discard(),
		unmarshal: jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		tokenDecoder: func(r io.Reader) stream.TokenDecoder {
			return stream.NewArrayDecoder(r)
		},
	}
	for _, o := range opt {
		o(&opts)
	}

	return &Client{
		kc:   kc,
		opts: opts,
	}
}

var defaultClient = NewClient(http.DefaultClient)

// Host returns a new Request for the given host, e.g.
// "https://localhost:5000". Trailing slashes are removed.
func (c *Client) Host(host string) *Request {
	return (&Request{c: c}).SetHost(host)
}

func (c *Client) observe(mode Mode, seq int, status Status) {
	if c.opts.observer != nil {
		c.opts.observer.Observe(mode, seq, status)
	}
}
