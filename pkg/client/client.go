package client

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"time"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/token"
)

// Interface is the minimal transport the adapter needs. Both
// *http.Client and *Client satisfy it.
type Interface interface {
	// Do sends an HTTP request and returns the response.
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps an *http.Client and decorates every outgoing request with
// the bearer token of its TokenProvider, if any.
type Client struct {
	HttpClient *http.Client

	token token.TokenProvider
}

type Option func(kc *Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(kc *Client) {
		kc.HttpClient = hc
	}
}

// WithTokenProvider sets the source of the Authorization bearer token.
func WithTokenProvider(tp token.TokenProvider) Option {
	return func(kc *Client) {
		kc.token = tp
	}
}

// WithCACert trusts only the PEM encoded certificates in ca for TLS
// connections instead of the system pool.
func WithCACert(ca []byte) Option {
	return func(kc *Client) {
		certPool := x509.NewCertPool()
		certPool.AppendCertsFromPEM(ca)
		kc.HttpClient.Transport = &http.Transport{TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			RootCAs:    certPool,
		}}
	}
}

// WithTimeout sets an overall deadline for each exchange, including the
// time spent reading a response body. Zero, the default, means no limit,
// which is what long running streams need.
func WithTimeout(d time.Duration) Option {
	return func(kc *Client) {
		kc.HttpClient.Timeout = d
	}
}

func NewClient(opts ...Option) *Client {
	kc := &Client{
		HttpClient: &http.Client{
			Transport: http.DefaultTransport,
			Timeout:   time.Nanosecond * 0,
		},
	}
	for _, o := range opts {
		o(kc)
	}

	return kc
}

func (kc *Client) Do(req *http.Request) (*http.Response, error) {
	if kc.token != nil {
		if token := kc.token.Token(); len(token) > 0 {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return kc.HttpClient.Do(req)
}
