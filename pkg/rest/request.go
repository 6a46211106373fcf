package rest

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/util"
)

// Request accumulates the host, endpoint path, query parameters, headers
// and body of the calls made to one endpoint.
//
// Every setter modifies the Request it is called on and returns that same
// Request for chaining. Each call builds its HTTP request from the state
// at the time of the call, so one Request can be reused for many calls:
//
//	people := rc.Host("https://contoso.com").
//		SetEndpointPath("/api/v1/people").
//		AddOrSetHeader("Authorization", "Bearer xyz")
//	first := rest.GetAs[Person](ctx, people, "1")
//	second := rest.GetAs[Person](ctx, people, "2")
//
// A Request must not be modified while another goroutine uses it; Clone
// gives each goroutine its own copy.
type Request struct {
	c            *Client
	host         string
	endpointPath string
	method       string
	params       util.Pairs
	headers      util.Pairs
	body         string
}

// SetHost stores host with trailing slashes removed. It is not validated.
func (r *Request) SetHost(host string) *Request {
	r.host = util.TrimTrailingSlashes(host)
	return r
}

// SetEndpointPath sets the path following the host. Trailing slashes are
// removed, and a leading slash is added if missing. An empty path is
// allowed.
func (r *Request) SetEndpointPath(endpointPath string) *Request {
	endpointPath = util.TrimTrailingSlashes(endpointPath)
	if endpointPath != "" && !strings.HasPrefix(endpointPath, "/") {
		endpointPath = "/" + endpointPath
	}
	r.endpointPath = endpointPath
	return r
}

// AddOrSetQueryParameter adds the query parameter name, or changes its
// value if a parameter with the same name, compared case-insensitively,
// is already set.
func (r *Request) AddOrSetQueryParameter(name, value string) *Request {
	r.params = r.params.Set(name, value)
	return r
}

// AddOrSetHeader adds the header name, or changes its value if a header
// with the same name, compared case-insensitively, is already set.
func (r *Request) AddOrSetHeader(name, value string) *Request {
	r.headers = r.headers.Set(name, value)
	return r
}

// SetBody replaces the body sent with each request.
func (r *Request) SetBody(body string) *Request {
	r.body = body
	return r
}

// SetMethod replaces the HTTP method, GET by default.
func (r *Request) SetMethod(method string) *Request {
	r.method = strings.ToUpper(method)
	return r
}

// Clone returns an independent copy of r using the same Client.
func (r *Request) Clone() *Request {
	c := *r
	c.params = r.params.Clone()
	c.headers = r.headers.Clone()
	return &c
}

// Endpoint returns the host followed by the endpoint path.
func (r *Request) Endpoint() string {
	return r.host + r.endpointPath
}

// Resolve returns the complete URI for a call:
// {host}{endpointPath}[/{finalPath}][?{query}]. Query parameter names and
// values are percent-encoded and kept in the order they were first added.
func (r *Request) Resolve(finalPath string) string {
	uri := r.Endpoint()
	if finalPath != "" {
		uri += "/" + finalPath
	}

	if len(r.params) > 0 {
		pars := make([]string, 0, len(r.params))
		for _, p := range r.params {
			pars = append(pars, url.QueryEscape(p.Name)+"="+url.QueryEscape(p.Value))
		}
		uri += "?" + strings.Join(pars, "&")
	}

	return uri
}

// Descriptor is a finalized request.
type Descriptor struct {
	Method string
	URI    string
	Header util.Pairs
	Body   string
}

// Build returns the descriptor of the request a call with finalPath would
// send. It has no side effects.
func (r *Request) Build(finalPath string) Descriptor {
	method := r.method
	if method == "" {
		method = http.MethodGet
	}
	return Descriptor{
		Method: method,
		URI:    r.Resolve(finalPath),
		Header: r.headers.Clone(),
		Body:   r.body,
	}
}

// HTTPRequest converts d into an *http.Request bound to ctx. A body
// without a Content-Type header is sent as plain text.
func (d Descriptor) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if d.Body != "" {
		body = strings.NewReader(d.Body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, d.URI, body)
	if err != nil {
		return nil, err
	}
	for _, header := range d.Header {
		req.Header.Set(header.Name, header.Value)
	}
	if d.Body != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}
	return req, nil
}

func (r *Request) client() *Client {
	if r.c == nil {
		return defaultClient
	}
	return r.c
}
