package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgiacomo69/FluentRestAdapter/internal/testserver"
)

type item = testserver.Item

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.Handle("/Test/", testserver.New(logr.Discard()))
	// Announces more bytes than it sends.
	mux.HandleFunc("/Short", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		io.WriteString(w, `{"value":1`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()

	return NewClient(http.DefaultClient, append([]Option{WithLogger(testr.New(t))}, opts...)...)
}

func TestGetAsFinalPath(t *testing.T) {
	srv := newTestServer(t)
	req := newTestClient(t).Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto")

	res := GetAs[item](context.Background(), req, "100")
	require.True(t, res.Success(), res.ErrorDescription)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, res.ErrorDescription)
	assert.NoError(t, res.Err)
	assert.Equal(t, 0, res.Seq)
	require.NotNil(t, res.Value)
	assert.Equal(t, item{Value: 100, ValueString: "100"}, *res.Value)
	assert.Equal(t, res.RequestTime+res.DeserializationTime, res.TotalTime())

	// The same request is reusable.
	res = GetAs[item](context.Background(), req, "7")
	require.NotNil(t, res.Value)
	assert.Equal(t, 7, res.Value.Value)
}

func TestGetAsNotFound(t *testing.T) {
	srv := newTestServer(t)
	req := newTestClient(t).Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto")

	res := GetAs[item](context.Background(), req, "-1")
	assert.False(t, res.Success())
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, res.ErrorDescription, "invalid response code 404")
	assert.Nil(t, res.Value)

	var cerr *ConnectionError
	require.True(t, errors.As(res.Err, &cerr))
	assert.Equal(t, http.StatusNotFound, cerr.StatusCode)
}

func TestGetAsMalformedJSON(t *testing.T) {
	srv := newTestServer(t)
	req := newTestClient(t).Host(srv.URL).SetEndpointPath("Test/MalformedJson")

	res := GetAs[item](context.Background(), req, "")
	assert.Equal(t, StatusNone, res.StatusCode)
	assert.NotEmpty(t, res.ErrorDescription)
	assert.Nil(t, res.Value)

	var derr *DecodeError
	require.True(t, errors.As(res.Err, &derr))
	assert.False(t, derr.Element)
}

func TestGetAsHeaders(t *testing.T) {
	srv := newTestServer(t)
	req := newTestClient(t).Host(srv.URL).
		SetEndpointPath("Test/HeadersToDto").
		AddOrSetHeader("Value", "123456").
		AddOrSetHeader("ValueString", "Ten").
		AddOrSetHeader("value", "10")

	res := GetAs[item](context.Background(), req, "")
	require.True(t, res.Success(), res.ErrorDescription)
	require.NotNil(t, res.Value)
	assert.Equal(t, item{Value: 10, ValueString: "Ten"}, *res.Value)
}

func TestGetRaw(t *testing.T) {
	srv := newTestServer(t)
	req := newTestClient(t).Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto")

	res := req.Get(context.Background(), "5")
	require.True(t, res.Success(), res.ErrorDescription)
	require.NotNil(t, res.Value)
	assert.JSONEq(t, `{"value":5,"valueString":"5"}`, *res.Value)
	assert.Zero(t, res.DeserializationTime)

	res = req.Get(context.Background(), "-1")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Nil(t, res.Value)
}

func TestGetSendsMethodAndBody(t *testing.T) {
	srv := newTestServer(t)
	req := newTestClient(t).Host(srv.URL).
		SetEndpointPath("Test/Echo").
		SetMethod("post").
		SetBody("hello")

	res := GetAs[item](context.Background(), req, "")
	require.True(t, res.Success(), res.ErrorDescription)
	require.NotNil(t, res.Value)
	assert.Equal(t, item{Value: 5, ValueString: http.MethodPost}, *res.Value)
}

func TestGetConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	req := newTestClient(t).Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto")
	res := GetAs[item](context.Background(), req, "1")
	assert.Equal(t, StatusNone, res.StatusCode)
	assert.NotEmpty(t, res.ErrorDescription)
	assert.Nil(t, res.Value)

	var cerr *ConnectionError
	assert.True(t, errors.As(res.Err, &cerr))
}

func TestGetInvalidRequest(t *testing.T) {
	req := newTestClient(t).Host("http://[::1").SetMethod("bad method")

	res := req.Get(context.Background(), "")
	assert.Equal(t, StatusNone, res.StatusCode)
	assert.NotEmpty(t, res.ErrorDescription)
	assert.Nil(t, res.Value)
}

func TestGetCanceledContext(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newTestClient(t).Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto").Get(ctx, "1")
	assert.Equal(t, StatusNone, res.StatusCode)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

type recordingObserver struct {
	calls []observation
}

type observation struct {
	mode   Mode
	seq    int
	status int
}

func (o *recordingObserver) Observe(mode Mode, seq int, status Status) {
	o.calls = append(o.calls, observation{mode, seq, status.StatusCode})
}

func TestGetObserved(t *testing.T) {
	srv := newTestServer(t)
	obs := &recordingObserver{}
	req := newTestClient(t, WithObserver(obs)).Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto")

	GetAs[item](context.Background(), req, "1")
	req.Get(context.Background(), "-1")

	assert.Equal(t, []observation{
		{ModeGet, 0, http.StatusOK},
		{ModeGet, 0, http.StatusNotFound},
	}, obs.calls)
}

func TestWithUnmarshaler(t *testing.T) {
	srv := newTestServer(t)
	boom := errors.New("boom")
	req := newTestClient(t, WithUnmarshaler(func([]byte, any) error { return boom })).
		Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto")

	res := GetAs[item](context.Background(), req, "1")
	assert.Equal(t, StatusNone, res.StatusCode)
	assert.Equal(t, "boom", res.ErrorDescription)
	assert.ErrorIs(t, res.Err, boom)
}

func TestRequestWithoutClient(t *testing.T) {
	srv := newTestServer(t)
	req := (&Request{}).SetHost(srv.URL).SetEndpointPath("Test/FinaUrlToDto")

	res := GetAs[item](context.Background(), req, "3")
	require.NotNil(t, res.Value)
	assert.Equal(t, 3, res.Value.Value)
}

func TestGetShortBody(t *testing.T) {
	srv := newTestServer(t)
	req := newTestClient(t).Host(srv.URL).SetEndpointPath("Short")

	raw := req.Get(context.Background(), "")
	assert.Equal(t, StatusNone, raw.StatusCode)
	assert.False(t, raw.Success())
	assert.Nil(t, raw.Value)
	assert.ErrorIs(t, raw.Err, io.ErrUnexpectedEOF)

	var res Result[item]
	require.NotPanics(t, func() { res = GetAs[item](context.Background(), req, "") })
	assert.Equal(t, StatusNone, res.StatusCode)
	assert.NotEmpty(t, res.ErrorDescription)
	assert.Nil(t, res.Value)
}

func TestValuePresentOnlyOnSuccess(t *testing.T) {
	srv := newTestServer(t)
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	rc := newTestClient(t)
	tests := []struct {
		name  string
		req   *Request
		final string
	}{
		{"found", rc.Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto"), "1"},
		{"not found", rc.Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto"), "-1"},
		{"malformed", rc.Host(srv.URL).SetEndpointPath("Test/MalformedJson"), ""},
		{"bad header", rc.Host(srv.URL).SetEndpointPath("Test/HeadersToDto"), ""},
		{"short body", rc.Host(srv.URL).SetEndpointPath("Short"), ""},
		{"connection refused", rc.Host(closed.URL), ""},
		{"invalid request", rc.Host("http://[::1"), ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			raw := test.req.Get(context.Background(), test.final)
			assert.Equal(t, raw.Success(), raw.Value != nil, "Get: %+v", raw.Status)
			assert.Equal(t, raw.Success(), raw.ErrorDescription == "", "Get: %+v", raw.Status)

			var res Result[item]
			require.NotPanics(t, func() { res = GetAs[item](context.Background(), test.req, test.final) })
			assert.Equal(t, res.Success(), res.Value != nil, "GetAs: %+v", res.Status)
			assert.Equal(t, res.Success(), res.ErrorDescription == "", "GetAs: %+v", res.Status)
		})
	}
}
