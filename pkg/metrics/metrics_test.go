package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgiacomo69/FluentRestAdapter/internal/testserver"
	"github.com/pgiacomo69/FluentRestAdapter/pkg/rest"
)

func TestCollector(t *testing.T) {
	srv := httptest.NewServer(testserver.New(logr.Discard()))
	t.Cleanup(srv.Close)

	reg := prometheus.NewPedanticRegistry()
	rc := rest.NewClient(http.DefaultClient, rest.WithObserver(NewCollector(reg)))
	ctx := context.Background()

	rest.GetAs[testserver.Item](ctx, rc.Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto"), "1")
	rest.GetAs[testserver.Item](ctx, rc.Host(srv.URL).SetEndpointPath("Test/FinaUrlToDto"), "-1")
	rest.GetAs[testserver.Item](ctx, rc.Host(srv.URL).SetEndpointPath("Test/MalformedJson"), "")
	for range rest.Stream[testserver.Item](ctx, rc.Host(srv.URL).SetEndpointPath("Test/TruncatedStream"), "2") {
	}

	expected := `
# HELP fluentrest_envelopes_total Number of result envelopes handed to callers, by status code. Local failures have status 0.
# TYPE fluentrest_envelopes_total counter
fluentrest_envelopes_total{mode="get",status="0"} 1
fluentrest_envelopes_total{mode="get",status="200"} 1
fluentrest_envelopes_total{mode="get",status="404"} 1
fluentrest_envelopes_total{mode="stream",status="0"} 1
fluentrest_envelopes_total{mode="stream",status="200"} 2
# HELP fluentrest_failures_total Number of failed envelopes by kind of failure.
# TYPE fluentrest_failures_total counter
fluentrest_failures_total{kind="connection",mode="get"} 1
fluentrest_failures_total{kind="decode",mode="get"} 1
fluentrest_failures_total{kind="termination",mode="stream"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"fluentrest_envelopes_total", "fluentrest_failures_total")
	require.NoError(t, err)

	// One request time per call.
	n, err := testutil.GatherAndCount(reg, "fluentrest_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
