package main

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/rest"
)

const numbersProfile = `
// Numbers, one every 100ms.
{
	"host": "https://localhost:5000/",
	"endpointPath": "Test/NumbersStream",
	"query": [
		{"name": "delay", "value": "100"},
	],
	"headers": [{"name": "Accept", "value": "application/json"}],
}
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(numbersProfile))
	require.NoError(t, err)

	want := &Profile{
		Host:         "https://localhost:5000/",
		EndpointPath: "Test/NumbersStream",
		Query:        []Param{{"delay", "100"}},
		Headers:      []Param{{"Accept", "application/json"}},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Profile (-want, +got):\n%s", diff)
	}
}

func TestParseProfileInvalid(t *testing.T) {
	_, err := ParseProfile([]byte(`{"host": `))
	assert.Error(t, err)

	_, err = ParseProfile([]byte(`{"query": "delay"}`))
	assert.Error(t, err)
}

func TestProfileApply(t *testing.T) {
	p, err := ParseProfile([]byte(numbersProfile))
	require.NoError(t, err)

	err = p.apply(&globalFlags{
		method:  "post",
		query:   []string{"DELAY=5", "n = 1"},
		headers: []string{"X-Probe: yes"},
	})
	require.NoError(t, err)

	d := p.Request(rest.NewClient(http.DefaultClient)).Build("10")
	assert.Equal(t, http.MethodPost, d.Method)
	assert.Equal(t, "https://localhost:5000/Test/NumbersStream/10?delay=5&n=1", d.URI)

	v, ok := d.Header.Get("x-probe")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
}

func TestProfileApplyInvalid(t *testing.T) {
	p := &Profile{}
	assert.Error(t, p.apply(&globalFlags{query: []string{"delay"}}))
	assert.Error(t, p.apply(&globalFlags{headers: []string{"X-Probe"}}))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)

	v := 1
	require.NoError(t, emit(p, rest.Result[int]{Status: rest.Status{StatusCode: http.StatusOK}, Value: &v}))
	require.NoError(t, emit(p, rest.Result[int]{Status: rest.Status{ErrorDescription: "error receiving data"}, Seq: 1}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"seq":0,"statusCode":200,"requestTime":"0s","deserializationTime":"0s","value":1}`, lines[0])
	assert.JSONEq(t, `{"seq":1,"statusCode":0,"error":"error receiving data","requestTime":"0s","deserializationTime":"0s"}`, lines[1])
	assert.EqualError(t, p.Err(), "1 of 2 envelopes failed")
}
