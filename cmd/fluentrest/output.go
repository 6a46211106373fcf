package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/pgiacomo69/FluentRestAdapter/pkg/rest"
)

type envelope struct {
	Seq                 int    `json:"seq"`
	StatusCode          int    `json:"statusCode"`
	Error               string `json:"error,omitempty"`
	RequestTime         string `json:"requestTime"`
	DeserializationTime string `json:"deserializationTime"`
	Value               any    `json:"value,omitempty"`
}

func toEnvelope[T any](r rest.Result[T]) envelope {
	e := envelope{
		Seq:                 r.Seq,
		StatusCode:          r.StatusCode,
		Error:               r.ErrorDescription,
		RequestTime:         r.RequestTime.String(),
		DeserializationTime: r.DeserializationTime.String(),
	}
	if r.Value != nil {
		e.Value = *r.Value
	}
	return e
}

// printer writes one envelope per line and counts the failed ones.
type printer struct {
	enc    *jsoniter.Encoder
	failed int
	total  int
}

func newPrinter(w io.Writer) *printer {
	return &printer{enc: json.NewEncoder(w)}
}

func emit[T any](p *printer, r rest.Result[T]) error {
	p.total++
	if !r.Success() {
		p.failed++
	}
	return p.enc.Encode(toEnvelope(r))
}

func (p *printer) Err() error {
	if p.failed > 0 {
		return fmt.Errorf("%d of %d envelopes failed", p.failed, p.total)
	}
	return nil
}
