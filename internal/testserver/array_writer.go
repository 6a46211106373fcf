package testserver

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// arrayWriter writes a JSON array one element at a time, flushing after
// each element so the client sees it straight away.
type arrayWriter struct {
	flusher http.Flusher
	stream  *jsoniter.Stream
	count   int
}

func newArrayWriter(w http.ResponseWriter) *arrayWriter {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	flusher, _ := w.(http.Flusher)

	return &arrayWriter{
		flusher: flusher,
		stream:  jsoniter.NewStream(json, w, 512),
	}
}

func (a *arrayWriter) Write(v any) error {
	if a.count == 0 {
		a.stream.WriteArrayStart()
	} else {
		a.stream.WriteMore()
	}
	a.count++

	a.stream.WriteVal(v)
	return a.flush()
}

// Close ends the array, opening it first if nothing was written.
func (a *arrayWriter) Close() error {
	if a.count == 0 {
		a.stream.WriteArrayStart()
	}
	a.stream.WriteArrayEnd()
	return a.flush()
}

func (a *arrayWriter) flush() error {
	if err := a.stream.Flush(); err != nil {
		return err
	}
	if a.stream.Error != nil {
		return a.stream.Error
	}
	if a.flusher != nil {
		a.flusher.Flush()
	}
	return nil
}
