// Package testserver is a small backend serving the endpoints the rest
// package is exercised against: a delayed stream of numbers, a DTO per id,
// a malformed body, headers echoed into a DTO, and a few broken streams.
package testserver

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	jsoniter "github.com/json-iterator/go"
)

// Item is the DTO every endpoint serves.
type Item struct {
	Value       int    `json:"value"`
	ValueString string `json:"valueString"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	log logr.Logger
	mux *http.ServeMux
}

func New(log logr.Logger) *Server {
	s := &Server{
		log: log,
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /Test/NumbersStream/{max}", s.numbersStream)
	s.mux.HandleFunc("GET /Test/FinaUrlToDto/{id}", s.finalURLToDto)
	s.mux.HandleFunc("GET /Test/MalformedJson", s.malformedJSON)
	s.mux.HandleFunc("GET /Test/HeadersToDto", s.headersToDto)
	s.mux.HandleFunc("/Test/Echo", s.echo)
	s.mux.HandleFunc("GET /Test/TruncatedStream/{max}", s.truncatedStream)
	s.mux.HandleFunc("GET /Test/BadElementStream", s.badElementStream)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) numbersStream(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.PathValue("max"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var delay time.Duration
	if d := r.URL.Query().Get("delay"); d != "" {
		ms, err := strconv.Atoi(d)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		delay = time.Duration(ms) * time.Millisecond
	}

	aw := newArrayWriter(w)
	defer aw.Close()

	for i := 0; i < count; i++ {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			s.log.V(1).Info("client went away", "sent", i)
			return
		}
		s.log.V(1).Info("sending number", "number", i)
		if err := aw.Write(Item{Value: i, ValueString: "Number: " + strconv.Itoa(i)}); err != nil {
			s.log.Info("unable to send number", "number", i, "error", err)
			return
		}
	}
}

func (s *Server) finalURLToDto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if id == -1 {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, Item{Value: id, ValueString: strconv.Itoa(id)})
}

func (s *Server) malformedJSON(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, "[ This is not a valid Json]")
}

func (s *Server) headersToDto(w http.ResponseWriter, r *http.Request) {
	value, err := strconv.Atoi(r.Header.Get("value"))
	if err != nil {
		http.Error(w, "header value: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, Item{Value: value, ValueString: r.Header.Get("valueString")})
}

// echo answers with the request's method in ValueString and its body
// length in Value, and returns the body itself in the X-Echo header.
func (s *Server) echo(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("X-Echo", string(body))
	s.writeJSON(w, Item{Value: len(body), ValueString: r.Method})
}

// truncatedStream sends max elements and stops without closing the array.
func (s *Server) truncatedStream(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.PathValue("max"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	aw := newArrayWriter(w)
	for i := 0; i < count; i++ {
		if err := aw.Write(Item{Value: i}); err != nil {
			return
		}
	}
}

// badElementStream sends one valid element followed by one whose value
// has the wrong type.
func (s *Server) badElementStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, `[{"value":0,"valueString":"0"},{"value":"one","valueString":"1"}]`)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		s.log.Info("unable to write response", "error", err)
	}
}
