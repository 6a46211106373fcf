// Package stream implements a set of generic interfaces and classes
// designed to allow streams of atomic objects to be pipelined, much
// line one might do with an [io.Reader]
package stream

// A Decoder is able to hydrade an arbitrary variable.
type Decoder interface {
	Decode(v any) error
}

// A stream is able to provide a source of atomic data values.
//
// The source of a Stream's data is implementating specific - an example
// may be reading JSON objects from a long running HTTP response. Next
// returns io.EOF once the source is exhausted.
type Stream[T any] interface {
	Next() (T, error)
}

// A Canceler is a Stream whose blocked Next call can be interrupted from
// another goroutine.
type Canceler interface {
	Cancel()
}

// Token is the kind of JSON token a TokenDecoder is positioned on.
type Token int

const (
	Invalid Token = iota
	BeginArray
	EndArray
	BeginObject
	Scalar
)

var tokenStr = [...]string{
	Invalid:     "invalid token",
	BeginArray:  `"["`,
	EndArray:    `"]"`,
	BeginObject: `"{"`,
	Scalar:      "scalar",
}

func (t Token) String() string {
	if t < 0 || int(t) >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[t]
}

// A TokenDecoder walks a JSON document one token at a time, and can
// materialize the object it is positioned on.
//
// Next reports io.EOF only after a complete top-level value. Input that
// ends inside a value reports io.ErrUnexpectedEOF.
//
// After Next returns BeginObject, Decode reads that object into v. If
// the caller moves on without decoding, the object is skipped.
type TokenDecoder interface {
	Next() (Token, error)
	Decoder
}
