package stream

import (
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"
)

const defaultBufferSize = 4096

// SyntaxError reports malformed JSON, or JSON that could not be decoded
// into the requested type.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string { return e.Err.Error() }

func (e *SyntaxError) Unwrap() error { return e.Err }

var errNoObject = errors.New("stream: Decode called when not positioned on an object")

// sourceReader remembers how reading the underlying source ended, since
// the iterator folds read failures into its own error state. eof is only
// set once a read returns no data, so it means every byte of the source
// has been handed to the iterator.
type sourceReader struct {
	r   io.Reader
	err error
	eof bool
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err == io.EOF {
		s.eof = n == 0
	} else if err != nil && s.err == nil {
		s.err = err
	}
	return n, err
}

type frame struct {
	first bool // no element of this array has been returned yet
	empty bool
}

// ArrayDecoder is a TokenDecoder reading from a json-iterator Iterator.
// It only returns as many bytes from the source as it needs, so each
// object is available as soon as its closing brace has been received.
type ArrayDecoder struct {
	iter    *jsoniter.Iterator
	src     *sourceReader
	open    []frame
	pending bool
	started bool
}

// NewArrayDecoder returns an ArrayDecoder reading from r, decoding
// objects with the standard library compatible configuration.
func NewArrayDecoder(r io.Reader) *ArrayDecoder {
	return NewArrayDecoderConfig(jsoniter.ConfigCompatibleWithStandardLibrary, r)
}

// NewArrayDecoderConfig returns an ArrayDecoder using cfg to decode
// objects.
func NewArrayDecoderConfig(cfg jsoniter.API, r io.Reader) *ArrayDecoder {
	src := &sourceReader{r: r}
	return &ArrayDecoder{
		iter: jsoniter.Parse(cfg, src, defaultBufferSize),
		src:  src,
	}
}

// Next advances to the next token that starts a value or closes an
// array.
func (d *ArrayDecoder) Next() (Token, error) {
	if d.pending {
		d.pending = false
		d.iter.Skip()
	}
	if err := d.tokenErr(); err != nil {
		return Invalid, err
	}

	if n := len(d.open); n > 0 {
		top := &d.open[n-1]
		more := !top.empty
		if top.first {
			top.first = false
		} else if more {
			more = d.iter.ReadArray()
			if err := d.tokenErr(); err != nil {
				return Invalid, err
			}
		}
		if !more {
			d.open = d.open[:n-1]
			return EndArray, nil
		}
	}

	return d.value()
}

func (d *ArrayDecoder) value() (Token, error) {
	switch d.iter.WhatIsNext() {
	case jsoniter.ArrayValue:
		d.started = true
		more := d.iter.ReadArray()
		if err := d.tokenErr(); err != nil {
			return Invalid, err
		}
		d.open = append(d.open, frame{first: true, empty: !more})
		return BeginArray, nil

	case jsoniter.ObjectValue:
		d.started = true
		d.pending = true
		return BeginObject, nil

	case jsoniter.InvalidValue:
		if err := d.tokenErr(); err != nil {
			return Invalid, err
		}
		if d.src.eof {
			if d.started && len(d.open) == 0 {
				return Invalid, io.EOF
			}
			return Invalid, io.ErrUnexpectedEOF
		}
		d.iter.ReportError("Next", "expect a JSON value")
		return Invalid, d.err()

	default:
		d.started = true
		d.iter.Skip()
		return Scalar, d.tokenErr()
	}
}

// Decode reads the object found by the last call to Next into v. If the
// input ends before the object does, it returns io.ErrUnexpectedEOF.
func (d *ArrayDecoder) Decode(v any) error {
	if !d.pending {
		return errNoObject
	}
	d.pending = false

	d.iter.ReadVal(v)
	return d.tokenErr()
}

func (d *ArrayDecoder) err() error {
	if d.src.err != nil {
		return d.src.err
	}
	if err := d.iter.Error; err != nil && err != io.EOF {
		return &SyntaxError{Err: err}
	}
	return nil
}

// tokenErr is err where running out of input means the document was cut
// short rather than malformed.
func (d *ArrayDecoder) tokenErr() error {
	err := d.err()
	if err != nil && d.src.err == nil && d.src.eof {
		return io.ErrUnexpectedEOF
	}
	return err
}
