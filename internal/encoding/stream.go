// Package encoding emits JSON listing bodies incrementally, so large
// result sets never have to be materialized in memory.
package encoding

import (
	"errors"
	"io"
)

// ErrUseAfterClose is returned by Next once the closing bytes have been
// emitted.
var ErrUseAfterClose = errors.New("encoding: stream already closed")

// NextFunc yields the next encoded item, or (nil, nil) when the source is
// exhausted.
type NextFunc func() ([]byte, error)

type state int

const (
	stateHeader state = iota
	stateFirstItem
	stateNextItems
	stateClosed
)

// Stream wraps a sequence of pre-encoded JSON items in a
// {"contents": [...]} envelope, one chunk per Next call. Items are read
// one step ahead so the separator and the closing bytes can be placed
// without buffering the whole set.
type Stream struct {
	next    NextFunc
	state   state
	pending []byte
}

func NewStream(next NextFunc) *Stream {
	return &Stream{next: next}
}

// Next returns the next chunk of the encoded body. After the final chunk
// the stream is closed and further calls return ErrUseAfterClose.
func (s *Stream) Next() ([]byte, error) {
	switch s.state {
	case stateHeader:
		item, err := s.next()
		if err != nil {
			return nil, err
		}
		if item == nil {
			s.state = stateClosed
			return []byte(`{"contents": []}`), nil
		}
		s.pending = item
		s.state = stateFirstItem
		return []byte(`{"contents": [`), nil

	case stateFirstItem:
		chunk := s.pending
		if err := s.readAhead(); err != nil {
			return nil, err
		}
		s.state = stateNextItems
		return chunk, nil

	case stateNextItems:
		if s.pending == nil {
			s.state = stateClosed
			return []byte(`]}`), nil
		}
		chunk := append([]byte(`, `), s.pending...)
		if err := s.readAhead(); err != nil {
			return nil, err
		}
		return chunk, nil
	}
	return nil, ErrUseAfterClose
}

// Closed reports whether the final chunk has been emitted.
func (s *Stream) Closed() bool { return s.state == stateClosed }

func (s *Stream) readAhead() error {
	item, err := s.next()
	if err != nil {
		return err
	}
	s.pending = item
	return nil
}

// WriteTo drains the stream into w.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for !s.Closed() {
		chunk, err := s.Next()
		if err != nil {
			return written, err
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
