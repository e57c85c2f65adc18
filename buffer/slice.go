package buffer

import (
	"github.com/wippyai/amqp-wire/errors"
)

// Slice adapts a finite immutable byte range to the Source interface.
// The zero value is an empty source.
type Slice struct {
	data []byte
}

// NewSlice wraps data without copying. The caller must not mutate data while
// the Slice (or any view returned from it) is in use.
func NewSlice(data []byte) *Slice {
	return &Slice{data: data}
}

// Remaining reports the bytes available from offset to the end of the range.
func (s *Slice) Remaining(offset int) int {
	if offset >= len(s.data) {
		return 0
	}
	return len(s.data) - offset
}

// Peek returns a zero-copy view of n bytes at offset.
func (s *Slice) Peek(offset, n int) ([]byte, error) {
	if have := s.Remaining(offset); have < n {
		return nil, errors.InsufficientData(errors.PhaseFrame, n, have)
	}
	return s.data[offset : offset+n : offset+n], nil
}

// Read is identical to Peek for a finite source: a pure slice, no cursor.
func (s *Slice) Read(offset, n int) ([]byte, error) {
	return s.Peek(offset, n)
}

// Len reports the total length of the underlying range.
func (s *Slice) Len() int {
	return len(s.data)
}
