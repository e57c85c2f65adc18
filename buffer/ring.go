package buffer

import (
	"github.com/wippyai/amqp-wire/errors"
)

const ringInitCap = 64

// Ring is a growable circular byte store with an internal read cursor.
// Write appends at the tail; Peek inspects buffered bytes without moving the
// cursor; Read copies bytes out and advances the cursor, releasing the
// storage for reuse. Offsets passed to Peek/Read/Remaining are relative to
// the cursor.
type Ring struct {
	data []byte
	head int // index of the oldest unconsumed byte
	size int // unconsumed byte count
}

// NewRing returns an empty ring with a small initial capacity.
func NewRing() *Ring {
	return &Ring{data: make([]byte, ringInitCap)}
}

// Write appends p to the ring, growing the backing storage as needed.
// It never fails; the error return satisfies io.Writer.
func (r *Ring) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.size+len(p) > len(r.data) {
		r.grow(r.size + len(p))
	}
	tail := (r.head + r.size) % len(r.data)
	n := copy(r.data[tail:], p)
	copy(r.data, p[n:])
	r.size += len(p)
	return len(p), nil
}

// grow reallocates to at least min bytes, linearizing the content so the
// cursor restarts at index 0.
func (r *Ring) grow(min int) {
	newCap := len(r.data) * 2
	if newCap < ringInitCap {
		newCap = ringInitCap
	}
	for newCap < min {
		newCap *= 2
	}
	next := make([]byte, newCap)
	r.copyOut(next[:r.size], 0)
	r.data = next
	r.head = 0
}

// Len reports the number of unconsumed bytes.
func (r *Ring) Len() int {
	return r.size
}

// Remaining reports the unconsumed bytes available from offset.
func (r *Ring) Remaining(offset int) int {
	if offset >= r.size {
		return 0
	}
	return r.size - offset
}

// Peek returns an owned copy of n bytes at offset. The cursor does not move.
func (r *Ring) Peek(offset, n int) ([]byte, error) {
	if have := r.Remaining(offset); have < n {
		return nil, errors.InsufficientData(errors.PhaseFrame, n, have)
	}
	out := make([]byte, n)
	r.copyOut(out, offset)
	return out, nil
}

// Read returns an owned copy of n bytes at offset and advances the cursor
// past offset+n bytes, consuming any skipped prefix as well.
func (r *Ring) Read(offset, n int) ([]byte, error) {
	out, err := r.Peek(offset, n)
	if err != nil {
		return nil, err
	}
	consumed := offset + n
	r.head = (r.head + consumed) % len(r.data)
	r.size -= consumed
	return out, nil
}

// copyOut copies len(dst) bytes starting at offset into dst, handling the
// wrap at the end of the backing storage. Bounds are the caller's problem.
func (r *Ring) copyOut(dst []byte, offset int) {
	if len(dst) == 0 {
		return
	}
	start := (r.head + offset) % len(r.data)
	n := copy(dst, r.data[start:])
	copy(dst[n:], r.data)
}
