package amqpwire

import "io"

// Source is a byte source the framer and decoder read encoded values from.
// Offsets are relative to the start of a finite source, or to the live read
// cursor of a streaming source (which therefore treats offset 0 as "next
// unconsumed byte").
type Source interface {
	// Remaining reports how many bytes are available from offset to the end
	// of the currently buffered content.
	Remaining(offset int) int

	// Peek returns a read-only view of exactly n bytes starting at offset
	// without consuming anything. It fails if fewer than n bytes are
	// available.
	Peek(offset, n int) ([]byte, error)

	// Read returns the same view as Peek but, for streaming sources,
	// advances the read cursor past offset+n bytes. For finite sources it is
	// a pure slice with no side effect.
	Read(offset, n int) ([]byte, error)
}

// Sink is an append-only output for encoded bytes. *bytes.Buffer satisfies it.
type Sink interface {
	io.Writer
	io.ByteWriter
}
