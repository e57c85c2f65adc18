// Package buffer provides the two byte-source shapes the codec reads from.
//
// Slice wraps a finite, immutable byte range: offsets are absolute, views are
// zero-copy, and Read has no side effect.
//
// Ring is a growable circular byte store for streaming callers: bytes are
// appended with Write (typically straight from a socket), offsets are
// relative to the live read cursor, and only Read advances the cursor. Views
// returned by a Ring are owned copies, because the backing storage is reused
// once bytes are consumed.
//
// Both satisfy amqpwire.Source. This package is the only place that knows
// which source shape is in play; the framer and decoder are written once
// against the interface.
//
// A Ring has no internal locking. A given Ring must be driven by one
// goroutine at a time, typically the one owning the connection.
package buffer
