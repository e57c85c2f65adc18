// Package amqpwire implements the framing and dispatch core of the AMQP 1.0
// binary encoding: locating the exact byte span of the next encoded value in
// a buffer or a live network stream, decoding it into a dynamic Go value, and
// encoding Go values back into wire bytes.
//
// # Architecture Overview
//
// The library is organized into a small set of packages:
//
//	amqpwire/        Root package with the Source and Sink interfaces
//	├── wire/        Framer, Decoder, Encoder and the primitive codecs
//	├── buffer/      Byte-source adapters: finite slice and streaming ring
//	├── errors/      Structured error types for debugging
//	└── cmd/         wiredump inspection tool
//
// # Quick Start
//
// Decode one value from a byte slice:
//
//	codec := wire.New()
//	res, err := codec.Decode(buffer.NewSlice(data))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !res.Complete {
//	    // not enough data yet
//	}
//	fmt.Println(res.Value)
//
// Encode a value:
//
//	var buf bytes.Buffer
//	if err := codec.Encode(map[string]any{"answer": 42}, &buf); err != nil {
//	    log.Fatal(err)
//	}
//
// # Streaming Sources
//
// A buffer.Ring is fed incrementally (for example from a socket) and decoded
// with the same codec. When a value is only partially buffered, Decode
// reports Complete == false and consumes nothing; the caller retries after
// appending more bytes. The framing protocol guarantees retries are
// idempotent.
//
// # Scope
//
// The package covers exactly how one value's bytes are located and
// round-tripped. Protocol semantics above the encoding layer (connections,
// sessions, links, frames) are out of scope.
package amqpwire
