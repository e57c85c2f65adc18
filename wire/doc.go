// Package wire implements the AMQP 1.0 value codec: framing, decoding and
// encoding of the primitive and described types.
//
// # Framing
//
// Every encoded value is self-framing. ReadFullValue computes a value's
// total extent from its leading type code alone: the code's high nibble
// selects a framing class (fixed width, one-byte size prefix, four-byte size
// prefix, or a described pairing of two nested values) without interpreting
// the payload. Framing over a partial streaming buffer reports "not yet"
// rather than failing, and never consumes bytes it cannot frame completely.
//
// # Decoding
//
// Codec.Decode frames one value, then dispatches on the type code through
// the decode registry. Containers (lists, maps, arrays) recurse through the
// same registry, so a decoder registered for a custom code applies at any
// nesting depth. Described values decode to the Described pairing of their
// decoded descriptor and payload.
//
// # Encoding
//
// Codec.Encode infers a wire type from the Go value's shape: integral
// numbers choose int or long by range, slices become lists, maps become
// maps, and values implementing OrderedFields are projected to the list of
// their declared fields. The Forced wrapper (or EncodeAs) overrides
// inference with an explicit registry name.
//
// Registries are fixed at construction:
//
//	codec := wire.New(
//	    wire.WithLogger(logger),
//	)
package wire
