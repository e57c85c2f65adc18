// Package errors provides structured error types for the amqp-wire library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: value path, Go/wire type
// names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindMalformedPayload).
//		Path("fields", "[2]").
//		Detail("unknown type code 0x%02x", code).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MalformedPayload(errors.PhaseFrame, "unknown type code 0x%02x", code)
//	err := errors.NotImplemented(errors.PhaseEncode, "chan int", "")
//
// All errors implement the standard error interface and support errors.Is/As.
// Matching with errors.Is compares Phase and Kind, so callers can test for a
// category without depending on message text:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseFrame, Kind: errors.KindMalformedPayload}) {
//	    // stream is desynchronized, close the connection
//	}
//
// Running out of buffered bytes is not represented here: "not enough data" is
// a normal tagged outcome of the framer and decoder, never an error.
package errors
