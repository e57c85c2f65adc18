package wire

import (
	"fmt"

	amqpwire "github.com/wippyai/amqp-wire"
)

// Symbol is an AMQP symbol: ASCII text drawn from a constrained domain,
// encoded with the sym8/sym32 codes instead of str8/str32.
type Symbol string

// UUID is an RFC 4122 universally unique identifier.
type UUID [16]byte

func (u UUID) String() string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}

// Described is a wire value composed of a descriptor (a type tag,
// conventionally a small integer or symbol) and a payload value, both
// independently encoded behind the 0x00 constructor. Immutable after
// construction.
type Described struct {
	Descriptor any
	Value      any
}

// Forced pairs a value with an explicit wire type name, overriding the
// encoder's inference for exactly that value. It is consumed by Encode and
// never appears in decoded output.
type Forced struct {
	Type  string
	Value any
}

// OrderedFields is implemented by structured values that declare an explicit
// field ordering. The encoder projects such a value into the list of the
// named fields' values in declared order, rather than treating it as an
// unordered map. The ordering must name only fields the value actually has.
type OrderedFields interface {
	FieldOrder() []string
	FieldValue(name string) (any, bool)
}

// DecodeFunc turns the payload of one framed value (its bytes minus the
// leading type-code byte) into a Go value. Container decoders recurse through
// the supplied Codec.
type DecodeFunc func(payload []byte, c *Codec) (any, error)

// EncodeFunc appends one value's wire bytes, including the type-code byte,
// to the sink. Container encoders recurse through the supplied Codec.
type EncodeFunc func(v any, sink amqpwire.Sink, c *Codec) error

// Decoded is the tagged outcome of one Decode call. Complete == false means
// the source does not yet hold a whole value: nothing was consumed and the
// caller retries once more bytes arrive. It is distinct from both errors and
// from a successful decode of a null (Complete == true, Value == nil).
type Decoded struct {
	Value    any
	Consumed int
	Complete bool
}
