package wire

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"time"

	amqpwire "github.com/wippyai/amqp-wire"
	"github.com/wippyai/amqp-wire/errors"
)

// Encode infers the wire type of v and appends its encoding to the sink.
// Encoding is eager and fully recursive; there is no streaming encode path.
func (c *Codec) Encode(v any, sink amqpwire.Sink) error {
	return c.encode(v, sink, "")
}

// EncodeAs encodes v with the named wire type instead of the inferred one.
// nil still encodes as null regardless of the override.
func (c *Codec) EncodeAs(v any, typeName string, sink amqpwire.Sink) error {
	return c.encode(v, sink, typeName)
}

func (c *Codec) encode(v any, sink amqpwire.Sink, forced string) error {
	if v == nil {
		return c.invoke("null", nil, sink)
	}

	// Structural wrappers resolve before any override.
	switch t := v.(type) {
	case Forced:
		return c.encode(t.Value, sink, t.Type)
	case Described:
		return c.encodeDescribed(t, sink)
	}

	if forced != "" {
		return c.invoke(forced, v, sink)
	}

	// Ordered-field projection takes precedence over the generic structured
	// fallback: the value becomes the list of its named fields in declared
	// order.
	if of, ok := v.(OrderedFields); ok {
		fields, err := projectOrdered(of)
		if err != nil {
			return err
		}
		return c.invoke("list", fields, sink)
	}

	name, err := c.inferName(v)
	if err != nil {
		return err
	}
	return c.invoke(name, v, sink)
}

// encodeDescribed emits the described-type constructor, then the descriptor,
// then the payload value. Each recursive encode is self-framing, so no
// length-prefix bookkeeping is needed.
func (c *Codec) encodeDescribed(d Described, sink amqpwire.Sink) error {
	if err := sink.WriteByte(CodeDescribed); err != nil {
		return err
	}
	if err := c.encode(d.Descriptor, sink, ""); err != nil {
		return err
	}
	return c.encode(d.Value, sink, "")
}

func (c *Codec) invoke(name string, v any, sink amqpwire.Sink) error {
	fn, ok := c.encoders[name]
	if !ok {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), name)
	}
	return fn(v, sink, c)
}

// inferName resolves a value to a registered encoder name. The set of input
// shapes is closed: anything outside it is not_implemented, naming the Go
// type.
func (c *Codec) inferName(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "null", nil
	case bool:
		return "boolean", nil
	case string:
		return "string", nil
	case Symbol:
		return "symbol", nil
	case []byte:
		return "binary", nil
	case time.Time:
		return "timestamp", nil
	case UUID:
		return "uuid", nil

	case int:
		return intName(int64(t)), nil
	case int8:
		return "int", nil
	case int16:
		return "int", nil
	case int32:
		return "int", nil
	case int64:
		return intName(t), nil
	case uint8:
		return "int", nil
	case uint16:
		return "int", nil
	case uint32:
		return uintName(uint64(t)), nil
	case uint:
		return uintName(uint64(t)), nil
	case uint64:
		return uintName(t), nil

	case float32:
		return floatName(float64(t)), nil
	case float64:
		return floatName(t), nil

	case *big.Int:
		// Wide integers beyond native numeric precision. A typed nil carries
		// no value and follows the nil rule.
		if t == nil {
			return "null", nil
		}
		if t.IsInt64() {
			return "long", nil
		}
		if t.IsUint64() {
			return "ulong", nil
		}
		return "", errors.Overflow(errors.PhaseEncode, t.String(), "long")
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "list", nil
	case reflect.Map:
		return "map", nil
	}

	return "", errors.NotImplemented(errors.PhaseEncode, typeName(v), "")
}

// intName applies the numeric inference rule: integral values within the
// signed 32-bit range encode as int, outside it as long.
func intName(v int64) string {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return "int"
	}
	return "long"
}

func uintName(v uint64) string {
	if v <= math.MaxInt32 {
		return "int"
	}
	if v <= math.MaxInt64 {
		return "long"
	}
	return "ulong"
}

// floatName keeps the original inference behavior: integral floats follow
// the int/long rule, everything else is double. Single-precision values are
// never distinguished from double-precision here; a forced "float" override
// is the only way to select the float encoder.
func floatName(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		if f >= math.MinInt32 && f <= math.MaxInt32 {
			return "int"
		}
		if f >= math.MinInt64 && f <= math.MaxInt64 {
			return "long"
		}
	}
	return "double"
}

// projectOrdered turns an ordered-fields value into the list of its declared
// fields' values. A declared name the value does not have is an error.
func projectOrdered(of OrderedFields) ([]any, error) {
	order := of.FieldOrder()
	fields := make([]any, 0, len(order))
	for _, name := range order {
		val, ok := of.FieldValue(name)
		if !ok {
			return nil, errors.FieldMissing(errors.PhaseEncode, name)
		}
		fields = append(fields, val)
	}
	return fields, nil
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
