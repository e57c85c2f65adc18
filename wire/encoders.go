package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
	"reflect"
	"sort"
	"time"
	"unicode/utf8"

	amqpwire "github.com/wippyai/amqp-wire"
	"github.com/wippyai/amqp-wire/errors"
)

// defaultEncoders builds the built-in encode registry: one function per wire
// type name. Integer encoders pick the compact wire form when the value
// fits. Every function emits a complete self-framed value, type-code byte
// included.
func defaultEncoders() map[string]EncodeFunc {
	return map[string]EncodeFunc{
		"null": func(v any, sink amqpwire.Sink, c *Codec) error {
			return sink.WriteByte(CodeNull)
		},
		"boolean":   encodeBoolean,
		"ubyte":     encodeUbyte,
		"byte":      encodeByte,
		"ushort":    encodeUshort,
		"short":     encodeShort,
		"uint":      encodeUint,
		"int":       encodeInt,
		"ulong":     encodeUlong,
		"long":      encodeLong,
		"float":     encodeFloat,
		"double":    encodeDouble,
		"char":      encodeChar,
		"timestamp": encodeTimestamp,
		"uuid":      encodeUUID,
		"binary":    encodeBinary,
		"string":    encodeString,
		"symbol":    encodeSymbol,
		"list":      encodeList,
		"map":       encodeMap,
		"array":     encodeArray,
	}
}

func encodeBoolean(v any, sink amqpwire.Sink, c *Codec) error {
	b, ok := v.(bool)
	if !ok {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "boolean")
	}
	if b {
		return sink.WriteByte(CodeBoolTrue)
	}
	return sink.WriteByte(CodeBoolFalse)
}

func encodeUbyte(v any, sink amqpwire.Sink, c *Codec) error {
	u, err := coerceUint(v, math.MaxUint8, "ubyte")
	if err != nil {
		return err
	}
	if err := sink.WriteByte(CodeUbyte); err != nil {
		return err
	}
	return sink.WriteByte(byte(u))
}

func encodeByte(v any, sink amqpwire.Sink, c *Codec) error {
	i, err := coerceInt(v, math.MinInt8, math.MaxInt8, "byte")
	if err != nil {
		return err
	}
	if err := sink.WriteByte(CodeByte); err != nil {
		return err
	}
	return sink.WriteByte(byte(int8(i)))
}

func encodeUshort(v any, sink amqpwire.Sink, c *Codec) error {
	u, err := coerceUint(v, math.MaxUint16, "ushort")
	if err != nil {
		return err
	}
	if err := sink.WriteByte(CodeUshort); err != nil {
		return err
	}
	return writeUint16(sink, uint16(u))
}

func encodeShort(v any, sink amqpwire.Sink, c *Codec) error {
	i, err := coerceInt(v, math.MinInt16, math.MaxInt16, "short")
	if err != nil {
		return err
	}
	if err := sink.WriteByte(CodeShort); err != nil {
		return err
	}
	return writeUint16(sink, uint16(int16(i)))
}

func encodeUint(v any, sink amqpwire.Sink, c *Codec) error {
	u, err := coerceUint(v, math.MaxUint32, "uint")
	if err != nil {
		return err
	}
	switch {
	case u == 0:
		return sink.WriteByte(CodeUint0)
	case u <= math.MaxUint8:
		if err := sink.WriteByte(CodeSmallUint); err != nil {
			return err
		}
		return sink.WriteByte(byte(u))
	default:
		if err := sink.WriteByte(CodeUint); err != nil {
			return err
		}
		return writeUint32(sink, uint32(u))
	}
}

func encodeInt(v any, sink amqpwire.Sink, c *Codec) error {
	i, err := coerceInt(v, math.MinInt32, math.MaxInt32, "int")
	if err != nil {
		return err
	}
	if i >= math.MinInt8 && i <= math.MaxInt8 {
		if err := sink.WriteByte(CodeSmallInt); err != nil {
			return err
		}
		return sink.WriteByte(byte(int8(i)))
	}
	if err := sink.WriteByte(CodeInt); err != nil {
		return err
	}
	return writeUint32(sink, uint32(int32(i)))
}

func encodeUlong(v any, sink amqpwire.Sink, c *Codec) error {
	u, err := coerceUint(v, math.MaxUint64, "ulong")
	if err != nil {
		return err
	}
	switch {
	case u == 0:
		return sink.WriteByte(CodeUlong0)
	case u <= math.MaxUint8:
		if err := sink.WriteByte(CodeSmallUlong); err != nil {
			return err
		}
		return sink.WriteByte(byte(u))
	default:
		if err := sink.WriteByte(CodeUlong); err != nil {
			return err
		}
		return writeUint64(sink, u)
	}
}

func encodeLong(v any, sink amqpwire.Sink, c *Codec) error {
	i, err := coerceInt(v, math.MinInt64, math.MaxInt64, "long")
	if err != nil {
		return err
	}
	if i >= math.MinInt8 && i <= math.MaxInt8 {
		if err := sink.WriteByte(CodeSmallLong); err != nil {
			return err
		}
		return sink.WriteByte(byte(int8(i)))
	}
	if err := sink.WriteByte(CodeLong); err != nil {
		return err
	}
	return writeUint64(sink, uint64(i))
}

func encodeFloat(v any, sink amqpwire.Sink, c *Codec) error {
	f, ok := coerceFloat(v)
	if !ok {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "float")
	}
	if err := sink.WriteByte(CodeFloat); err != nil {
		return err
	}
	return writeUint32(sink, math.Float32bits(float32(f)))
}

func encodeDouble(v any, sink amqpwire.Sink, c *Codec) error {
	f, ok := coerceFloat(v)
	if !ok {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "double")
	}
	if err := sink.WriteByte(CodeDouble); err != nil {
		return err
	}
	return writeUint64(sink, math.Float64bits(f))
}

func encodeChar(v any, sink amqpwire.Sink, c *Codec) error {
	r, ok := v.(rune)
	if !ok {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "char")
	}
	if !utf8.ValidRune(r) {
		return errors.New(errors.PhaseEncode, errors.KindMalformedPayload).
			Detail("invalid Unicode scalar value 0x%X", r).
			Build()
	}
	if err := sink.WriteByte(CodeChar); err != nil {
		return err
	}
	return writeUint32(sink, uint32(r))
}

func encodeTimestamp(v any, sink amqpwire.Sink, c *Codec) error {
	t, ok := v.(time.Time)
	if !ok {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "timestamp")
	}
	if err := sink.WriteByte(CodeTimestamp); err != nil {
		return err
	}
	return writeUint64(sink, uint64(t.UnixMilli()))
}

func encodeUUID(v any, sink amqpwire.Sink, c *Codec) error {
	u, ok := v.(UUID)
	if !ok {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "uuid")
	}
	if err := sink.WriteByte(CodeUUID); err != nil {
		return err
	}
	_, err := sink.Write(u[:])
	return err
}

func encodeBinary(v any, sink amqpwire.Sink, c *Codec) error {
	data, ok := v.([]byte)
	if !ok {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "binary")
	}
	return writeVariable(sink, CodeVbin8, CodeVbin32, data)
}

func encodeString(v any, sink amqpwire.Sink, c *Codec) error {
	s, ok := v.(string)
	if !ok {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "string")
	}
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseEncode, []byte(s))
	}
	return writeVariable(sink, CodeStr8, CodeStr32, []byte(s))
}

func encodeSymbol(v any, sink amqpwire.Sink, c *Codec) error {
	var s string
	switch t := v.(type) {
	case Symbol:
		s = string(t)
	case string:
		s = t
	default:
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "symbol")
	}
	return writeVariable(sink, CodeSym8, CodeSym32, []byte(s))
}

// encodeList encodes any slice or array as an AMQP list: elements are
// encoded eagerly into a scratch buffer, then the compact or wide frame is
// chosen from the resulting body size.
func encodeList(v any, sink amqpwire.Sink, c *Codec) error {
	elems, err := toSlice(v, "list")
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		return sink.WriteByte(CodeList0)
	}

	var body bytes.Buffer
	for _, e := range elems {
		if err := c.encode(e, &body, ""); err != nil {
			return err
		}
	}
	return writeContainer(sink, CodeList8, CodeList32, len(elems), body.Bytes())
}

// encodeMap encodes a map as alternating key/value pairs. String-keyed maps
// are emitted in sorted key order so the encoding is deterministic.
func encodeMap(v any, sink amqpwire.Sink, c *Codec) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return errors.NotImplemented(errors.PhaseEncode, typeName(v), "map")
	}

	keys := rv.MapKeys()
	if rv.Type().Key().Kind() == reflect.String {
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	}

	var body bytes.Buffer
	for _, k := range keys {
		if err := c.encode(k.Interface(), &body, ""); err != nil {
			return err
		}
		if err := c.encode(rv.MapIndex(k).Interface(), &body, ""); err != nil {
			return err
		}
	}
	return writeContainer(sink, CodeMap8, CodeMap32, 2*len(keys), body.Bytes())
}

// writeContainer frames a list/map body: compact form when both the count
// and the size field (body plus its own count byte) fit in one byte.
func writeContainer(sink amqpwire.Sink, code8, code32 byte, count int, body []byte) error {
	if count <= math.MaxUint8 && len(body)+1 <= math.MaxUint8 {
		if err := sink.WriteByte(code8); err != nil {
			return err
		}
		if err := sink.WriteByte(byte(len(body) + 1)); err != nil {
			return err
		}
		if err := sink.WriteByte(byte(count)); err != nil {
			return err
		}
		_, err := sink.Write(body)
		return err
	}

	if err := sink.WriteByte(code32); err != nil {
		return err
	}
	if err := writeUint32(sink, uint32(len(body)+4)); err != nil {
		return err
	}
	if err := writeUint32(sink, uint32(count)); err != nil {
		return err
	}
	_, err := sink.Write(body)
	return err
}

// encodeArray encodes a homogeneous slice as an AMQP array: one shared
// element constructor followed by the elements' payloads with no per-element
// code bytes. The wide form of the element type is always used so every
// payload has a uniform layout. An empty array carries the null constructor.
func encodeArray(v any, sink amqpwire.Sink, c *Codec) error {
	elems, err := toSlice(v, "array")
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		if err := sink.WriteByte(CodeArray8); err != nil {
			return err
		}
		if err := sink.WriteByte(2); err != nil {
			return err
		}
		if err := sink.WriteByte(0); err != nil {
			return err
		}
		return sink.WriteByte(CodeNull)
	}

	name, err := c.arrayElementName(elems)
	if err != nil {
		return err
	}
	elem, ok := arrayElements[name]
	if !ok {
		return errors.New(errors.PhaseEncode, errors.KindNotImplemented).
			Detail("no array form for element type %q", name).
			Build()
	}

	var body bytes.Buffer
	for _, e := range elems {
		if err := elem.write(e, &body); err != nil {
			return err
		}
	}

	// Compact size covers the count byte, the constructor and the payloads.
	if len(elems) <= math.MaxUint8 && body.Len()+2 <= math.MaxUint8 {
		if err := sink.WriteByte(CodeArray8); err != nil {
			return err
		}
		if err := sink.WriteByte(byte(body.Len() + 2)); err != nil {
			return err
		}
		if err := sink.WriteByte(byte(len(elems))); err != nil {
			return err
		}
		if err := sink.WriteByte(elem.ctor); err != nil {
			return err
		}
		_, err := sink.Write(body.Bytes())
		return err
	}

	if err := sink.WriteByte(CodeArray32); err != nil {
		return err
	}
	if err := writeUint32(sink, uint32(body.Len()+5)); err != nil {
		return err
	}
	if err := writeUint32(sink, uint32(len(elems))); err != nil {
		return err
	}
	if err := sink.WriteByte(elem.ctor); err != nil {
		return err
	}
	_, err = sink.Write(body.Bytes())
	return err
}

// arrayElementName infers one wire type for every element. Mixed int and
// long elements promote to long; any other mix is rejected.
func (c *Codec) arrayElementName(elems []any) (string, error) {
	name := ""
	for _, e := range elems {
		n, err := c.inferName(e)
		if err != nil {
			return "", err
		}
		switch {
		case name == "" || name == n:
			name = n
		case (name == "int" && n == "long") || (name == "long" && n == "int"):
			name = "long"
		default:
			return "", errors.New(errors.PhaseEncode, errors.KindNotImplemented).
				Detail("array elements mix %q and %q", name, n).
				Build()
		}
	}
	return name, nil
}

// arrayElement writes one element payload in the wide form of its
// constructor.
type arrayElement struct {
	ctor  byte
	write func(v any, buf *bytes.Buffer) error
}

var arrayElements = map[string]arrayElement{
	"boolean": {CodeBool, func(v any, buf *bytes.Buffer) error {
		b, ok := v.(bool)
		if !ok {
			return errors.NotImplemented(errors.PhaseEncode, typeName(v), "boolean")
		}
		if b {
			return buf.WriteByte(1)
		}
		return buf.WriteByte(0)
	}},
	"int": {CodeInt, func(v any, buf *bytes.Buffer) error {
		i, err := coerceInt(v, math.MinInt32, math.MaxInt32, "int")
		if err != nil {
			return err
		}
		return writeUint32(buf, uint32(int32(i)))
	}},
	"long": {CodeLong, func(v any, buf *bytes.Buffer) error {
		i, err := coerceInt(v, math.MinInt64, math.MaxInt64, "long")
		if err != nil {
			return err
		}
		return writeUint64(buf, uint64(i))
	}},
	"uint": {CodeUint, func(v any, buf *bytes.Buffer) error {
		u, err := coerceUint(v, math.MaxUint32, "uint")
		if err != nil {
			return err
		}
		return writeUint32(buf, uint32(u))
	}},
	"ulong": {CodeUlong, func(v any, buf *bytes.Buffer) error {
		u, err := coerceUint(v, math.MaxUint64, "ulong")
		if err != nil {
			return err
		}
		return writeUint64(buf, u)
	}},
	"float": {CodeFloat, func(v any, buf *bytes.Buffer) error {
		f, ok := coerceFloat(v)
		if !ok {
			return errors.NotImplemented(errors.PhaseEncode, typeName(v), "float")
		}
		return writeUint32(buf, math.Float32bits(float32(f)))
	}},
	"double": {CodeDouble, func(v any, buf *bytes.Buffer) error {
		f, ok := coerceFloat(v)
		if !ok {
			return errors.NotImplemented(errors.PhaseEncode, typeName(v), "double")
		}
		return writeUint64(buf, math.Float64bits(f))
	}},
	"timestamp": {CodeTimestamp, func(v any, buf *bytes.Buffer) error {
		t, ok := v.(time.Time)
		if !ok {
			return errors.NotImplemented(errors.PhaseEncode, typeName(v), "timestamp")
		}
		return writeUint64(buf, uint64(t.UnixMilli()))
	}},
	"uuid": {CodeUUID, func(v any, buf *bytes.Buffer) error {
		u, ok := v.(UUID)
		if !ok {
			return errors.NotImplemented(errors.PhaseEncode, typeName(v), "uuid")
		}
		_, err := buf.Write(u[:])
		return err
	}},
	"string": {CodeStr32, func(v any, buf *bytes.Buffer) error {
		s, ok := v.(string)
		if !ok {
			return errors.NotImplemented(errors.PhaseEncode, typeName(v), "string")
		}
		if !utf8.ValidString(s) {
			return errors.InvalidUTF8(errors.PhaseEncode, []byte(s))
		}
		if err := writeUint32(buf, uint32(len(s))); err != nil {
			return err
		}
		_, err := buf.WriteString(s)
		return err
	}},
	"symbol": {CodeSym32, func(v any, buf *bytes.Buffer) error {
		var s string
		switch t := v.(type) {
		case Symbol:
			s = string(t)
		case string:
			s = t
		default:
			return errors.NotImplemented(errors.PhaseEncode, typeName(v), "symbol")
		}
		if err := writeUint32(buf, uint32(len(s))); err != nil {
			return err
		}
		_, err := buf.WriteString(s)
		return err
	}},
	"binary": {CodeVbin32, func(v any, buf *bytes.Buffer) error {
		data, ok := v.([]byte)
		if !ok {
			return errors.NotImplemented(errors.PhaseEncode, typeName(v), "binary")
		}
		if err := writeUint32(buf, uint32(len(data))); err != nil {
			return err
		}
		_, err := buf.Write(data)
		return err
	}},
}

func writeVariable(sink amqpwire.Sink, code8, code32 byte, data []byte) error {
	if len(data) <= math.MaxUint8 {
		if err := sink.WriteByte(code8); err != nil {
			return err
		}
		if err := sink.WriteByte(byte(len(data))); err != nil {
			return err
		}
		_, err := sink.Write(data)
		return err
	}
	if err := sink.WriteByte(code32); err != nil {
		return err
	}
	if err := writeUint32(sink, uint32(len(data))); err != nil {
		return err
	}
	_, err := sink.Write(data)
	return err
}

func writeUint16(sink amqpwire.Sink, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := sink.Write(b[:])
	return err
}

func writeUint32(sink amqpwire.Sink, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := sink.Write(b[:])
	return err
}

func writeUint64(sink amqpwire.Sink, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := sink.Write(b[:])
	return err
}

// toSlice flattens any slice or array value into []any.
func toSlice(v any, wireType string) ([]any, error) {
	if elems, ok := v.([]any); ok {
		return elems, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.NotImplemented(errors.PhaseEncode, typeName(v), wireType)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// coerceInt accepts any integer-kind value (and integral floats) within
// [min, max].
func coerceInt(v any, min, max int64, wireType string) (int64, error) {
	var i int64
	switch t := v.(type) {
	case int:
		i = int64(t)
	case int8:
		i = int64(t)
	case int16:
		i = int64(t)
	case int32:
		i = int64(t)
	case int64:
		i = t
	case uint8:
		i = int64(t)
	case uint16:
		i = int64(t)
	case uint32:
		i = int64(t)
	case uint:
		if t > math.MaxInt64 {
			return 0, errors.Overflow(errors.PhaseEncode, v, wireType)
		}
		i = int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return 0, errors.Overflow(errors.PhaseEncode, v, wireType)
		}
		i = int64(t)
	case float32:
		return coerceIntFromFloat(float64(t), min, max, wireType)
	case float64:
		return coerceIntFromFloat(t, min, max, wireType)
	case *big.Int:
		if t == nil {
			return 0, errors.NotImplemented(errors.PhaseEncode, typeName(v), wireType)
		}
		if !t.IsInt64() {
			return 0, errors.Overflow(errors.PhaseEncode, t.String(), wireType)
		}
		i = t.Int64()
	default:
		return 0, errors.NotImplemented(errors.PhaseEncode, typeName(v), wireType)
	}
	if i < min || i > max {
		return 0, errors.Overflow(errors.PhaseEncode, v, wireType)
	}
	return i, nil
}

func coerceIntFromFloat(f float64, min, max int64, wireType string) (int64, error) {
	if f != math.Trunc(f) || f < float64(min) || f > float64(max) {
		return 0, errors.Overflow(errors.PhaseEncode, f, wireType)
	}
	return int64(f), nil
}

// coerceUint accepts any non-negative integer-kind value within [0, max].
func coerceUint(v any, max uint64, wireType string) (uint64, error) {
	var u uint64
	switch t := v.(type) {
	case uint:
		u = uint64(t)
	case uint8:
		u = uint64(t)
	case uint16:
		u = uint64(t)
	case uint32:
		u = uint64(t)
	case uint64:
		u = t
	case int, int8, int16, int32, int64:
		i, err := coerceInt(v, 0, math.MaxInt64, wireType)
		if err != nil {
			return 0, err
		}
		u = uint64(i)
	case float32:
		i, err := coerceIntFromFloat(float64(t), 0, math.MaxInt64, wireType)
		if err != nil {
			return 0, err
		}
		u = uint64(i)
	case float64:
		i, err := coerceIntFromFloat(t, 0, math.MaxInt64, wireType)
		if err != nil {
			return 0, err
		}
		u = uint64(i)
	case *big.Int:
		if t == nil {
			return 0, errors.NotImplemented(errors.PhaseEncode, typeName(v), wireType)
		}
		if !t.IsUint64() {
			return 0, errors.Overflow(errors.PhaseEncode, t.String(), wireType)
		}
		u = t.Uint64()
	default:
		return 0, errors.NotImplemented(errors.PhaseEncode, typeName(v), wireType)
	}
	if u > max {
		return 0, errors.Overflow(errors.PhaseEncode, v, wireType)
	}
	return u, nil
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
