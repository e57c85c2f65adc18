package wire

import (
	"encoding/binary"
	"math"
	"time"
	"unicode/utf8"

	"github.com/wippyai/amqp-wire/buffer"
	"github.com/wippyai/amqp-wire/errors"
)

// defaultDecoders builds the built-in decode registry: one function per
// AMQP 1.0 primitive type code. Every function receives the framed payload
// (the span minus the leading code byte), so fixed-width payloads arrive
// exactly sized and variable-width payloads start with their size field.
func defaultDecoders() map[byte]DecodeFunc {
	return map[byte]DecodeFunc{
		CodeNull: func(p []byte, c *Codec) (any, error) { return nil, nil },

		CodeBoolTrue:  func(p []byte, c *Codec) (any, error) { return true, nil },
		CodeBoolFalse: func(p []byte, c *Codec) (any, error) { return false, nil },
		CodeBool:      decodeBool,

		CodeUint0:  func(p []byte, c *Codec) (any, error) { return uint32(0), nil },
		CodeUlong0: func(p []byte, c *Codec) (any, error) { return uint64(0), nil },
		CodeList0:  func(p []byte, c *Codec) (any, error) { return []any{}, nil },

		CodeUbyte:      func(p []byte, c *Codec) (any, error) { return p[0], nil },
		CodeByte:       func(p []byte, c *Codec) (any, error) { return int8(p[0]), nil },
		CodeSmallUint:  func(p []byte, c *Codec) (any, error) { return uint32(p[0]), nil },
		CodeSmallUlong: func(p []byte, c *Codec) (any, error) { return uint64(p[0]), nil },
		CodeSmallInt:   func(p []byte, c *Codec) (any, error) { return int32(int8(p[0])), nil },
		CodeSmallLong:  func(p []byte, c *Codec) (any, error) { return int64(int8(p[0])), nil },

		CodeUshort: func(p []byte, c *Codec) (any, error) { return binary.BigEndian.Uint16(p), nil },
		CodeShort:  func(p []byte, c *Codec) (any, error) { return int16(binary.BigEndian.Uint16(p)), nil },
		CodeUint:   func(p []byte, c *Codec) (any, error) { return binary.BigEndian.Uint32(p), nil },
		CodeInt:    func(p []byte, c *Codec) (any, error) { return int32(binary.BigEndian.Uint32(p)), nil },
		CodeUlong:  func(p []byte, c *Codec) (any, error) { return binary.BigEndian.Uint64(p), nil },
		CodeLong:   func(p []byte, c *Codec) (any, error) { return int64(binary.BigEndian.Uint64(p)), nil },

		CodeFloat: func(p []byte, c *Codec) (any, error) {
			return math.Float32frombits(binary.BigEndian.Uint32(p)), nil
		},
		CodeDouble: func(p []byte, c *Codec) (any, error) {
			return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
		},

		CodeChar: decodeChar,
		CodeTimestamp: func(p []byte, c *Codec) (any, error) {
			ms := int64(binary.BigEndian.Uint64(p))
			return time.UnixMilli(ms).UTC(), nil
		},
		CodeUUID: func(p []byte, c *Codec) (any, error) {
			var u UUID
			copy(u[:], p)
			return u, nil
		},

		CodeVbin8:  func(p []byte, c *Codec) (any, error) { return p[1:], nil },
		CodeVbin32: func(p []byte, c *Codec) (any, error) { return p[4:], nil },
		CodeStr8:   func(p []byte, c *Codec) (any, error) { return decodeString(p[1:]) },
		CodeStr32:  func(p []byte, c *Codec) (any, error) { return decodeString(p[4:]) },
		CodeSym8: func(p []byte, c *Codec) (any, error) {
			s, err := decodeString(p[1:])
			if err != nil {
				return nil, err
			}
			return Symbol(s.(string)), nil
		},
		CodeSym32: func(p []byte, c *Codec) (any, error) {
			s, err := decodeString(p[4:])
			if err != nil {
				return nil, err
			}
			return Symbol(s.(string)), nil
		},

		CodeList8:  func(p []byte, c *Codec) (any, error) { return decodeList(p[1:], c) },
		CodeList32: func(p []byte, c *Codec) (any, error) { return decodeList32(p[4:], c) },
		CodeMap8:   func(p []byte, c *Codec) (any, error) { return decodeMap(p[1:], c) },
		CodeMap32:  func(p []byte, c *Codec) (any, error) { return decodeMap32(p[4:], c) },

		CodeArray8:  func(p []byte, c *Codec) (any, error) { return decodeArray(p[1:], c) },
		CodeArray32: func(p []byte, c *Codec) (any, error) { return decodeArray32(p[4:], c) },
	}
}

func decodeBool(p []byte, c *Codec) (any, error) {
	switch p[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, errors.MalformedPayload(errors.PhaseDecode,
			"invalid boolean octet 0x%02x", p[0])
	}
}

func decodeChar(p []byte, c *Codec) (any, error) {
	r := rune(binary.BigEndian.Uint32(p))
	if !utf8.ValidRune(r) {
		return nil, errors.MalformedPayload(errors.PhaseDecode,
			"invalid Unicode scalar value 0x%X", r)
	}
	return r, nil
}

func decodeString(data []byte) (any, error) {
	if !utf8.Valid(data) {
		return nil, errors.InvalidUTF8(errors.PhaseDecode, data)
	}
	return string(data), nil
}

// decodeList decodes the body of a list8/list32: a count followed by that
// many independently encoded items. body starts at the count field.
func decodeList(body []byte, c *Codec) (any, error) {
	if len(body) < 1 {
		return nil, errors.MalformedPayload(errors.PhaseDecode, "list body missing count")
	}
	return decodeItems(body[1:], int(body[0]), c)
}

func decodeList32(body []byte, c *Codec) (any, error) {
	if len(body) < 4 {
		return nil, errors.MalformedPayload(errors.PhaseDecode, "list body missing count")
	}
	return decodeItems(body[4:], int(binary.BigEndian.Uint32(body)), c)
}

// decodeItems decodes count complete values laid end to end in items.
func decodeItems(items []byte, count int, c *Codec) ([]any, error) {
	// Every item occupies at least one byte, so a declared count beyond the
	// payload size is malformed. Checked before the count drives any
	// allocation.
	if count > len(items) {
		return nil, errors.MalformedPayload(errors.PhaseDecode,
			"container count %d exceeds %d payload bytes", count, len(items))
	}
	src := buffer.NewSlice(items)
	out := make([]any, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		res, err := c.DecodeAt(src, offset)
		if err != nil {
			return nil, err
		}
		if !res.Complete {
			return nil, errors.MalformedPayload(errors.PhaseDecode,
				"container truncated: %d of %d items present", i, count)
		}
		out = append(out, res.Value)
		offset += res.Consumed
	}
	if offset != len(items) {
		return nil, errors.MalformedPayload(errors.PhaseDecode,
			"container has %d trailing bytes", len(items)-offset)
	}
	return out, nil
}

// decodeMap decodes the body of a map8/map32. The wire count covers keys and
// values together and must therefore be even.
func decodeMap(body []byte, c *Codec) (any, error) {
	if len(body) < 1 {
		return nil, errors.MalformedPayload(errors.PhaseDecode, "map body missing count")
	}
	return decodePairs(body[1:], int(body[0]), c)
}

func decodeMap32(body []byte, c *Codec) (any, error) {
	if len(body) < 4 {
		return nil, errors.MalformedPayload(errors.PhaseDecode, "map body missing count")
	}
	return decodePairs(body[4:], int(binary.BigEndian.Uint32(body)), c)
}

func decodePairs(items []byte, count int, c *Codec) (any, error) {
	if count%2 != 0 {
		return nil, errors.MalformedPayload(errors.PhaseDecode,
			"map element count %d is odd", count)
	}
	flat, err := decodeItems(items, count, c)
	if err != nil {
		return nil, err
	}
	m := make(map[any]any, count/2)
	for i := 0; i < len(flat); i += 2 {
		m[flat[i]] = flat[i+1]
	}
	return m, nil
}

// decodeArray decodes the body of an array8/array32: a count, a single
// element constructor shared by every element, then the elements' payloads
// with no per-element code bytes.
func decodeArray(body []byte, c *Codec) (any, error) {
	if len(body) < 1 {
		return nil, errors.MalformedPayload(errors.PhaseDecode, "array body missing count")
	}
	return decodeElements(body[1:], int(body[0]), c)
}

func decodeArray32(body []byte, c *Codec) (any, error) {
	if len(body) < 4 {
		return nil, errors.MalformedPayload(errors.PhaseDecode, "array body missing count")
	}
	return decodeElements(body[4:], int(binary.BigEndian.Uint32(body)), c)
}

func decodeElements(body []byte, count int, c *Codec) (any, error) {
	if len(body) < 1 {
		return nil, errors.MalformedPayload(errors.PhaseDecode, "array body missing constructor")
	}
	ctor := body[0]
	fn, ok := c.decoders[ctor]
	if !ok {
		return nil, errors.MalformedPayload(errors.PhaseDecode,
			"no decoder for array constructor 0x%02x", ctor)
	}

	rest := body[1:]
	// Zero-width constructors (null, true, false) decouple the count from the
	// body size, so the declared count only bounds the initial capacity; the
	// per-element width check below rejects overruns.
	capHint := count
	if capHint > len(rest) {
		capHint = len(rest)
	}
	out := make([]any, 0, capHint)
	for i := 0; i < count; i++ {
		width, err := elementWidth(ctor, rest)
		if err != nil {
			return nil, err
		}
		if width > len(rest) {
			return nil, errors.MalformedPayload(errors.PhaseDecode,
				"array truncated: %d of %d elements present", i, count)
		}
		val, err := fn(rest[:width], c)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
		rest = rest[width:]
	}
	if len(rest) != 0 {
		return nil, errors.MalformedPayload(errors.PhaseDecode,
			"array has %d trailing bytes", len(rest))
	}
	return out, nil
}

// elementWidth computes one array element's payload width from the shared
// constructor, reusing the framing classification. Elements carry no code
// byte of their own.
func elementWidth(ctor byte, rest []byte) (int, error) {
	cls, fixedLen := classOf(ctor)
	switch cls {
	case classFixed:
		return fixedLen - 1, nil
	case classVar8:
		if len(rest) < 1 {
			return 0, errors.MalformedPayload(errors.PhaseDecode, "array element missing size")
		}
		return 1 + int(rest[0]), nil
	case classVar32:
		if len(rest) < 4 {
			return 0, errors.MalformedPayload(errors.PhaseDecode, "array element missing size")
		}
		return 4 + int(binary.BigEndian.Uint32(rest)), nil
	default:
		return 0, errors.MalformedPayload(errors.PhaseDecode,
			"unsupported array constructor 0x%02x", ctor)
	}
}
