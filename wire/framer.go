package wire

import (
	"encoding/binary"
	"math"

	amqpwire "github.com/wippyai/amqp-wire"
	"github.com/wippyai/amqp-wire/errors"
)

// Span is the framed byte range of one complete encoded value.
//
// For primitive values Bytes holds the flat encoding, leading type-code byte
// included. For described values Bytes is nil and the two sub-spans carry the
// descriptor and payload value; the pairing is preserved through to the
// decoder.
type Span struct {
	Bytes      []byte
	Descriptor *Span
	Value      *Span
	Length     int
}

// Described reports whether the span is the two-part described pairing.
func (s *Span) Described() bool {
	return s.Descriptor != nil
}

// ReadFullValue determines the exact byte span of the next encoded value at
// offset, using only its leading type-code byte(s) and never parsing payload
// semantics.
//
// The boolean result is false when the source does not yet hold a complete
// value ("not enough data"); in that case nothing has been consumed and the
// call is safe to retry after more bytes arrive. With peek set, the source is
// left untouched even on success.
//
// Described values are framed with a two-phase protocol: both sub-spans are
// located with peeks only, and a single consuming read commits the combined
// bytes once both are known to be present. Sub-spans are never consumed
// individually, so a partially delivered described value leaves the source
// in its original state.
func ReadFullValue(src amqpwire.Source, offset int, peek bool) (Span, bool, error) {
	if src.Remaining(offset) == 0 {
		return Span{}, false, nil
	}

	head, err := src.Peek(offset, 1)
	if err != nil {
		return Span{}, false, err
	}
	code := head[0]

	cls, fixedLen := classOf(code)
	switch cls {
	case classDescribed:
		return readDescribed(src, offset, peek)

	case classFixed:
		if src.Remaining(offset) < fixedLen {
			return Span{}, false, nil
		}
		b, err := take(src, offset, fixedLen, peek)
		if err != nil {
			return Span{}, false, err
		}
		return Span{Bytes: b, Length: fixedLen}, true, nil

	case classVar8:
		if src.Remaining(offset) < 2 {
			return Span{}, false, nil
		}
		hdr, err := src.Peek(offset, 2)
		if err != nil {
			return Span{}, false, err
		}
		total := int(hdr[1]) + 2
		if src.Remaining(offset) < total {
			return Span{}, false, nil
		}
		b, err := take(src, offset, total, peek)
		if err != nil {
			return Span{}, false, err
		}
		return Span{Bytes: b, Length: total}, true, nil

	case classVar32:
		if src.Remaining(offset) < 5 {
			return Span{}, false, nil
		}
		hdr, err := src.Peek(offset, 5)
		if err != nil {
			return Span{}, false, err
		}
		declared := binary.BigEndian.Uint32(hdr[1:5])
		if declared > math.MaxInt32-5 {
			return Span{}, false, errors.MalformedPayload(errors.PhaseFrame,
				"declared size %d exceeds frameable range", declared)
		}
		total := int(declared) + 5
		if src.Remaining(offset) < total {
			return Span{}, false, nil
		}
		b, err := take(src, offset, total, peek)
		if err != nil {
			return Span{}, false, err
		}
		return Span{Bytes: b, Length: total}, true, nil

	default:
		return Span{}, false, errors.MalformedPayload(errors.PhaseFrame,
			"unknown type code 0x%02x", code)
	}
}

// readDescribed locates the descriptor and value sub-spans with peeks, then
// commits the combined span with one read. Only the outer call consumes.
func readDescribed(src amqpwire.Source, offset int, peek bool) (Span, bool, error) {
	desc, ok, err := ReadFullValue(src, offset+1, true)
	if err != nil || !ok {
		return Span{}, false, err
	}

	val, ok, err := ReadFullValue(src, offset+1+desc.Length, true)
	if err != nil || !ok {
		return Span{}, false, err
	}

	total := 1 + desc.Length + val.Length

	// Commit. The sub-span bytes were captured by the peeks above (owned
	// copies for streaming sources), so only the consumption side effect of
	// this read matters.
	if _, err := take(src, offset, total, peek); err != nil {
		return Span{}, false, err
	}

	return Span{Descriptor: &desc, Value: &val, Length: total}, true, nil
}

func take(src amqpwire.Source, offset, n int, peek bool) ([]byte, error) {
	if peek {
		return src.Peek(offset, n)
	}
	return src.Read(offset, n)
}
