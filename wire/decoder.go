package wire

import (
	"go.uber.org/zap"

	amqpwire "github.com/wippyai/amqp-wire"
	"github.com/wippyai/amqp-wire/errors"
)

// Decode consumes exactly one complete encoded value from the source and
// returns it as a Go value, leaving any following bytes untouched.
//
// When the source does not yet hold a whole value, the result has
// Complete == false and nothing is consumed; the caller retries after
// appending more bytes. Errors are terminal for the current value: a
// malformed_payload error on a streaming source means the stream is
// desynchronized.
func (c *Codec) Decode(src amqpwire.Source) (Decoded, error) {
	return c.DecodeAt(src, 0)
}

// DecodeAt is Decode starting at the given offset into the source.
func (c *Codec) DecodeAt(src amqpwire.Source, offset int) (Decoded, error) {
	span, ok, err := ReadFullValue(src, offset, false)
	if err != nil {
		c.log.Debug("framing failed", zap.Int("offset", offset), zap.Error(err))
		return Decoded{}, err
	}
	if !ok {
		return Decoded{}, nil
	}

	val, err := c.decodeSpan(&span)
	if err != nil {
		c.log.Debug("decode failed", zap.Int("length", span.Length), zap.Error(err))
		return Decoded{}, err
	}
	return Decoded{Value: val, Consumed: span.Length, Complete: true}, nil
}

// decodeSpan turns a framed span into a value. Described pairings recurse
// into both sub-spans; primitive spans dispatch on the type code.
func (c *Codec) decodeSpan(span *Span) (any, error) {
	if span.Described() {
		descriptor, err := c.decodeSpan(span.Descriptor)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindMalformedPayload,
				err, "described descriptor")
		}
		value, err := c.decodeSpan(span.Value)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindMalformedPayload,
				err, "described value")
		}
		return Described{Descriptor: descriptor, Value: value}, nil
	}

	code := span.Bytes[0]
	fn, ok := c.decoders[code]
	if !ok {
		return nil, errors.MalformedPayload(errors.PhaseDecode,
			"no decoder for type code 0x%02x", code)
	}
	return fn(span.Bytes[1:], c)
}
