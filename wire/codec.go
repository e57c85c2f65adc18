package wire

import (
	"go.uber.org/zap"
)

// Codec frames, decodes and encodes AMQP 1.0 values. The registries are
// fixed at construction, so independent Codec instances (for example one per
// protocol dialect) share no mutable state; a Codec is safe for concurrent
// use as long as each Source is driven by one goroutine at a time.
type Codec struct {
	decoders map[byte]DecodeFunc
	encoders map[string]EncodeFunc
	log      *zap.Logger
}

// Option configures a Codec at construction time.
type Option func(*Codec)

// WithLogger sets the codec's logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Codec) {
		c.log = l
	}
}

// WithDecoders replaces the decode registry (type code to decode function).
func WithDecoders(m map[byte]DecodeFunc) Option {
	return func(c *Codec) {
		c.decoders = m
	}
}

// WithEncoders replaces the encode registry (type name to encode function).
func WithEncoders(m map[string]EncodeFunc) Option {
	return func(c *Codec) {
		c.encoders = m
	}
}

// New constructs a Codec. Without options it carries the built-in AMQP 1.0
// primitive registries and a no-op logger.
func New(opts ...Option) *Codec {
	c := &Codec{
		decoders: defaultDecoders(),
		encoders: defaultEncoders(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
