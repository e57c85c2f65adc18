package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/wippyai/amqp-wire/buffer"
)

// TestDecodeStreaming drives the codec over a ring buffer fed one byte at a
// time, at every possible split point: each prefix must report incomplete
// without consuming anything, and the final byte must yield the same value as
// a single-buffer decode.
func TestDecodeStreaming(t *testing.T) {
	values := []any{
		"hello",
		int64(1) << 40,
		[]any{int64(1), "two", nil},
		map[string]any{"k": "v"},
		Described{Descriptor: uint64(0x70), Value: []any{"frame"}},
	}

	codec := New()
	for _, v := range values {
		var enc bytes.Buffer
		if err := codec.Encode(v, &enc); err != nil {
			t.Fatalf("Encode(%#v): %v", v, err)
		}
		data := enc.Bytes()

		reference, err := codec.Decode(buffer.NewSlice(data))
		if err != nil {
			t.Fatalf("reference decode: %v", err)
		}

		ring := buffer.NewRing()
		for i, b := range data {
			res, err := codec.Decode(ring)
			if err != nil {
				t.Fatalf("byte %d: %v", i, err)
			}
			if res.Complete {
				t.Fatalf("decoded complete value from %d of %d bytes", i, len(data))
			}
			if ring.Len() != i {
				t.Fatalf("byte %d: incomplete decode consumed buffer down to %d", i, ring.Len())
			}
			if _, err := ring.Write([]byte{b}); err != nil {
				t.Fatalf("byte %d: write: %v", i, err)
			}
		}

		res, err := codec.Decode(ring)
		if err != nil {
			t.Fatalf("final decode: %v", err)
		}
		if !res.Complete {
			t.Fatal("full value still reported incomplete")
		}
		if !reflect.DeepEqual(res.Value, reference.Value) {
			t.Errorf("streamed value = %#v, want %#v", res.Value, reference.Value)
		}
		if ring.Len() != 0 {
			t.Errorf("ring holds %d bytes after full decode", ring.Len())
		}
	}
}

// TestDecodeStreamingBackToBack writes several values into one ring in a
// single burst and decodes them in order.
func TestDecodeStreamingBackToBack(t *testing.T) {
	values := []any{int64(1), "a", []any{true, false}, nil}

	codec := New()
	ring := buffer.NewRing()
	var enc bytes.Buffer
	for _, v := range values {
		if err := codec.Encode(v, &enc); err != nil {
			t.Fatalf("Encode(%#v): %v", v, err)
		}
	}
	if _, err := ring.Write(enc.Bytes()); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := []any{int32(1), "a", []any{true, false}, nil}
	for i, w := range want {
		res, err := codec.Decode(ring)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if !res.Complete {
			t.Fatalf("value %d reported incomplete with %d bytes buffered", i, ring.Len())
		}
		if !reflect.DeepEqual(res.Value, w) {
			t.Errorf("value %d = %#v, want %#v", i, res.Value, w)
		}
	}

	res, err := codec.Decode(ring)
	if err != nil {
		t.Fatalf("drained decode: %v", err)
	}
	if res.Complete {
		t.Error("decode on drained ring returned a value")
	}
}
