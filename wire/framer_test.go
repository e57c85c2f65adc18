package wire

import (
	"bytes"
	goerrors "errors"
	"testing"

	"github.com/wippyai/amqp-wire/buffer"
	wireerrors "github.com/wippyai/amqp-wire/errors"
)

func TestReadFullValueFixedWidths(t *testing.T) {
	tests := []struct {
		name string
		code byte
		want int
	}{
		{"null nibble 0x4", 0x40, 1},
		{"ubyte nibble 0x5", 0x50, 2},
		{"ushort nibble 0x6", 0x60, 3},
		{"uint nibble 0x7", 0x70, 5},
		{"ulong nibble 0x8", 0x80, 9},
		{"uuid nibble 0x9", 0x98, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.want)
			data[0] = tt.code

			span, ok, err := ReadFullValue(buffer.NewSlice(data), 0, true)
			if err != nil {
				t.Fatalf("ReadFullValue: %v", err)
			}
			if !ok {
				t.Fatal("expected complete value")
			}
			if span.Length != tt.want {
				t.Errorf("length = %d, want %d", span.Length, tt.want)
			}
			if !bytes.Equal(span.Bytes, data) {
				t.Errorf("bytes = %x, want %x", span.Bytes, data)
			}

			// One byte short must report incomplete, not an error.
			_, ok, err = ReadFullValue(buffer.NewSlice(data[:tt.want-1]), 0, true)
			if err != nil {
				t.Fatalf("short buffer: %v", err)
			}
			if ok {
				t.Error("short buffer framed as complete")
			}
		})
	}
}

func TestReadFullValueVariableWidths(t *testing.T) {
	tests := []struct {
		name    string
		code    byte
		size    int
		wide    bool
		wantLen int
	}{
		{"vbin8 empty", 0xa0, 0, false, 2},
		{"vbin8 one byte", 0xa0, 1, false, 3},
		{"str8 max", 0xa1, 255, false, 257},
		{"list8", 0xc0, 10, false, 12},
		{"vbin32 empty", 0xb0, 0, true, 5},
		{"str32", 0xb1, 256, true, 261},
		{"map32", 0xd1, 100, true, 105},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte{tt.code}
			if tt.wide {
				data = append(data, byte(tt.size>>24), byte(tt.size>>16), byte(tt.size>>8), byte(tt.size))
			} else {
				data = append(data, byte(tt.size))
			}
			data = append(data, make([]byte, tt.size)...)

			span, ok, err := ReadFullValue(buffer.NewSlice(data), 0, true)
			if err != nil {
				t.Fatalf("ReadFullValue: %v", err)
			}
			if !ok {
				t.Fatal("expected complete value")
			}
			if span.Length != tt.wantLen {
				t.Errorf("length = %d, want %d", span.Length, tt.wantLen)
			}

			_, ok, err = ReadFullValue(buffer.NewSlice(data[:len(data)-1]), 0, true)
			if err != nil {
				t.Fatalf("short buffer: %v", err)
			}
			if ok {
				t.Error("short buffer framed as complete")
			}
		})
	}
}

func TestReadFullValueUnknownCode(t *testing.T) {
	for _, code := range []byte{0x10, 0x20, 0x3f} {
		_, _, err := ReadFullValue(buffer.NewSlice([]byte{code}), 0, true)
		if !goerrors.Is(err, wireerrors.New(wireerrors.PhaseFrame, wireerrors.KindMalformedPayload).Build()) {
			t.Errorf("code 0x%02x: got %v, want malformed_payload", code, err)
		}
	}
}

func TestReadFullValueEmptySource(t *testing.T) {
	_, ok, err := ReadFullValue(buffer.NewSlice(nil), 0, true)
	if err != nil {
		t.Fatalf("ReadFullValue: %v", err)
	}
	if ok {
		t.Error("empty source framed as complete")
	}
}

func TestReadFullValueDescribed(t *testing.T) {
	// 0x00, smallulong 42 descriptor, str8 "hi" value
	data := []byte{0x00, 0x53, 42, 0xa1, 2, 'h', 'i'}

	span, ok, err := ReadFullValue(buffer.NewSlice(data), 0, true)
	if err != nil {
		t.Fatalf("ReadFullValue: %v", err)
	}
	if !ok {
		t.Fatal("expected complete value")
	}
	if !span.Described() {
		t.Fatal("expected described span")
	}
	if span.Length != len(data) {
		t.Errorf("length = %d, want %d", span.Length, len(data))
	}
	if span.Descriptor.Length != 2 {
		t.Errorf("descriptor length = %d, want 2", span.Descriptor.Length)
	}
	if span.Value.Length != 4 {
		t.Errorf("value length = %d, want 4", span.Value.Length)
	}
}

func TestReadFullValueDescribedPartialConsumesNothing(t *testing.T) {
	data := []byte{0x00, 0x53, 42, 0xa1, 2, 'h', 'i'}

	// Feed every strict prefix: framing must report incomplete and leave the
	// streaming buffer's cursor exactly where it was.
	for cut := 1; cut < len(data); cut++ {
		ring := buffer.NewRing()
		if _, err := ring.Write(data[:cut]); err != nil {
			t.Fatalf("cut %d: write: %v", cut, err)
		}

		_, ok, err := ReadFullValue(ring, 0, false)
		if err != nil {
			t.Fatalf("cut %d: %v", cut, err)
		}
		if ok {
			t.Fatalf("cut %d: partial described value framed as complete", cut)
		}
		if ring.Len() != cut {
			t.Fatalf("cut %d: buffer consumed down to %d bytes", cut, ring.Len())
		}
	}

	// Completing the value frames and consumes it all at once.
	ring := buffer.NewRing()
	if _, err := ring.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	span, ok, err := ReadFullValue(ring, 0, false)
	if err != nil {
		t.Fatalf("ReadFullValue: %v", err)
	}
	if !ok {
		t.Fatal("expected complete value")
	}
	if span.Length != len(data) {
		t.Errorf("length = %d, want %d", span.Length, len(data))
	}
	if ring.Len() != 0 {
		t.Errorf("buffer holds %d bytes after consuming read", ring.Len())
	}
}

func TestReadFullValueNestedDescribed(t *testing.T) {
	// Descriptor is itself described: 0x00 (0x00 0x53 1 0x43) 0x40
	data := []byte{0x00, 0x00, 0x53, 1, 0x43, 0x40}

	span, ok, err := ReadFullValue(buffer.NewSlice(data), 0, true)
	if err != nil {
		t.Fatalf("ReadFullValue: %v", err)
	}
	if !ok {
		t.Fatal("expected complete value")
	}
	if !span.Descriptor.Described() {
		t.Error("inner descriptor not framed as described")
	}
	if span.Length != len(data) {
		t.Errorf("length = %d, want %d", span.Length, len(data))
	}
}

func TestReadFullValueOversizedDeclaration(t *testing.T) {
	// str32 declaring close to 4 GiB
	data := []byte{0xb1, 0xff, 0xff, 0xff, 0xff}
	_, _, err := ReadFullValue(buffer.NewSlice(data), 0, true)
	if !goerrors.Is(err, wireerrors.New(wireerrors.PhaseFrame, wireerrors.KindMalformedPayload).Build()) {
		t.Errorf("got %v, want malformed_payload", err)
	}
}

func TestReadFullValueAtOffset(t *testing.T) {
	data := []byte{0x41, 0x53, 7, 0x40}

	span, ok, err := ReadFullValue(buffer.NewSlice(data), 1, true)
	if err != nil {
		t.Fatalf("ReadFullValue: %v", err)
	}
	if !ok {
		t.Fatal("expected complete value")
	}
	if span.Length != 2 {
		t.Errorf("length = %d, want 2", span.Length)
	}
	if span.Bytes[0] != 0x53 {
		t.Errorf("code = 0x%02x, want 0x53", span.Bytes[0])
	}
}
