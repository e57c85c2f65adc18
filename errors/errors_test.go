package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseEncode,
				Kind:     KindNotImplemented,
				Path:     []string{"fields", "[2]"},
				GoType:   "chan int",
				WireType: "list",
				Detail:   "no encoder registered",
			},
			contains: []string{"[encode]", "not_implemented", "fields.[2]", "chan int", "list", "no encoder registered"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseFrame,
				Kind:  KindMalformedPayload,
			},
			contains: []string{"[frame]", "malformed_payload"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidUTF8,
				Detail: "bad string payload",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[decode]", "invalid_utf8", "bad string payload", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindMalformedPayload,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseFrame,
		Kind:  KindMalformedPayload,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseFrame, Kind: KindMalformedPayload}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseDecode, Kind: KindMalformedPayload}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseFrame, Kind: KindOverflow}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseFrame, Kind: KindMalformedPayload}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindOverflow).
		Path("body", "amount").
		GoType("uint64").
		WireType("long").
		Value(uint64(1) << 63).
		Cause(cause).
		Detail("value exceeds %s range", "int64").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindOverflow {
		t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
	}
	if err.GoType != "uint64" {
		t.Errorf("GoType = %q, want %q", err.GoType, "uint64")
	}
	if err.WireType != "long" {
		t.Errorf("WireType = %q, want %q", err.WireType, "long")
	}
	if !errors.Is(err, err.Cause) && err.Cause != cause {
		t.Error("Cause not preserved")
	}
	if err.Detail != "value exceeds int64 range" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("MalformedPayload", func(t *testing.T) {
		err := MalformedPayload(PhaseFrame, "unknown type code 0x%02x", 0x10)
		if err.Kind != KindMalformedPayload {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Error(), "0x10") {
			t.Errorf("detail not formatted: %q", err.Error())
		}
	})

	t.Run("NotImplemented", func(t *testing.T) {
		err := NotImplemented(PhaseEncode, "struct {}", "frobnicate")
		if err.Kind != KindNotImplemented {
			t.Errorf("Kind = %v", err.Kind)
		}
		if err.GoType != "struct {}" || err.WireType != "frobnicate" {
			t.Errorf("types not set: %+v", err)
		}
	})

	t.Run("InsufficientData", func(t *testing.T) {
		err := InsufficientData(PhaseFrame, 5, 2)
		if err.Kind != KindInsufficientData {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Error(), "need 5 bytes, have 2") {
			t.Errorf("detail: %q", err.Error())
		}
	})

	t.Run("FieldMissing", func(t *testing.T) {
		err := FieldMissing(PhaseEncode, "role")
		if err.Kind != KindFieldMissing {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Error(), `"role"`) {
			t.Errorf("detail: %q", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := InvalidUTF8(PhaseDecode, []byte{0xff})
		err := Wrap(PhaseDecode, KindMalformedPayload, cause, "described value")
		if err.Kind != KindMalformedPayload {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindInvalidUTF8}) {
			t.Error("wrapped cause not reachable through errors.Is")
		}
		if !strings.Contains(err.Error(), "described value") {
			t.Errorf("detail: %q", err.Error())
		}
	})
}
