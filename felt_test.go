package sx

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"
)

func TestFeltFromString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"hex", "0x1f", "0x1f", false},
		{"hex with leading zeros", "0x0764c647e4c5f6e81c5baa1769b4554e44851a7b6319791fc6db9e25a32148bb", "0x764c647e4c5f6e81c5baa1769b4554e44851a7b6319791fc6db9e25a32148bb", false},
		{"mixed case hex", "0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6", "0xb4fbf271143f4fbf7b91a5ded31805e42b2208d6", false},
		{"decimal", "200000", "0x30d40", false},
		{"zero", "0", "0x0", false},
		{"prime minus one", "0x800000000000011000000000000000000000000000000000000000000000000", "0x800000000000011000000000000000000000000000000000000000000000000", false},
		{"prime", "0x800000000000011000000000000000000000000000000000000000000000001", "", true},
		{"invalid hex", "0xnothex", "", true},
		{"empty hex", "0x", "", true},
		{"invalid decimal", "12a", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FeltFromString(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got %s", tt.in, f)
				}
				if !errors.Is(err, ErrEncoding) {
					t.Errorf("Expected ErrEncoding, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FeltFromString(%q) failed: %v", tt.in, err)
			}
			if f.Hex() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, f.Hex())
			}
		})
	}
}

func TestFeltFromBigRejectsNegative(t *testing.T) {
	_, err := FeltFromBig(big.NewInt(-5))
	var rangeErr *OutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Expected OutOfRangeError, got %v", err)
	}
}

func TestFeltJSON(t *testing.T) {
	t.Run("marshal as hex string", func(t *testing.T) {
		data, err := json.Marshal([]Felt{FeltFromUint64(0), FeltFromUint64(255)})
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != `["0x0","0xff"]` {
			t.Errorf("Unexpected JSON %s", data)
		}
	})

	t.Run("unmarshal strings and numbers", func(t *testing.T) {
		var out []Felt
		if err := json.Unmarshal([]byte(`["0x10", "16", 16]`), &out); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		for i, f := range out {
			if f != FeltFromUint64(16) {
				t.Errorf("Element %d: expected 0x10, got %s", i, f)
			}
		}
	})

	t.Run("reject invalid", func(t *testing.T) {
		var f Felt
		if err := json.Unmarshal([]byte(`"0xg"`), &f); err == nil {
			t.Error("Expected error for invalid hex")
		}
	})
}

func TestFeltComparable(t *testing.T) {
	a := MustFelt("0x7cccf8ea8e940a4728182a4c05423c0148a805aeba3e6c43bed9743acd6d09b")
	b := MustFelt("0x07cccf8ea8e940a4728182a4c05423c0148a805aeba3e6c43bed9743acd6d09b")
	if a != b {
		t.Error("Felts with the same value should compare equal")
	}

	seen := map[Felt]bool{a: true}
	if !seen[b] {
		t.Error("Felt should be usable as a map key")
	}
}

func TestMustFeltPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected MustFelt to panic")
		}
	}()
	MustFelt("0xzz")
}
