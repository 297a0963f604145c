package sx

import (
	"errors"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/holiman/uint256"
)

func TestSplitUint256RoundTrip(t *testing.T) {
	two128 := new(big.Int).Lsh(big.NewInt(1), 128)
	max256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	tests := []struct {
		name     string
		value    *big.Int
		wantLow  *big.Int
		wantHigh *big.Int
	}{
		{"zero", big.NewInt(0), big.NewInt(0), big.NewInt(0)},
		{"one", big.NewInt(1), big.NewInt(1), big.NewInt(0)},
		{"2^128 - 1", new(big.Int).Sub(two128, big.NewInt(1)), new(big.Int).Sub(two128, big.NewInt(1)), big.NewInt(0)},
		{"2^128", two128, big.NewInt(0), big.NewInt(1)},
		{"2^256 - 1", max256, new(big.Int).Sub(two128, big.NewInt(1)), new(big.Int).Sub(two128, big.NewInt(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := SplitUint256(tt.value)
			if err != nil {
				t.Fatalf("SplitUint256 failed: %v", err)
			}
			if u.Low.Big().Cmp(tt.wantLow) != 0 {
				t.Errorf("Expected low %s, got %s", tt.wantLow, u.Low.Big())
			}
			if u.High.Big().Cmp(tt.wantHigh) != 0 {
				t.Errorf("Expected high %s, got %s", tt.wantHigh, u.High.Big())
			}
			if u.Big().Cmp(tt.value) != 0 {
				t.Errorf("Round trip: expected %s, got %s", tt.value, u.Big())
			}
		})
	}
}

func TestSplitUint256Random(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	two128 := new(big.Int).Lsh(big.NewInt(1), 128)

	for i := 0; i < 500; i++ {
		var buf [32]byte
		for j := range buf {
			buf[j] = byte(r.UintN(256))
		}
		// Vary the magnitude so both halves get exercised.
		x := new(big.Int).SetBytes(buf[:1+r.IntN(32)])

		u, err := SplitUint256(x)
		if err != nil {
			t.Fatalf("SplitUint256(%s) failed: %v", x, err)
		}
		recon := new(big.Int).Add(u.Low.Big(), new(big.Int).Mul(u.High.Big(), two128))
		if recon.Cmp(x) != 0 {
			t.Fatalf("low + high*2^128 = %s, want %s", recon, x)
		}
		if !u.Valid() {
			t.Fatalf("halves of %s exceed 128 bits", x)
		}
	}
}

func TestSplitUint256OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		value *big.Int
	}{
		{"2^256", new(big.Int).Lsh(big.NewInt(1), 256)},
		{"2^300", new(big.Int).Lsh(big.NewInt(1), 300)},
		{"negative", big.NewInt(-1)},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitUint256(tt.value)
			var rangeErr *OutOfRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("Expected OutOfRangeError, got %v", err)
			}
			if !errors.Is(err, ErrEncoding) {
				t.Error("OutOfRangeError should match ErrEncoding")
			}
		})
	}
}

func TestUint256FromUint(t *testing.T) {
	x := uint256.MustFromHex("0x123456789abcdef0123456789abcdef0fedcba9876543210fedcba9876543210")
	u := Uint256FromUint(x)

	if u.Low.Hex() != "0xfedcba9876543210fedcba9876543210" {
		t.Errorf("Unexpected low half %s", u.Low.Hex())
	}
	if u.High.Hex() != "0x123456789abcdef0123456789abcdef0" {
		t.Errorf("Unexpected high half %s", u.High.Hex())
	}
	if !u.Value().Eq(x) {
		t.Errorf("Value() = %s, want %s", u.Value().Hex(), x.Hex())
	}
}

func TestUint256Formatting(t *testing.T) {
	u := Uint256FromUint64(1)

	if got := u.ToHex(); got != "0x1" {
		t.Errorf("ToHex() = %q, want 0x1", got)
	}
	if got := u.ToDecimal(); got != "1" {
		t.Errorf("ToDecimal() = %q, want 1", got)
	}

	felts := u.Felts()
	if len(felts) != 2 || felts[0] != FeltFromUint64(1) || !felts[1].IsZero() {
		t.Errorf("Felts() = %v, want [0x1 0x0]", felts)
	}

	data, err := u.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(data) != `"0x1"` {
		t.Errorf("MarshalJSON() = %s", data)
	}
}

func TestParseUint256(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0x1", "0x1", false},
		{"0x00ff", "0xff", false},
		{"1000000", "0xf4240", false},
		{"0x", "", true},
		{"0xzz", "", true},
		{"0x10000000000000000000000000000000000000000000000000000000000000000", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := ParseUint256(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUint256(%q) failed: %v", tt.in, err)
			}
			if u.ToHex() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, u.ToHex())
			}
		})
	}
}
