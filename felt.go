package sx

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// FieldPrime is the StarkNet field modulus, 2^251 + 17*2^192 + 1.
var FieldPrime = uint256.MustFromHex("0x800000000000011000000000000000000000000000000000000000000000001")

var errInvalidHex = errors.New("invalid hex string")

// Felt is a StarkNet field element, the native word of contract calldata.
// The zero value is the felt 0. Felt is comparable.
type Felt struct {
	v uint256.Int
}

// FeltFromUint64 returns the felt for x. It never fails.
func FeltFromUint64(x uint64) Felt {
	var f Felt
	f.v.SetUint64(x)
	return f
}

// FeltFromInt converts a uint256 integer, failing if it is not below FieldPrime.
func FeltFromInt(x *uint256.Int) (Felt, error) {
	if x.Cmp(FieldPrime) >= 0 {
		return Felt{}, &OutOfRangeError{Value: x.Hex(), Limit: "field prime"}
	}
	var f Felt
	f.v.Set(x)
	return f, nil
}

// FeltFromBig converts an arbitrary precision integer, failing for negative
// values and values not below FieldPrime.
func FeltFromBig(x *big.Int) (Felt, error) {
	if x == nil {
		return Felt{}, &OutOfRangeError{Value: "<nil>", Limit: "field prime"}
	}
	if x.Sign() < 0 {
		return Felt{}, &OutOfRangeError{Value: x.String(), Limit: "non-negative"}
	}
	u, overflow := uint256.FromBig(x)
	if overflow {
		return Felt{}, &OutOfRangeError{Value: x.String(), Limit: "field prime"}
	}
	return FeltFromInt(u)
}

// FeltFromHex parses a hex string with or without the 0x prefix.
// Leading zeros are accepted, as addresses are usually zero padded.
func FeltFromHex(s string) (Felt, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return Felt{}, &EncodingError{Value: s, Err: errInvalidHex}
	}
	b, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return Felt{}, &EncodingError{Value: s, Err: errInvalidHex}
	}
	return FeltFromBig(b)
}

// FeltFromString parses s as hex when it carries the 0x prefix and as a
// decimal number otherwise.
func FeltFromString(s string) (Felt, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return FeltFromHex(s)
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Felt{}, &EncodingError{Value: s, Err: fmt.Errorf("invalid number %q", s)}
	}
	return FeltFromBig(b)
}

// MustFelt is like FeltFromString but panics on error.
// Use only with compile-time constant values.
func MustFelt(s string) Felt {
	f, err := FeltFromString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Int returns a copy of the felt as a uint256 integer.
func (f Felt) Int() *uint256.Int {
	return f.v.Clone()
}

// Big returns the felt as an arbitrary precision integer.
func (f Felt) Big() *big.Int {
	return f.v.ToBig()
}

// IsUint64 reports whether the felt fits in a uint64.
func (f Felt) IsUint64() bool {
	return f.v.IsUint64()
}

// Uint64 returns the low 64 bits of the felt.
func (f Felt) Uint64() uint64 {
	return f.v.Uint64()
}

// IsZero reports whether the felt is 0.
func (f Felt) IsZero() bool {
	return f.v.IsZero()
}

// Hex returns the minimal 0x-prefixed hex form, e.g. 0x0 or 0x1f.
func (f Felt) Hex() string {
	return f.v.Hex()
}

// Dec returns the decimal form.
func (f Felt) Dec() string {
	return f.v.Dec()
}

// String implements fmt.Stringer.
func (f Felt) String() string {
	return f.Hex()
}

// MarshalJSON encodes the felt as a hex string.
func (f Felt) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Hex())
}

// UnmarshalJSON accepts a hex or decimal string, or a JSON number.
func (f *Felt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return &EncodingError{Value: string(data), Err: err}
		}
		s = n.String()
	}
	v, err := FeltFromString(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalText implements encoding.TextMarshaler, used by TOML configuration.
func (f Felt) MarshalText() ([]byte, error) {
	return []byte(f.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Felt) UnmarshalText(text []byte) error {
	v, err := FeltFromString(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// FeltsFromStrings parses each element with FeltFromString.
func FeltsFromStrings(values []string) ([]Felt, error) {
	out := make([]Felt, len(values))
	for i, s := range values {
		f, err := FeltFromString(s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// FeltsToHex returns the hex form of each felt.
func FeltsToHex(values []Felt) []string {
	out := make([]string, len(values))
	for i, f := range values {
		out[i] = f.Hex()
	}
	return out
}
