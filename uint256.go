package sx

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// WordBits is the width of each half of a Uint256.
const WordBits = 128

var lowMask = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), WordBits), uint256.NewInt(1))

// Uint256 is a 256-bit unsigned integer split into two 128-bit felts, the
// representation StarkNet contracts use for Uint256 arguments.
// The value is Low + High * 2^128.
type Uint256 struct {
	Low  Felt
	High Felt
}

// Uint256FromUint splits x. It is total: every uint256 value is representable.
func Uint256FromUint(x *uint256.Int) Uint256 {
	var lo, hi uint256.Int
	lo.And(x, lowMask)
	hi.Rsh(x, WordBits)
	return Uint256{Low: Felt{v: lo}, High: Felt{v: hi}}
}

// Uint256FromUint64 returns the Uint256 for x.
func Uint256FromUint64(x uint64) Uint256 {
	return Uint256{Low: FeltFromUint64(x)}
}

// SplitUint256 splits an arbitrary precision integer. It fails with an
// OutOfRangeError for negative values and values of 2^256 or more.
func SplitUint256(x *big.Int) (Uint256, error) {
	if x == nil || x.Sign() < 0 {
		return Uint256{}, &OutOfRangeError{Value: bigString(x), Limit: "non-negative"}
	}
	u, overflow := uint256.FromBig(x)
	if overflow {
		return Uint256{}, &OutOfRangeError{Value: x.String(), Limit: "2^256"}
	}
	return Uint256FromUint(u), nil
}

// ParseUint256Hex parses a hex string (0x prefix optional) into a Uint256.
func ParseUint256Hex(s string) (Uint256, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, ok := new(big.Int).SetString(digits, 16)
	if !ok || digits == "" {
		return Uint256{}, &EncodingError{Value: s, Err: errInvalidHex}
	}
	return SplitUint256(b)
}

// ParseUint256 parses a hex (0x-prefixed) or decimal string.
func ParseUint256(s string) (Uint256, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return ParseUint256Hex(s)
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Uint256{}, &EncodingError{Value: s, Err: errInvalidHex}
	}
	return SplitUint256(b)
}

// Value reassembles the integer. Halves wider than 128 bits, which can only
// be produced by constructing a Uint256 by hand, wrap modulo 2^256.
func (u Uint256) Value() *uint256.Int {
	var hi uint256.Int
	hi.Lsh(&u.High.v, WordBits)
	return hi.Add(&hi, &u.Low.v)
}

// Big returns the value as an arbitrary precision integer.
func (u Uint256) Big() *big.Int {
	return u.Value().ToBig()
}

// Valid reports whether both halves fit in 128 bits.
func (u Uint256) Valid() bool {
	return u.Low.v.Cmp(lowMask) <= 0 && u.High.v.Cmp(lowMask) <= 0
}

// ToHex returns the 0x-prefixed hex form of the full value.
func (u Uint256) ToHex() string {
	return u.Value().Hex()
}

// ToDecimal returns the decimal form of the full value.
func (u Uint256) ToDecimal() string {
	return u.Value().Dec()
}

// Felts returns the calldata encoding, low half first.
func (u Uint256) Felts() []Felt {
	return []Felt{u.Low, u.High}
}

// String implements fmt.Stringer.
func (u Uint256) String() string {
	return u.ToHex()
}

// MarshalJSON encodes the full value as a hex string.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.ToHex())
}

// UnmarshalJSON accepts a hex or decimal string.
func (u *Uint256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &EncodingError{Value: string(data), Err: err}
	}
	v, err := ParseUint256(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Uint256) UnmarshalText(text []byte) error {
	v, err := ParseUint256(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (u Uint256) MarshalText() ([]byte, error) {
	return []byte(u.ToHex()), nil
}

func bigString(x *big.Int) string {
	if x == nil {
		return "<nil>"
	}
	return x.String()
}
