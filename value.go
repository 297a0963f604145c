package sx

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// ToCalldata converts a Go value to its calldata encoding.
// Supported types:
//   - Felt, and Go integers (one felt; negatives are rejected)
//   - string (hex with 0x prefix, else decimal; one felt)
//   - *big.Int (one felt, must be below the field prime)
//   - Uint256, *uint256.Int (two felts, low half first)
//   - IntsSequence (bytes length, word count, words)
//   - []Felt, []string, []uint64, []Uint256 (length-prefixed)
//   - [][]Felt (length of the Flatten2D encoding, then the encoding)
func ToCalldata(v any) ([]Felt, error) {
	switch x := v.(type) {
	case Felt:
		return []Felt{x}, nil
	case Uint256:
		if !x.Valid() {
			return nil, &EncodingError{Value: v, Err: fmt.Errorf("uint256 half exceeds %d bits", WordBits)}
		}
		return x.Felts(), nil
	case *uint256.Int:
		if x == nil {
			return nil, &EncodingError{Value: v, Err: fmt.Errorf("nil integer")}
		}
		return Uint256FromUint(x).Felts(), nil
	case IntsSequence:
		out := make([]Felt, 0, 2+len(x.Values))
		out = append(out, FeltFromUint64(uint64(x.BytesLength)), FeltFromUint64(uint64(len(x.Values))))
		return append(out, x.Felts()...), nil
	case []Felt:
		return lengthPrefixed(x), nil
	case [][]Felt:
		return lengthPrefixed(Flatten2D(x)), nil
	case []string:
		felts, err := FeltsFromStrings(x)
		if err != nil {
			return nil, &EncodingError{Value: v, Err: err}
		}
		return lengthPrefixed(felts), nil
	case []uint64:
		felts := make([]Felt, len(x))
		for i, n := range x {
			felts[i] = FeltFromUint64(n)
		}
		return lengthPrefixed(felts), nil
	case []Uint256:
		out := make([]Felt, 0, 1+2*len(x))
		out = append(out, FeltFromUint64(uint64(len(x))))
		for _, u := range x {
			out = append(out, u.Felts()...)
		}
		return out, nil
	}

	f, err := toFelt(v)
	if err != nil {
		return nil, err
	}
	return []Felt{f}, nil
}

// toFelt handles the scalar Go types.
func toFelt(v any) (Felt, error) {
	switch x := v.(type) {
	case Felt:
		return x, nil
	case uint64:
		return FeltFromUint64(x), nil
	case uint32:
		return FeltFromUint64(uint64(x)), nil
	case uint:
		return FeltFromUint64(uint64(x)), nil
	case int:
		return feltFromSigned(v, int64(x))
	case int64:
		return feltFromSigned(v, x)
	case int32:
		return feltFromSigned(v, int64(x))
	case bool:
		if x {
			return FeltFromUint64(1), nil
		}
		return Felt{}, nil
	case string:
		return FeltFromString(x)
	case *big.Int:
		return FeltFromBig(x)
	default:
		return Felt{}, &EncodingError{Value: v, Err: fmt.Errorf("unsupported type")}
	}
}

func feltFromSigned(orig any, x int64) (Felt, error) {
	if x < 0 {
		return Felt{}, &EncodingError{Value: orig, Err: &OutOfRangeError{Value: fmt.Sprint(x), Limit: "non-negative"}}
	}
	return FeltFromUint64(uint64(x)), nil
}

func lengthPrefixed(values []Felt) []Felt {
	out := make([]Felt, 0, 1+len(values))
	out = append(out, FeltFromUint64(uint64(len(values))))
	return append(out, values...)
}

// CalldataBuilder appends named fields in the positional order a contract
// entrypoint expects. The first failure is kept and reported by Build as a
// SchemaMismatchError naming the field; later appends are ignored.
type CalldataBuilder struct {
	data []Felt
	err  error
}

// NewCalldataBuilder creates an empty builder.
func NewCalldataBuilder() *CalldataBuilder {
	return &CalldataBuilder{data: make([]Felt, 0, 32)}
}

// Felt appends a single felt.
func (b *CalldataBuilder) Felt(name string, f Felt) *CalldataBuilder {
	return b.Value(name, f)
}

// Uint64 appends a small integer as one felt.
func (b *CalldataBuilder) Uint64(name string, x uint64) *CalldataBuilder {
	return b.Value(name, FeltFromUint64(x))
}

// Uint256 appends a 256-bit integer as low and high felts.
func (b *CalldataBuilder) Uint256(name string, u Uint256) *CalldataBuilder {
	return b.Value(name, u)
}

// Array appends a length-prefixed felt array.
func (b *CalldataBuilder) Array(name string, values []Felt) *CalldataBuilder {
	return b.Value(name, values)
}

// Flat2D appends the length-prefixed Flatten2D encoding of groups.
func (b *CalldataBuilder) Flat2D(name string, groups [][]Felt) *CalldataBuilder {
	return b.Value(name, groups)
}

// Words appends a length-prefixed word array without a bytes length.
func (b *CalldataBuilder) Words(name string, words []uint64) *CalldataBuilder {
	return b.Value(name, words)
}

// Value appends any value supported by ToCalldata.
func (b *CalldataBuilder) Value(name string, v any) *CalldataBuilder {
	if b.err != nil {
		return b
	}
	felts, err := ToCalldata(v)
	if err != nil {
		b.err = &SchemaMismatchError{Field: name, Err: err}
		return b
	}
	b.data = append(b.data, felts...)
	return b
}

// Len returns the number of felts appended so far.
func (b *CalldataBuilder) Len() int {
	return len(b.data)
}

// Build returns the calldata or the first error.
func (b *CalldataBuilder) Build() ([]Felt, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]Felt, len(b.data))
	copy(out, b.data)
	return out, nil
}
