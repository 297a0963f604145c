package sx

import (
	"encoding/binary"
)

// WordBytes is the size of one IntsSequence word.
const WordBytes = 8

// Flatten concatenates groups in order without delimiters. The receiver
// needs the per-group lengths (see Lengths) to split the result again.
// An empty input, or one made only of empty groups, yields an empty slice.
func Flatten[T any](groups [][]T) []T {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	out := make([]T, 0, total)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Lengths returns the length of each group, including empty ones.
func Lengths[T any](groups [][]T) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g)
	}
	return out
}

// Unflatten reverses Flatten given the per-group lengths.
func Unflatten[T any](flat []T, lengths []int) ([][]T, error) {
	total := 0
	for _, n := range lengths {
		if n < 0 {
			return nil, &CardinalityMismatchError{What: "negative group length", Want: 0, Got: n}
		}
		total += n
	}
	if total != len(flat) {
		return nil, &CardinalityMismatchError{What: "flattened length", Want: total, Got: len(flat)}
	}
	out := make([][]T, len(lengths))
	offset := 0
	for i, n := range lengths {
		out[i] = flat[offset : offset+n : offset+n]
		offset += n
	}
	return out, nil
}

// Flatten2D encodes a 2D felt array the way Snapshot X spaces expect
// voting strategy parameters:
//
//	[len(groups), offset_0, ..., offset_n-1, Flatten(groups)...]
//
// offset_i is the index of group i's first element in the flattened tail.
func Flatten2D(groups [][]Felt) []Felt {
	flat := Flatten(groups)
	out := make([]Felt, 0, 1+len(groups)+len(flat))
	out = append(out, FeltFromUint64(uint64(len(groups))))
	offset := 0
	for _, g := range groups {
		out = append(out, FeltFromUint64(uint64(offset)))
		offset += len(g)
	}
	return append(out, flat...)
}

// IntsSequence is a byte string packed into 64-bit big-endian words, the
// layout the Fossil contracts use for RLP data and Ethereum addresses.
// The last word holds the remaining bytes without padding.
type IntsSequence struct {
	Values      []uint64
	BytesLength int
}

// IntsSequenceFromBytes packs b into words.
func IntsSequenceFromBytes(b []byte) IntsSequence {
	values := make([]uint64, 0, (len(b)+WordBytes-1)/WordBytes)
	for i := 0; i < len(b); i += WordBytes {
		end := min(i+WordBytes, len(b))
		var word [WordBytes]byte
		chunk := b[i:end]
		copy(word[WordBytes-len(chunk):], chunk)
		values = append(values, binary.BigEndian.Uint64(word[:]))
	}
	return IntsSequence{Values: values, BytesLength: len(b)}
}

// Bytes unpacks the sequence.
func (s IntsSequence) Bytes() []byte {
	out := make([]byte, 0, s.BytesLength)
	for i, v := range s.Values {
		var word [WordBytes]byte
		binary.BigEndian.PutUint64(word[:], v)
		n := WordBytes
		if i == len(s.Values)-1 {
			n = min(max(s.BytesLength-i*WordBytes, 0), WordBytes)
		}
		out = append(out, word[WordBytes-n:]...)
	}
	return out
}

// Felts returns the words as felts.
func (s IntsSequence) Felts() []Felt {
	out := make([]Felt, len(s.Values))
	for i, v := range s.Values {
		out[i] = FeltFromUint64(v)
	}
	return out
}
