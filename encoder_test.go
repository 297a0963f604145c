package sx

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncodeExecute(t *testing.T) {
	factory := MustFelt("0xbecc")
	store := MustFelt("0x6ca3")

	calls := []Call{
		NewCall(factory, "deploy_space", []Felt{FeltFromUint64(1), FeltFromUint64(2)}),
		NewCall(store, "process_block", []Felt{FeltFromUint64(3)}),
		NewCall(factory, "noop", nil),
	}

	data := EncodeExecute(calls)

	t.Run("call array length", func(t *testing.T) {
		if data[0] != FeltFromUint64(3) {
			t.Errorf("Expected call_array_len 3, got %s", data[0])
		}
	})

	t.Run("call array entries", func(t *testing.T) {
		want := [][]Felt{
			{factory, EntrypointSelector("deploy_space"), FeltFromUint64(0), FeltFromUint64(2)},
			{store, EntrypointSelector("process_block"), FeltFromUint64(2), FeltFromUint64(1)},
			{factory, EntrypointSelector("noop"), FeltFromUint64(3), FeltFromUint64(0)},
		}
		for i, entry := range want {
			base := 1 + i*CallArrayEntrySize
			got := data[base : base+CallArrayEntrySize]
			if !reflect.DeepEqual(got, entry) {
				t.Errorf("Entry %d = %v, want %v", i, got, entry)
			}
		}
	})

	t.Run("calldata tail", func(t *testing.T) {
		tailStart := 1 + 3*CallArrayEntrySize
		if data[tailStart] != FeltFromUint64(3) {
			t.Errorf("Expected calldata_len 3, got %s", data[tailStart])
		}
		want := []Felt{FeltFromUint64(1), FeltFromUint64(2), FeltFromUint64(3)}
		if !reflect.DeepEqual(data[tailStart+1:], want) {
			t.Errorf("Tail = %v, want %v", data[tailStart+1:], want)
		}
	})

	t.Run("total length", func(t *testing.T) {
		if len(data) != 1+3*CallArrayEntrySize+1+3 {
			t.Errorf("Unexpected length %d", len(data))
		}
	})
}

func TestDecodeExecute(t *testing.T) {
	calls := []Call{
		NewCall(MustFelt("0xa"), "deploy_space", []Felt{FeltFromUint64(1), FeltFromUint64(2)}),
		NewCall(MustFelt("0xb"), "prove_account", []Felt{FeltFromUint64(3), FeltFromUint64(4), FeltFromUint64(5)}),
	}

	entries, calldata, err := DecodeExecute(EncodeExecute(calls))
	if err != nil {
		t.Fatalf("DecodeExecute failed: %v", err)
	}
	if len(entries) != len(calls) {
		t.Fatalf("Expected %d entries, got %d", len(calls), len(entries))
	}
	for i, c := range calls {
		if entries[i].To != c.To() {
			t.Errorf("Entry %d: to %s, want %s", i, entries[i].To, c.To())
		}
		if entries[i].Selector != c.Selector() {
			t.Errorf("Entry %d: selector mismatch", i)
		}
		if !reflect.DeepEqual(calldata[i], c.Calldata()) {
			t.Errorf("Entry %d: calldata %v, want %v", i, calldata[i], c.Calldata())
		}
	}
}

func TestDecodeExecuteMalformed(t *testing.T) {
	valid := EncodeExecute([]Call{NewCall(MustFelt("0xa"), "f", []Felt{FeltFromUint64(1)})})

	truncated := valid[:len(valid)-1]
	badLen := append([]Felt(nil), valid...)
	badLen[1+CallArrayEntrySize] = FeltFromUint64(9)
	badOffset := append([]Felt(nil), valid...)
	badOffset[3] = FeltFromUint64(5)

	tests := []struct {
		name string
		data []Felt
	}{
		{"empty", nil},
		{"only length", []Felt{FeltFromUint64(1)}},
		{"call count too large", []Felt{FeltFromUint64(100), FeltFromUint64(0)}},
		{"truncated tail", truncated},
		{"wrong calldata_len", badLen},
		{"offset out of range", badOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeExecute(tt.data)
			if !errors.Is(err, ErrMalformedCalldata) {
				t.Errorf("Expected ErrMalformedCalldata, got %v", err)
			}
		})
	}
}

func TestEncodeExecuteEmpty(t *testing.T) {
	data := EncodeExecute(nil)
	want := []Felt{FeltFromUint64(0), FeltFromUint64(0)}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("EncodeExecute(nil) = %v, want %v", data, want)
	}
}
