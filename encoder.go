package sx

// Execute calldata layout constants.
const (
	// CallArrayEntrySize is the number of felts describing one call:
	// to, selector, data_offset, data_len.
	CallArrayEntrySize = 4

	// ExecuteEntrypoint is the account entrypoint that runs a multicall.
	ExecuteEntrypoint = "__execute__"
)

// CallArrayEntry is one element of the account's call array.
type CallArrayEntry struct {
	To         Felt
	Selector   Felt
	DataOffset uint64
	DataLen    uint64
}

// EncodeExecute produces the calldata of the account's __execute__ entrypoint
// for a multicall:
//
//	[call_array_len,
//	 to_0, selector_0, data_offset_0, data_len_0,
//	 ...,
//	 calldata_len, calldata_0..., calldata_1..., ...]
//
// data_offset_i indexes into the concatenated calldata tail.
func EncodeExecute(calls []Call) []Felt {
	groups := make([][]Felt, len(calls))
	for i, c := range calls {
		groups[i] = c.calldata
	}
	tail := Flatten(groups)

	out := make([]Felt, 0, 2+CallArrayEntrySize*len(calls)+len(tail))
	out = append(out, FeltFromUint64(uint64(len(calls))))

	offset := 0
	for _, c := range calls {
		out = append(out,
			c.to,
			c.Selector(),
			FeltFromUint64(uint64(offset)),
			FeltFromUint64(uint64(len(c.calldata))),
		)
		offset += len(c.calldata)
	}

	out = append(out, FeltFromUint64(uint64(len(tail))))
	return append(out, tail...)
}

// DecodeExecute splits __execute__ calldata back into the call array and the
// calldata of each call. Entrypoint names cannot be recovered from selectors,
// so only the array entries are returned alongside the per-call data.
// Useful for debugging and testing.
func DecodeExecute(data []Felt) (entries []CallArrayEntry, calldata [][]Felt, err error) {
	if len(data) < 2 || !data[0].IsUint64() {
		return nil, nil, ErrMalformedCalldata
	}
	n := data[0].Uint64()
	headerEnd := 1 + n*CallArrayEntrySize
	if n > uint64(len(data)) || headerEnd >= uint64(len(data)) {
		return nil, nil, ErrMalformedCalldata
	}

	entries = make([]CallArrayEntry, n)
	for i := uint64(0); i < n; i++ {
		base := 1 + i*CallArrayEntrySize
		off, ln := data[base+2], data[base+3]
		if !off.IsUint64() || !ln.IsUint64() {
			return nil, nil, ErrMalformedCalldata
		}
		entries[i] = CallArrayEntry{
			To:         data[base],
			Selector:   data[base+1],
			DataOffset: off.Uint64(),
			DataLen:    ln.Uint64(),
		}
	}

	lenField := data[headerEnd]
	tail := data[headerEnd+1:]
	if !lenField.IsUint64() || lenField.Uint64() != uint64(len(tail)) {
		return nil, nil, ErrMalformedCalldata
	}

	calldata = make([][]Felt, n)
	for i, e := range entries {
		end := e.DataOffset + e.DataLen
		if end < e.DataOffset || end > uint64(len(tail)) {
			return nil, nil, ErrMalformedCalldata
		}
		calldata[i] = tail[e.DataOffset:end:end]
	}
	return entries, calldata, nil
}
