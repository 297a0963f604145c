package sx

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// selectorMask keeps the low 250 bits of a keccak digest.
var selectorMask = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 250), uint256.NewInt(1))

// Call is one contract invocation inside a multicall: the target contract,
// the entrypoint name and the flat calldata.
// Call is immutable; Calldata returns a copy.
type Call struct {
	to         Felt
	entrypoint string
	calldata   []Felt
}

// NewCall creates a Call. The calldata slice is copied.
func NewCall(to Felt, entrypoint string, calldata []Felt) Call {
	data := make([]Felt, len(calldata))
	copy(data, calldata)
	return Call{to: to, entrypoint: entrypoint, calldata: data}
}

// To returns the target contract address.
func (c Call) To() Felt {
	return c.to
}

// Entrypoint returns the entrypoint name.
func (c Call) Entrypoint() string {
	return c.entrypoint
}

// Calldata returns a copy of the call's arguments.
func (c Call) Calldata() []Felt {
	data := make([]Felt, len(c.calldata))
	copy(data, c.calldata)
	return data
}

// CalldataLen returns the number of felts in the call's arguments.
func (c Call) CalldataLen() int {
	return len(c.calldata)
}

// Selector returns the entrypoint selector.
func (c Call) Selector() Felt {
	return EntrypointSelector(c.entrypoint)
}

// EntrypointSelector computes starknet_keccak(name): the keccak256 digest of
// the name truncated to its low 250 bits.
func EntrypointSelector(name string) Felt {
	var v uint256.Int
	v.SetBytes(crypto.Keccak256([]byte(name)))
	v.And(&v, selectorMask)
	return Felt{v: v}
}
