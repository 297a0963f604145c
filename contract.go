package sx

import (
	"sort"
)

// Contract wraps a deployed contract address and the entrypoints callers are
// allowed to invoke on it.
type Contract struct {
	address     Felt
	entrypoints map[string]struct{}
}

// NewContract creates a Contract wrapper. With no entrypoints listed, any
// entrypoint name is accepted.
func NewContract(address Felt, entrypoints ...string) *Contract {
	c := &Contract{
		address:     address,
		entrypoints: make(map[string]struct{}, len(entrypoints)),
	}
	for _, name := range entrypoints {
		c.entrypoints[name] = struct{}{}
	}
	return c
}

// Address returns the contract address.
func (c *Contract) Address() Felt {
	return c.address
}

// Invoke creates a Call for the named entrypoint. Each argument is converted
// with ToCalldata and the results are concatenated in order.
func (c *Contract) Invoke(entrypoint string, args ...any) (Call, error) {
	if !c.HasMethod(entrypoint) {
		return Call{}, &MethodNotFoundError{Contract: c.address, Method: entrypoint}
	}

	calldata := make([]Felt, 0, len(args))
	for i, arg := range args {
		felts, err := ToCalldata(arg)
		if err != nil {
			return Call{}, &ArgumentError{Method: entrypoint, Index: i, Err: err}
		}
		calldata = append(calldata, felts...)
	}
	return Call{to: c.address, entrypoint: entrypoint, calldata: calldata}, nil
}

// MustInvoke is like Invoke but panics on error.
func (c *Contract) MustInvoke(entrypoint string, args ...any) Call {
	call, err := c.Invoke(entrypoint, args...)
	if err != nil {
		panic(err)
	}
	return call
}

// Call creates a Call from calldata that is already encoded.
func (c *Contract) Call(entrypoint string, calldata []Felt) (Call, error) {
	if !c.HasMethod(entrypoint) {
		return Call{}, &MethodNotFoundError{Contract: c.address, Method: entrypoint}
	}
	return NewCall(c.address, entrypoint, calldata), nil
}

// HasMethod returns true if the contract accepts the given entrypoint.
func (c *Contract) HasMethod(entrypoint string) bool {
	if len(c.entrypoints) == 0 {
		return true
	}
	_, ok := c.entrypoints[entrypoint]
	return ok
}

// MethodNames returns the declared entrypoints in sorted order.
func (c *Contract) MethodNames() []string {
	names := make([]string, 0, len(c.entrypoints))
	for name := range c.entrypoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
