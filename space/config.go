// Package space deploys Snapshot X spaces through the space factory and
// records where they landed.
//
// A batch of spaces is deployed as one multicall: one deploy_space call per
// SpaceConfig, all sent in a single transaction. The factory emits the new
// space addresses as events, which are recovered with the factory's
// sx.EventLayout and merged with the configurations into a DeploymentRecord.
package space

import (
	"errors"
	"fmt"

	sx "github.com/branched-services/go-sx"
)

var (
	errEmptyName     = errors.New("empty name")
	errZeroAddress   = errors.New("zero address")
	errEmptyList     = errors.New("at least one entry required")
	errDurationOrder = errors.New("min voting duration exceeds max voting duration")
)

// NamedAddress is a contract referenced by a space under a human readable
// name, such as an authenticator or an execution strategy.
type NamedAddress struct {
	Name    string  `json:"name" toml:"name"`
	Address sx.Felt `json:"address" toml:"address"`
}

// VotingStrategy is a voting strategy contract and the parameters the space
// passes to it.
type VotingStrategy struct {
	Name    string    `json:"name" toml:"name"`
	Address sx.Felt   `json:"address" toml:"address"`
	Params  []sx.Felt `json:"parameters" toml:"parameters"`
}

// SpaceConfig holds the deployment parameters of one space.
type SpaceConfig struct {
	Name                string
	PublicKey           sx.Felt
	Controller          sx.Felt
	VotingDelay         uint64
	MinVotingDuration   uint64
	MaxVotingDuration   uint64
	ProposalThreshold   sx.Uint256
	Quorum              sx.Uint256
	VotingStrategies    []VotingStrategy
	Authenticators      []NamedAddress
	ExecutionStrategies []NamedAddress
}

// Validate checks the configuration before any calldata is built. Failures
// are reported as sx.SchemaMismatchError naming the offending field.
func (c *SpaceConfig) Validate() error {
	if c.Name == "" {
		return &sx.SchemaMismatchError{Field: "name", Err: errEmptyName}
	}
	if c.Controller.IsZero() {
		return &sx.SchemaMismatchError{Field: "controller", Err: errZeroAddress}
	}
	if c.MinVotingDuration > c.MaxVotingDuration {
		return &sx.SchemaMismatchError{Field: "min_voting_duration", Err: errDurationOrder}
	}
	if !c.ProposalThreshold.Valid() {
		return &sx.SchemaMismatchError{Field: "proposal_threshold", Err: &sx.OutOfRangeError{Value: c.ProposalThreshold.ToHex(), Limit: "2^128 per half"}}
	}
	if !c.Quorum.Valid() {
		return &sx.SchemaMismatchError{Field: "quorum", Err: &sx.OutOfRangeError{Value: c.Quorum.ToHex(), Limit: "2^128 per half"}}
	}

	strategies := make([]NamedAddress, len(c.VotingStrategies))
	for i, s := range c.VotingStrategies {
		strategies[i] = NamedAddress{Name: s.Name, Address: s.Address}
	}
	if err := validateNamed("voting_strategies", strategies); err != nil {
		return err
	}
	if err := validateNamed("authenticators", c.Authenticators); err != nil {
		return err
	}
	return validateNamed("executors", c.ExecutionStrategies)
}

// validateNamed requires a non-empty list of uniquely named, non-zero addresses.
// Names become keys in the deployment record, so duplicates would be lost.
func validateNamed(field string, entries []NamedAddress) error {
	if len(entries) == 0 {
		return &sx.SchemaMismatchError{Field: field, Err: errEmptyList}
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return &sx.SchemaMismatchError{Field: fmt.Sprintf("%s[%d]", field, i), Err: errEmptyName}
		}
		if e.Address.IsZero() {
			return &sx.SchemaMismatchError{Field: fmt.Sprintf("%s[%d]", field, i), Err: errZeroAddress}
		}
		if _, dup := seen[e.Name]; dup {
			return &sx.SchemaMismatchError{Field: fmt.Sprintf("%s[%d]", field, i), Err: fmt.Errorf("duplicate name %q", e.Name)}
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

func addresses(entries []NamedAddress) []sx.Felt {
	out := make([]sx.Felt, len(entries))
	for i, e := range entries {
		out[i] = e.Address
	}
	return out
}

func (c *SpaceConfig) strategyAddresses() []sx.Felt {
	out := make([]sx.Felt, len(c.VotingStrategies))
	for i, s := range c.VotingStrategies {
		out[i] = s.Address
	}
	return out
}

func (c *SpaceConfig) strategyParams() [][]sx.Felt {
	out := make([][]sx.Felt, len(c.VotingStrategies))
	for i, s := range c.VotingStrategies {
		out[i] = s.Params
	}
	return out
}
