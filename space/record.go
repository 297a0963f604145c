package space

import (
	sx "github.com/branched-services/go-sx"
)

// Factory describes a deployed space factory.
type Factory struct {
	Address        sx.Felt
	SpaceClassHash sx.Felt
	// EventLayout locates the space_deployed events in a deployment receipt.
	EventLayout sx.EventLayout
}

// FactoryRecord is the factory section of a DeploymentRecord.
type FactoryRecord struct {
	Address        sx.Felt `json:"address"`
	SpaceClassHash sx.Felt `json:"spaceClassHash"`
}

// StrategyRecord is a voting strategy as referenced by a deployed space.
type StrategyRecord struct {
	Index      int       `json:"index"`
	Address    sx.Felt   `json:"address"`
	Parameters []sx.Felt `json:"parameters"`
}

// SpaceRecord is one deployed space together with the configuration it was
// deployed with.
type SpaceRecord struct {
	Name                string                    `json:"name"`
	Address             sx.Felt                   `json:"address"`
	Controller          sx.Felt                   `json:"controller"`
	VotingDelay         uint64                    `json:"votingDelay"`
	MinVotingDuration   uint64                    `json:"minVotingDuration"`
	MaxVotingDuration   uint64                    `json:"maxVotingDuration"`
	ProposalThreshold   sx.Uint256                `json:"proposalThreshold"`
	Quorum              sx.Uint256                `json:"quorum"`
	Authenticators      map[string]sx.Felt        `json:"authenticators"`
	VotingStrategies    map[string]StrategyRecord `json:"votingStrategies"`
	ExecutionStrategies map[string]sx.Felt        `json:"executionStrategies"`
}

// DeploymentRecord is the persisted outcome of a batch deployment. It is
// written once and never modified.
type DeploymentRecord struct {
	SpaceFactory    FactoryRecord `json:"spaceFactory"`
	Network         string        `json:"network,omitempty"`
	TransactionHash sx.Felt       `json:"transactionHash"`
	Spaces          []SpaceRecord `json:"spaces"`
}

// Assemble merges the deployment configurations with the recovered space
// addresses, matched by position. It fails with sx.CardinalityMismatchError
// unless there is exactly one address per configuration.
func Assemble(factory Factory, configs []SpaceConfig, addrs []sx.Felt) (*DeploymentRecord, error) {
	if len(configs) != len(addrs) {
		return nil, &sx.CardinalityMismatchError{What: "space addresses", Want: len(configs), Got: len(addrs)}
	}

	rec := &DeploymentRecord{
		SpaceFactory: FactoryRecord{
			Address:        factory.Address,
			SpaceClassHash: factory.SpaceClassHash,
		},
		Spaces: make([]SpaceRecord, len(configs)),
	}
	for i, cfg := range configs {
		rec.Spaces[i] = SpaceRecord{
			Name:                cfg.Name,
			Address:             addrs[i],
			Controller:          cfg.Controller,
			VotingDelay:         cfg.VotingDelay,
			MinVotingDuration:   cfg.MinVotingDuration,
			MaxVotingDuration:   cfg.MaxVotingDuration,
			ProposalThreshold:   cfg.ProposalThreshold,
			Quorum:              cfg.Quorum,
			Authenticators:      namedMap(cfg.Authenticators),
			VotingStrategies:    strategyMap(cfg.VotingStrategies),
			ExecutionStrategies: namedMap(cfg.ExecutionStrategies),
		}
	}
	return rec, nil
}

func namedMap(entries []NamedAddress) map[string]sx.Felt {
	out := make(map[string]sx.Felt, len(entries))
	for _, e := range entries {
		out[e.Name] = e.Address
	}
	return out
}

func strategyMap(strategies []VotingStrategy) map[string]StrategyRecord {
	out := make(map[string]StrategyRecord, len(strategies))
	for i, s := range strategies {
		params := make([]sx.Felt, len(s.Params))
		copy(params, s.Params)
		out[s.Name] = StrategyRecord{Index: i, Address: s.Address, Parameters: params}
	}
	return out
}
