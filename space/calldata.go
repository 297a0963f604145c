package space

import (
	"fmt"

	sx "github.com/branched-services/go-sx"
)

// DeploySpaceEntrypoint is the space factory entrypoint deploying one space.
const DeploySpaceEntrypoint = "deploy_space"

// DeploySpaceCalldata encodes cfg in the positional order of the factory's
// deploy_space entrypoint:
//
//	public_key
//	voting_delay, min_voting_duration, max_voting_duration
//	proposal_threshold (low, high)
//	controller
//	quorum (low, high)
//	len, Flatten2D(voting strategy parameters)
//	len, voting strategy addresses
//	len, authenticator addresses
//	len, execution strategy addresses
func DeploySpaceCalldata(cfg SpaceConfig) ([]sx.Felt, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return sx.NewCalldataBuilder().
		Felt("public_key", cfg.PublicKey).
		Uint64("voting_delay", cfg.VotingDelay).
		Uint64("min_voting_duration", cfg.MinVotingDuration).
		Uint64("max_voting_duration", cfg.MaxVotingDuration).
		Uint256("proposal_threshold", cfg.ProposalThreshold).
		Felt("controller", cfg.Controller).
		Uint256("quorum", cfg.Quorum).
		Flat2D("voting_strategy_params", cfg.strategyParams()).
		Array("voting_strategies", cfg.strategyAddresses()).
		Array("authenticators", addresses(cfg.Authenticators)).
		Array("executors", addresses(cfg.ExecutionStrategies)).
		Build()
}

// DeploySpaceCall returns the deploy_space call for cfg against factory.
func DeploySpaceCall(factory sx.Felt, cfg SpaceConfig) (sx.Call, error) {
	calldata, err := DeploySpaceCalldata(cfg)
	if err != nil {
		return sx.Call{}, fmt.Errorf("space %q: %w", cfg.Name, err)
	}
	return sx.NewContract(factory, DeploySpaceEntrypoint).Call(DeploySpaceEntrypoint, calldata)
}

// DeploySpaceCalls builds one call per configuration, in order. The first
// invalid configuration fails the whole batch.
func DeploySpaceCalls(factory sx.Felt, configs []SpaceConfig) ([]sx.Call, error) {
	calls := make([]sx.Call, len(configs))
	for i, cfg := range configs {
		c, err := DeploySpaceCall(factory, cfg)
		if err != nil {
			return nil, err
		}
		calls[i] = c
	}
	return calls, nil
}
