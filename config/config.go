// Package config loads the per-network settings of the sx tool: the node
// and signer endpoints, the deployed Snapshot X and Fossil contracts, and the
// spaces to deploy.
//
// Networks are described in TOML. Defaults for known networks are embedded
// in the binary; a file given on the command line replaces them. Endpoints
// and the account address are usually kept out of the file and supplied
// through the environment.
package config

import (
	"embed"
	"fmt"
	"math/big"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	sx "github.com/branched-services/go-sx"
	"github.com/branched-services/go-sx/space"
)

//go:embed networks/*.toml
var networks embed.FS

// Environment variables overriding the loaded file.
const (
	EnvRPCURL         = "SX_RPC_URL"
	EnvSignerURL      = "SX_SIGNER_URL"
	EnvAccountAddress = "SX_ACCOUNT_ADDRESS"
)

// Network is the configuration of one StarkNet network.
type Network struct {
	Name           string `toml:"name"`
	RPCURL         string `toml:"rpc_url"`
	SignerURL      string `toml:"signer_url"`
	SignMethod     string `toml:"sign_method"`
	AccountAddress string `toml:"account"`
	MaxFee         string `toml:"max_fee"`
	PollIntervalMs int    `toml:"poll_interval_ms"`
	TimeoutSec     int    `toml:"timeout_sec"`
	DeploymentsDir string `toml:"deployments_dir"`

	SpaceFactory SpaceFactory `toml:"space_factory"`
	Fossil       Fossil       `toml:"fossil"`

	Authenticators      []space.NamedAddress `toml:"authenticators"`
	VotingStrategies    []space.NamedAddress `toml:"voting_strategies"`
	ExecutionStrategies []space.NamedAddress `toml:"execution_strategies"`

	Deployment Deployment `toml:"deployment"`
	Spaces     []Space    `toml:"spaces"`
}

// SpaceFactory locates the space factory contract.
type SpaceFactory struct {
	Address        sx.Felt `toml:"address"`
	SpaceClassHash sx.Felt `toml:"space_class_hash"`
	EventLayout    string  `toml:"event_layout"`
}

// Fossil locates the Fossil contracts used by the relay.
type Fossil struct {
	L1HeadersStore sx.Felt `toml:"l1_headers_store"`
	FactRegistry   sx.Felt `toml:"fact_registry"`
}

// Deployment holds the parameters shared by every space of a batch.
// PublicKey defaults to Controller.
type Deployment struct {
	Controller          sx.Felt    `toml:"controller"`
	PublicKey           sx.Felt    `toml:"public_key"`
	VotingDelay         uint64     `toml:"voting_delay"`
	MinVotingDuration   uint64     `toml:"min_voting_duration"`
	MaxVotingDuration   uint64     `toml:"max_voting_duration"`
	ProposalThreshold   sx.Uint256 `toml:"proposal_threshold"`
	Quorum              sx.Uint256 `toml:"quorum"`
	ExecutionStrategies []string   `toml:"execution_strategies"`
}

// Space is one space of the batch. Contracts are referenced by the names
// declared at network level.
type Space struct {
	Name             string        `toml:"name"`
	Authenticators   []string      `toml:"authenticators"`
	VotingStrategies []StrategyRef `toml:"voting_strategies"`
}

// StrategyRef selects a voting strategy and the parameters passed to it.
type StrategyRef struct {
	Name       string    `toml:"name"`
	Parameters []sx.Felt `toml:"parameters"`
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i := range e {
		msgs[i] = e[i].Error()
	}
	return strings.Join(msgs, "; ")
}

// Networks lists the embedded network names.
func Networks() []string {
	entries, err := networks.ReadDir("networks")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// Default returns the embedded configuration of the named network with
// environment overrides applied.
func Default(name string) (*Network, error) {
	data, err := networks.ReadFile(path.Join("networks", name+".toml"))
	if err != nil {
		return nil, &sx.ResourceUnavailableError{
			Resource: "network " + name,
			Err:      fmt.Errorf("known networks: %v", Networks()),
		}
	}
	return load(string(data))
}

// Load reads the configuration from a TOML file and applies environment
// overrides.
func Load(file string) (*Network, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, &sx.ResourceUnavailableError{Resource: file, Err: err}
	}
	return load(string(data))
}

func load(data string) (*Network, error) {
	n, err := Decode(data)
	if err != nil {
		return nil, err
	}
	n.ApplyEnvOverrides()
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Decode parses a TOML document. Keys the Network type does not know are
// rejected so that a misspelled setting is not silently ignored.
func Decode(data string) (*Network, error) {
	n := &Network{}
	md, err := toml.Decode(data, n)
	if err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode TOML: unknown keys %s", strings.Join(keys, ", "))
	}
	return n, nil
}

// ApplyEnvOverrides replaces the endpoints and the account address with the
// values of the corresponding environment variables, when set.
func (n *Network) ApplyEnvOverrides() {
	if v := os.Getenv(EnvRPCURL); v != "" {
		n.RPCURL = v
	}
	if v := os.Getenv(EnvSignerURL); v != "" {
		n.SignerURL = v
	}
	if v := os.Getenv(EnvAccountAddress); v != "" {
		n.AccountAddress = v
	}
}

// Validate checks everything needed to build calldata offline. Endpoints
// are checked separately by ValidateRemote.
func (n *Network) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if n.Name == "" {
		add("name", "is required")
	}
	if n.MaxFee != "" {
		if _, err := n.MaxFeeWei(); err != nil {
			add("max_fee", "%v", err)
		}
	}
	if n.PollIntervalMs < 0 {
		add("poll_interval_ms", "must not be negative")
	}
	if n.TimeoutSec < 0 {
		add("timeout_sec", "must not be negative")
	}
	if n.SpaceFactory.Address.IsZero() {
		add("space_factory.address", "is required")
	}
	if n.SpaceFactory.EventLayout != "" {
		if _, err := sx.LookupEventLayout(n.SpaceFactory.EventLayout); err != nil {
			add("space_factory.event_layout", "%v", err)
		}
	}

	auths := checkNames(&errs, "authenticators", n.Authenticators)
	strategies := checkNames(&errs, "voting_strategies", n.VotingStrategies)
	executors := checkNames(&errs, "execution_strategies", n.ExecutionStrategies)

	for _, name := range n.Deployment.ExecutionStrategies {
		if _, ok := executors[name]; !ok {
			add("deployment.execution_strategies", "unknown execution strategy %q", name)
		}
	}
	for i, s := range n.Spaces {
		field := fmt.Sprintf("spaces[%d]", i)
		if s.Name == "" {
			add(field+".name", "is required")
		}
		for _, name := range s.Authenticators {
			if _, ok := auths[name]; !ok {
				add(field+".authenticators", "unknown authenticator %q", name)
			}
		}
		for _, ref := range s.VotingStrategies {
			if _, ok := strategies[ref.Name]; !ok {
				add(field+".voting_strategies", "unknown voting strategy %q", ref.Name)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkNames(errs *ValidationErrors, field string, entries []space.NamedAddress) map[string]sx.Felt {
	byName := make(map[string]sx.Felt, len(entries))
	for i, e := range entries {
		switch {
		case e.Name == "":
			*errs = append(*errs, ValidationError{Field: fmt.Sprintf("%s[%d].name", field, i), Message: "is required"})
		case e.Address.IsZero():
			*errs = append(*errs, ValidationError{Field: fmt.Sprintf("%s[%d].address", field, i), Message: "is required"})
		default:
			if _, dup := byName[e.Name]; dup {
				*errs = append(*errs, ValidationError{Field: fmt.Sprintf("%s[%d].name", field, i), Message: fmt.Sprintf("duplicate name %q", e.Name)})
			}
			byName[e.Name] = e.Address
		}
	}
	return byName
}

// ValidateRemote checks the settings needed to submit transactions.
func (n *Network) ValidateRemote() error {
	var errs ValidationErrors
	if n.RPCURL == "" {
		errs = append(errs, ValidationError{Field: "rpc_url", Message: "is required (or set " + EnvRPCURL + ")"})
	}
	if n.SignerURL == "" {
		errs = append(errs, ValidationError{Field: "signer_url", Message: "is required (or set " + EnvSignerURL + ")"})
	}
	if _, err := n.Account(); err != nil {
		errs = append(errs, ValidationError{Field: "account", Message: err.Error()})
	}
	if n.MaxFee == "" {
		errs = append(errs, ValidationError{Field: "max_fee", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Account returns the parsed account contract address.
func (n *Network) Account() (sx.Felt, error) {
	if n.AccountAddress == "" {
		return sx.Felt{}, fmt.Errorf("is required (or set %s)", EnvAccountAddress)
	}
	addr, err := sx.FeltFromString(n.AccountAddress)
	if err != nil {
		return sx.Felt{}, err
	}
	if addr.IsZero() {
		return sx.Felt{}, fmt.Errorf("zero address")
	}
	return addr, nil
}

// MaxFeeWei returns the fee ceiling of every transaction, in wei.
func (n *Network) MaxFeeWei() (*big.Int, error) {
	fee, ok := new(big.Int).SetString(n.MaxFee, 0)
	if !ok || fee.Sign() <= 0 {
		return nil, fmt.Errorf("invalid fee %q", n.MaxFee)
	}
	return fee, nil
}

// PollInterval returns the delay between receipt queries.
func (n *Network) PollInterval() time.Duration {
	return time.Duration(n.PollIntervalMs) * time.Millisecond
}

// Timeout returns how long a submission waits for a terminal status.
func (n *Network) Timeout() time.Duration {
	return time.Duration(n.TimeoutSec) * time.Second
}

// SubmitterOptions returns the polling options for sx.NewSubmitter.
func (n *Network) SubmitterOptions() []sx.SubmitterOption {
	return []sx.SubmitterOption{
		sx.WithPollInterval(n.PollInterval()),
		sx.WithTimeout(n.Timeout()),
	}
}

// Factory returns the space factory with its event layout resolved. The
// layout defaults to sx.SpaceFactoryV1.
func (n *Network) Factory() (space.Factory, error) {
	layout := sx.SpaceFactoryV1()
	if n.SpaceFactory.EventLayout != "" {
		var err error
		if layout, err = sx.LookupEventLayout(n.SpaceFactory.EventLayout); err != nil {
			return space.Factory{}, err
		}
	}
	return space.Factory{
		Address:        n.SpaceFactory.Address,
		SpaceClassHash: n.SpaceFactory.SpaceClassHash,
		EventLayout:    layout,
	}, nil
}

// SpaceConfigs resolves the spaces of the batch, in file order, into
// deployment parameters.
func (n *Network) SpaceConfigs() ([]space.SpaceConfig, error) {
	executors, err := lookup("execution strategy", n.ExecutionStrategies, n.Deployment.ExecutionStrategies)
	if err != nil {
		return nil, err
	}
	publicKey := n.Deployment.PublicKey
	if publicKey.IsZero() {
		publicKey = n.Deployment.Controller
	}

	configs := make([]space.SpaceConfig, len(n.Spaces))
	for i, s := range n.Spaces {
		auths, err := lookup("authenticator", n.Authenticators, s.Authenticators)
		if err != nil {
			return nil, fmt.Errorf("space %q: %w", s.Name, err)
		}
		strategies := make([]space.VotingStrategy, len(s.VotingStrategies))
		for j, ref := range s.VotingStrategies {
			found, err := lookup("voting strategy", n.VotingStrategies, []string{ref.Name})
			if err != nil {
				return nil, fmt.Errorf("space %q: %w", s.Name, err)
			}
			strategies[j] = space.VotingStrategy{
				Name:    ref.Name,
				Address: found[0].Address,
				Params:  append([]sx.Felt(nil), ref.Parameters...),
			}
		}
		configs[i] = space.SpaceConfig{
			Name:                s.Name,
			PublicKey:           publicKey,
			Controller:          n.Deployment.Controller,
			VotingDelay:         n.Deployment.VotingDelay,
			MinVotingDuration:   n.Deployment.MinVotingDuration,
			MaxVotingDuration:   n.Deployment.MaxVotingDuration,
			ProposalThreshold:   n.Deployment.ProposalThreshold,
			Quorum:              n.Deployment.Quorum,
			VotingStrategies:    strategies,
			Authenticators:      auths,
			ExecutionStrategies: executors,
		}
	}
	return configs, nil
}

func lookup(kind string, declared []space.NamedAddress, names []string) ([]space.NamedAddress, error) {
	out := make([]space.NamedAddress, 0, len(names))
	for _, name := range names {
		i := indexOf(declared, name)
		if i < 0 {
			return nil, &sx.SchemaMismatchError{Field: kind, Err: fmt.Errorf("unknown name %q", name)}
		}
		out = append(out, declared[i])
	}
	return out, nil
}

func indexOf(entries []space.NamedAddress, name string) int {
	for i, e := range entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}
