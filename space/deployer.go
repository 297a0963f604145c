package space

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	sx "github.com/branched-services/go-sx"
	"github.com/ethereum/go-ethereum/log"
)

// Deployment steps, reported by DeployError.
const (
	StepEncode   = "encode"
	StepSubmit   = "submit"
	StepExtract  = "extract"
	StepAssemble = "assemble"
	StepStore    = "store"
)

var errNoReceipt = errors.New("submission returned no receipt")

// Submitter sends a multicall and waits for its terminal receipt.
// *sx.Submitter implements it.
type Submitter interface {
	Submit(ctx context.Context, calls []sx.Call, maxFee *big.Int) (*sx.SubmissionResult, error)
}

// DeployError reports the step a deployment failed at. TxHash is set once
// the transaction was sent, so its fate can be checked afterwards.
type DeployError struct {
	Step   string
	TxHash sx.Felt
	Err    error
}

func (e *DeployError) Error() string {
	if e.TxHash.IsZero() {
		return fmt.Sprintf("space: deploy failed at %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("space: deploy failed at %s (tx %s): %v", e.Step, e.TxHash, e.Err)
}

func (e *DeployError) Unwrap() error {
	return e.Err
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithStore persists every successful deployment record.
func WithStore(s Store) Option {
	return func(d *Deployer) {
		d.store = s
	}
}

// WithLogger sets the logger. It defaults to log.Root().
func WithLogger(l log.Logger) Option {
	return func(d *Deployer) {
		if l != nil {
			d.logger = l
		}
	}
}

// Deployer deploys batches of spaces through a space factory.
type Deployer struct {
	submitter Submitter
	store     Store
	logger    log.Logger
}

// NewDeployer creates a Deployer.
func NewDeployer(submitter Submitter, opts ...Option) *Deployer {
	d := &Deployer{submitter: submitter, logger: log.Root()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deploy deploys one space per configuration in a single transaction and
// returns the resulting record. The batch is sent once; a failure after
// submission is not retried since resending would deploy the spaces again.
//
// If only the store step fails the assembled record is returned alongside
// the error.
func (d *Deployer) Deploy(ctx context.Context, network string, factory Factory, configs []SpaceConfig, maxFee *big.Int) (*DeploymentRecord, error) {
	logger := d.logger.New("network", network, "factory", factory.Address)

	calls, err := DeploySpaceCalls(factory.Address, configs)
	if err != nil {
		return nil, &DeployError{Step: StepEncode, Err: err}
	}
	for i, c := range calls {
		logger.Debug("Encoded deploy_space call", "space", configs[i].Name, "calldata", c.CalldataLen())
	}

	logger.Info("Deploying spaces", "count", len(configs))
	res, err := d.submitter.Submit(ctx, calls, maxFee)
	if err != nil {
		return nil, &DeployError{Step: StepSubmit, Err: err}
	}
	if res == nil || res.Receipt == nil {
		var txHash sx.Felt
		if res != nil {
			txHash = res.TransactionHash
		}
		logger.Error("Submission returned no receipt", "tx", txHash)
		return nil, &DeployError{Step: StepExtract, TxHash: txHash, Err: &sx.ReceiptError{Field: "receipt", Err: errNoReceipt}}
	}

	addrs, err := factory.EventLayout.Extract(res.Receipt, len(configs))
	if err != nil {
		logger.Error("Space addresses not found in receipt", "layout", factory.EventLayout.Name, "events", len(res.Receipt.Events), "err", err)
		return nil, &DeployError{Step: StepExtract, TxHash: res.TransactionHash, Err: err}
	}

	rec, err := Assemble(factory, configs, addrs)
	if err != nil {
		return nil, &DeployError{Step: StepAssemble, TxHash: res.TransactionHash, Err: err}
	}
	rec.Network = network
	rec.TransactionHash = res.TransactionHash

	for _, s := range rec.Spaces {
		logger.Info("Space deployed", "name", s.Name, "address", s.Address)
	}

	if d.store != nil {
		if err := d.store.Save(rec); err != nil {
			return rec, &DeployError{Step: StepStore, TxHash: res.TransactionHash, Err: err}
		}
	}
	return rec, nil
}
