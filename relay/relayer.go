package relay

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	sx "github.com/branched-services/go-sx"
	"github.com/ethereum/go-ethereum/log"
)

// State is the progress of a relay.
type State int

const (
	HeaderPending State = iota
	AccountProofPending
	Done
)

func (s State) String() string {
	switch s {
	case HeaderPending:
		return "header"
	case AccountProofPending:
		return "account-proof"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var errNoReceipt = errors.New("submission returned no receipt")

// Submitter sends calls as one transaction and waits for its terminal
// receipt. *sx.Submitter implements it.
type Submitter interface {
	Submit(ctx context.Context, calls []sx.Call, maxFee *big.Int) (*sx.SubmissionResult, error)
}

// RelayError reports the step a relay failed in. When the account proof step
// fails the header stays ingested; Header carries its transaction.
type RelayError struct {
	Step   State
	Header *sx.SubmissionResult
	Err    error
}

func (e *RelayError) Error() string {
	if e.Header != nil {
		return fmt.Sprintf("relay: %s step failed (header accepted in %s): %v", e.Step, e.Header.TransactionHash, e.Err)
	}
	return fmt.Sprintf("relay: %s step failed: %v", e.Step, e.Err)
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// Result holds the transactions of a relay and how far it got.
type Result struct {
	State       State
	BlockNumber uint64
	Header      *sx.SubmissionResult
	Proof       *sx.SubmissionResult
}

// Option configures a Relayer.
type Option func(*Relayer)

// WithProofCheck verifies the account proof against the header's state root
// before anything is submitted.
func WithProofCheck() Option {
	return func(r *Relayer) {
		r.verify = true
	}
}

// WithLogger sets the logger. It defaults to log.Root().
func WithLogger(l log.Logger) Option {
	return func(r *Relayer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Relayer relays headers and account proofs to the Fossil contracts.
type Relayer struct {
	submitter    Submitter
	headersStore sx.Felt
	factRegistry sx.Felt
	verify       bool
	logger       log.Logger
}

// NewRelayer creates a Relayer for the given L1 headers store and fact
// registry contracts.
func NewRelayer(submitter Submitter, headersStore, factRegistry sx.Felt, opts ...Option) *Relayer {
	r := &Relayer{
		submitter:    submitter,
		headersStore: headersStore,
		factRegistry: factRegistry,
		logger:       log.Root(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Relay ingests block's header, waits for it to be accepted, then proves
// the account against it. Both calls are encoded before the first is sent,
// so an encoding problem never leaves a half finished relay. If the header
// step fails the proof is not attempted. If the proof step fails the header
// is not rolled back.
func (r *Relayer) Relay(ctx context.Context, block *Block, proof *AccountProof, maxFee *big.Int) (*Result, error) {
	logger := r.logger.New("block", block.Number(), "account", proof.Address)

	if r.verify {
		if _, err := VerifyAccountProof(block.Header.Root, proof); err != nil {
			return nil, &RelayError{Step: HeaderPending, Err: &sx.EncodingError{Value: proof.Address.Hex(), Err: err}}
		}
		logger.Debug("Account proof verified against state root", "root", block.Header.Root)
	}

	headerCall, proofCall, err := Calls(r.headersStore, r.factRegistry, block, proof)
	if err != nil {
		return nil, &RelayError{Step: HeaderPending, Err: err}
	}

	res := &Result{State: HeaderPending, BlockNumber: block.Number()}

	logger.Info("Relaying block header", "hash", block.Hash, "calldata", headerCall.CalldataLen())
	res.Header, err = submitted(r.submitter.Submit(ctx, []sx.Call{headerCall}, maxFee))
	if err != nil {
		return nil, &RelayError{Step: HeaderPending, Err: err}
	}
	logger.Info("Block header accepted", "tx", res.Header.TransactionHash)
	res.State = AccountProofPending

	logger.Info("Relaying account proof", "nodes", len(proof.AccountProof))
	res.Proof, err = submitted(r.submitter.Submit(ctx, []sx.Call{proofCall}, maxFee))
	if err != nil {
		logger.Warn("Account proof failed, header stays ingested", "headerTx", res.Header.TransactionHash, "err", err)
		return res, &RelayError{Step: AccountProofPending, Header: res.Header, Err: err}
	}
	logger.Info("Account proof accepted", "tx", res.Proof.TransactionHash)
	res.State = Done
	return res, nil
}

// submitted rejects a result that carries no receipt.
func submitted(res *sx.SubmissionResult, err error) (*sx.SubmissionResult, error) {
	if err != nil {
		return nil, err
	}
	if res == nil || res.Receipt == nil {
		return nil, &sx.ReceiptError{Field: "receipt", Err: errNoReceipt}
	}
	return res, nil
}

// Calls encodes the process_block and prove_account calls of a relay
// without sending them.
func Calls(headersStore, factRegistry sx.Felt, block *Block, proof *AccountProof) (header, prove sx.Call, err error) {
	blockInputs, err := block.ProcessBlockInputs()
	if err != nil {
		return sx.Call{}, sx.Call{}, err
	}
	header, err = ProcessBlockCall(headersStore, blockInputs)
	if err != nil {
		return sx.Call{}, sx.Call{}, err
	}
	prove, err = ProveAccountCall(factRegistry, proof.ProofInputs(blockInputs.BlockNumber))
	if err != nil {
		return sx.Call{}, sx.Call{}, err
	}
	return header, prove, nil
}
