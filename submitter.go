package sx

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Account signs and sends an invoke transaction running calls through the
// account's __execute__ entrypoint. It returns the transaction hash.
type Account interface {
	Execute(ctx context.Context, calls []Call, maxFee *big.Int) (Felt, error)
}

// Provider queries the chain for transaction receipts. It returns an error
// while the node does not know the transaction yet.
type Provider interface {
	TransactionReceipt(ctx context.Context, txHash Felt) (*Receipt, error)
}

// Submitter sends multicalls and waits for their terminal receipt.
// It holds no state between submissions and is safe for concurrent use.
type Submitter struct {
	account  Account
	provider Provider
	cfg      *submitterConfig
}

// NewSubmitter creates a Submitter.
func NewSubmitter(account Account, provider Provider, opts ...SubmitterOption) *Submitter {
	cfg := defaultSubmitterConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Submitter{account: account, provider: provider, cfg: cfg}
}

// Submit sends calls as one atomic transaction with maxFee as the fee
// ceiling, then blocks until the chain reports a terminal status.
//
// The invoke is sent exactly once. A rejected or reverted transaction fails
// with SubmissionRejectedError and a wait that outlives the configured
// timeout fails with SubmissionTimeoutError; neither is retried, since
// resending could apply the calls twice.
func (s *Submitter) Submit(ctx context.Context, calls []Call, maxFee *big.Int) (*SubmissionResult, error) {
	p := New()
	p.AddAll(calls...)
	plan, err := p.Plan(s.cfg.planOpts...)
	if err != nil {
		return nil, err
	}
	if maxFee == nil || maxFee.Sign() <= 0 {
		return nil, &EncodingError{Value: maxFee, Err: errors.New("fee ceiling must be positive")}
	}

	s.cfg.logger.Info("Submitting multicall", "calls", plan.CallCount(), "calldata", len(plan.Calldata), "maxFee", maxFee)
	hash, err := s.account.Execute(ctx, plan.Calls, maxFee)
	if err != nil {
		return nil, &SubmissionRejectedError{Reason: err.Error(), Err: err}
	}
	s.cfg.logger.Info("Transaction sent, waiting for receipt", "hash", hash)

	receipt, err := s.WaitForTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}
	return &SubmissionResult{TransactionHash: hash, Receipt: receipt}, nil
}

// WaitForTransaction polls the provider until txHash reaches a terminal
// status. Query errors and non-terminal statuses are retried at the poll
// interval until the timeout elapses; a malformed receipt is not. It can be
// used on its own to re-query a transaction whose earlier wait timed out.
//
// The wait ends at the configured timeout or at ctx's deadline, whichever
// comes first; the SubmissionTimeoutError reports the one that applied.
func (s *Submitter) WaitForTransaction(ctx context.Context, txHash Felt) (*Receipt, error) {
	timeout := s.cfg.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = max(until, 0)
		}
	}
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	logger := s.cfg.logger.New("hash", txHash)
	var (
		receipt    *Receipt
		lastStatus TxStatus
	)
	poll := func() error {
		r, err := s.provider.TransactionReceipt(waitCtx, txHash)
		if errors.Is(err, ErrExtraction) {
			return backoff.Permanent(err)
		}
		if err != nil {
			return err
		}
		lastStatus = r.Status
		switch {
		case r.Status.IsAccepted():
			receipt = r
			return nil
		case r.Status.IsTerminal():
			return backoff.Permanent(&SubmissionRejectedError{TxHash: txHash, Status: r.Status, Reason: r.Reason})
		default:
			return errNotTerminal
		}
	}
	notify := func(err error, next time.Duration) {
		if errors.Is(err, errNotTerminal) {
			logger.Debug("Transaction not terminal yet", "status", lastStatus, "retry", next)
			return
		}
		logger.Debug("Receipt query failed", "err", err, "retry", next)
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(s.cfg.pollInterval), waitCtx)
	if err := backoff.RetryNotify(poll, b, notify); err != nil {
		var rejected *SubmissionRejectedError
		switch {
		case errors.As(err, &rejected):
			logger.Warn("Transaction rejected", "status", rejected.Status, "reason", rejected.Reason)
			return nil, err
		case errors.Is(err, context.DeadlineExceeded):
			logger.Warn("Gave up waiting for transaction", "timeout", timeout, "status", lastStatus)
			return nil, &SubmissionTimeoutError{TxHash: txHash, Timeout: timeout, LastStatus: lastStatus}
		default:
			return nil, err
		}
	}
	logger.Info("Transaction accepted", "status", receipt.Status, "events", len(receipt.Events), "fee", receipt.ActualFee)
	return receipt, nil
}

var errNotTerminal = errors.New("transaction not terminal")
