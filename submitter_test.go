package sx

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

type fakeAccount struct {
	mu    sync.Mutex
	calls [][]Call
	hash  Felt
	err   error
}

func (a *fakeAccount) Execute(_ context.Context, calls []Call, _ *big.Int) (Felt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, calls)
	return a.hash, a.err
}

func (a *fakeAccount) executions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

// fakeProvider returns the scripted statuses in order, repeating the last.
type fakeProvider struct {
	mu       sync.Mutex
	statuses []TxStatus
	errs     []error
	queries  int
}

func (p *fakeProvider) TransactionReceipt(_ context.Context, txHash Felt) (*Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.queries
	p.queries++
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i >= len(p.statuses) {
		i = len(p.statuses) - 1
	}
	r := &Receipt{TransactionHash: txHash, Status: p.statuses[i]}
	if r.Status == StatusRejected {
		r.Reason = "Actual fee exceeded max fee"
	}
	if r.Status.IsAccepted() {
		r.Events = factoryReceipt(1).Events
	}
	return r, nil
}

func testSubmitter(a Account, p Provider, opts ...SubmitterOption) *Submitter {
	base := []SubmitterOption{
		WithPollInterval(time.Millisecond),
		WithTimeout(time.Second),
		WithLogger(log.NewLogger(log.DiscardHandler())),
	}
	return NewSubmitter(a, p, append(base, opts...)...)
}

func TestSubmit(t *testing.T) {
	maxFee := big.NewInt(10_000_000_000_000_000)

	t.Run("accepted after pending", func(t *testing.T) {
		account := &fakeAccount{hash: MustFelt("0x7a")}
		provider := &fakeProvider{statuses: []TxStatus{StatusNotReceived, StatusReceived, StatusPending, StatusAcceptedOnL2}}

		res, err := testSubmitter(account, provider).Submit(context.Background(), testCalls(), maxFee)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if res.TransactionHash != MustFelt("0x7a") {
			t.Errorf("Unexpected hash %s", res.TransactionHash)
		}
		if res.Receipt.Status != StatusAcceptedOnL2 {
			t.Errorf("Unexpected status %s", res.Receipt.Status)
		}
		if account.executions() != 1 {
			t.Errorf("Expected one execution, got %d", account.executions())
		}
		if len(account.calls[0]) != 2 {
			t.Errorf("Expected both calls in one transaction, got %d", len(account.calls[0]))
		}
	})

	t.Run("query errors are retried", func(t *testing.T) {
		account := &fakeAccount{hash: MustFelt("0x1")}
		provider := &fakeProvider{
			statuses: []TxStatus{StatusPending, StatusPending, StatusAcceptedOnL1},
			errs:     []error{errors.New("connection reset"), errors.New("transaction hash not found")},
		}

		_, err := testSubmitter(account, provider).Submit(context.Background(), testCalls(), maxFee)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if account.executions() != 1 {
			t.Errorf("Expected one execution, got %d", account.executions())
		}
	})

	t.Run("malformed receipt is not retried", func(t *testing.T) {
		account := &fakeAccount{hash: MustFelt("0x1")}
		provider := &fakeProvider{
			statuses: []TxStatus{StatusAcceptedOnL2},
			errs:     []error{&ReceiptError{Field: "events", Err: errMissing}},
		}

		_, err := testSubmitter(account, provider).Submit(context.Background(), testCalls(), maxFee)
		if !errors.Is(err, ErrExtraction) {
			t.Fatalf("Expected ErrExtraction, got %v", err)
		}
		if provider.queries != 1 {
			t.Errorf("Expected a single query, got %d", provider.queries)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		account := &fakeAccount{hash: MustFelt("0x2")}
		provider := &fakeProvider{statuses: []TxStatus{StatusPending, StatusRejected}}

		_, err := testSubmitter(account, provider).Submit(context.Background(), testCalls(), maxFee)
		var rejected *SubmissionRejectedError
		if !errors.As(err, &rejected) {
			t.Fatalf("Expected SubmissionRejectedError, got %v", err)
		}
		if rejected.Status != StatusRejected || rejected.TxHash != MustFelt("0x2") {
			t.Errorf("Unexpected error fields %+v", rejected)
		}
		if rejected.Reason == "" {
			t.Error("Expected the rejection reason")
		}
		if provider.queries != 2 {
			t.Errorf("Polling should stop at the terminal status, got %d queries", provider.queries)
		}
	})

	t.Run("reverted", func(t *testing.T) {
		account := &fakeAccount{hash: MustFelt("0x3")}
		provider := &fakeProvider{statuses: []TxStatus{StatusReverted}}

		_, err := testSubmitter(account, provider).Submit(context.Background(), testCalls(), maxFee)
		if !errors.Is(err, ErrSubmission) {
			t.Errorf("Expected ErrSubmission, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		account := &fakeAccount{hash: MustFelt("0x4")}
		provider := &fakeProvider{statuses: []TxStatus{StatusPending}}

		s := testSubmitter(account, provider, WithTimeout(20*time.Millisecond))
		_, err := s.Submit(context.Background(), testCalls(), maxFee)
		var timeout *SubmissionTimeoutError
		if !errors.As(err, &timeout) {
			t.Fatalf("Expected SubmissionTimeoutError, got %v", err)
		}
		if timeout.LastStatus != StatusPending {
			t.Errorf("Expected last status PENDING, got %s", timeout.LastStatus)
		}
		if account.executions() != 1 {
			t.Errorf("A timed out transaction must not be resent, got %d executions", account.executions())
		}
	})

	t.Run("execute error", func(t *testing.T) {
		inner := errors.New("invalid transaction nonce")
		account := &fakeAccount{err: inner}
		provider := &fakeProvider{statuses: []TxStatus{StatusAcceptedOnL2}}

		_, err := testSubmitter(account, provider).Submit(context.Background(), testCalls(), maxFee)
		if !errors.Is(err, ErrSubmission) || !errors.Is(err, inner) {
			t.Errorf("Expected wrapped submission error, got %v", err)
		}
		if provider.queries != 0 {
			t.Error("No receipt should be polled when the send fails")
		}
	})

	t.Run("invalid fee", func(t *testing.T) {
		for _, fee := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1)} {
			account := &fakeAccount{}
			_, err := testSubmitter(account, &fakeProvider{}).Submit(context.Background(), testCalls(), fee)
			if !errors.Is(err, ErrEncoding) {
				t.Errorf("Expected ErrEncoding for fee %v, got %v", fee, err)
			}
			if account.executions() != 0 {
				t.Error("Nothing should be sent with an invalid fee")
			}
		}
	})

	t.Run("empty calls", func(t *testing.T) {
		account := &fakeAccount{}
		_, err := testSubmitter(account, &fakeProvider{}).Submit(context.Background(), nil, maxFee)
		if !errors.Is(err, ErrNoCalls) {
			t.Errorf("Expected ErrNoCalls, got %v", err)
		}
	})

	t.Run("plan limits", func(t *testing.T) {
		account := &fakeAccount{}
		s := testSubmitter(account, &fakeProvider{}, WithPlanOptions(WithMaxCalls(1)))
		_, err := s.Submit(context.Background(), testCalls(), maxFee)
		if !errors.Is(err, ErrTooManyCalls) {
			t.Errorf("Expected ErrTooManyCalls, got %v", err)
		}
	})
}

func TestWaitForTransactionCallerDeadline(t *testing.T) {
	provider := &fakeProvider{statuses: []TxStatus{StatusPending}}
	s := testSubmitter(&fakeAccount{}, provider, WithTimeout(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := s.WaitForTransaction(ctx, MustFelt("0x1"))

	var timeout *SubmissionTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Expected SubmissionTimeoutError, got %v", err)
	}
	if timeout.Timeout > 30*time.Millisecond {
		t.Errorf("Expected the caller's deadline to be reported, got %s", timeout.Timeout)
	}
	if timeout.LastStatus != StatusPending {
		t.Errorf("Expected last status PENDING, got %s", timeout.LastStatus)
	}
}

func TestWaitForTransactionCanceled(t *testing.T) {
	provider := &fakeProvider{statuses: []TxStatus{StatusPending}}
	s := testSubmitter(&fakeAccount{}, provider, WithTimeout(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.WaitForTransaction(ctx, MustFelt("0x1"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
