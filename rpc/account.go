package rpc

import (
	"context"
	"fmt"
	"math/big"

	sx "github.com/branched-services/go-sx"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// DefaultSignMethod is the JSON-RPC method RemoteSigner calls.
const DefaultSignMethod = "signer_signInvokeTransaction"

// Signer signs invoke transactions for an account. Implementations compute
// the transaction hash for chainID and return the account's signature over it.
type Signer interface {
	SignInvoke(ctx context.Context, tx *InvokeTransaction, chainID sx.Felt) ([]sx.Felt, error)
}

// RemoteSigner delegates signing to an external JSON-RPC service holding
// the account key.
type RemoteSigner struct {
	c      *rpc.Client
	method string
}

// NewRemoteSigner creates a signer calling method on c. An empty method
// selects DefaultSignMethod.
func NewRemoteSigner(c *rpc.Client, method string) *RemoteSigner {
	if method == "" {
		method = DefaultSignMethod
	}
	return &RemoteSigner{c: c, method: method}
}

// DialSigner connects a RemoteSigner to the given URL.
func DialSigner(ctx context.Context, rawurl, method string) (*RemoteSigner, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, &sx.ResourceUnavailableError{Resource: rawurl, Err: err}
	}
	return NewRemoteSigner(c, method), nil
}

// SignInvoke implements Signer.
func (s *RemoteSigner) SignInvoke(ctx context.Context, tx *InvokeTransaction, chainID sx.Felt) ([]sx.Felt, error) {
	var sig []sx.Felt
	if err := s.c.CallContext(ctx, &sig, s.method, tx, chainID); err != nil {
		return nil, fmt.Errorf("rpc: remote signer: %w", err)
	}
	if len(sig) == 0 {
		return nil, fmt.Errorf("rpc: remote signer returned an empty signature")
	}
	return sig, nil
}

// Close closes the connection to the signer.
func (s *RemoteSigner) Close() {
	s.c.Close()
}

// Account sends multicalls from an account contract. It implements
// sx.Account.
type Account struct {
	client  *Client
	address sx.Felt
	signer  Signer
	logger  log.Logger
}

// NewAccount creates an Account for the contract at address.
func NewAccount(client *Client, address sx.Felt, signer Signer, logger log.Logger) *Account {
	if logger == nil {
		logger = log.Root()
	}
	return &Account{client: client, address: address, signer: signer, logger: logger}
}

// Address returns the account contract address.
func (a *Account) Address() sx.Felt {
	return a.address
}

// Execute signs and submits calls as one invoke transaction with maxFee as
// the fee ceiling. It returns once the node has accepted the transaction for
// processing; it does not wait for its outcome.
func (a *Account) Execute(ctx context.Context, calls []sx.Call, maxFee *big.Int) (sx.Felt, error) {
	fee, err := sx.FeltFromBig(maxFee)
	if err != nil {
		return sx.Felt{}, &sx.SchemaMismatchError{Field: "max_fee", Err: err}
	}
	chainID, err := a.client.ChainID(ctx)
	if err != nil {
		return sx.Felt{}, fmt.Errorf("rpc: chain id: %w", err)
	}
	nonce, err := a.client.Nonce(ctx, Pending, a.address)
	if err != nil {
		return sx.Felt{}, fmt.Errorf("rpc: nonce of %s: %w", a.address, err)
	}

	tx := &InvokeTransaction{
		Type:          "INVOKE",
		SenderAddress: a.address,
		Calldata:      sx.EncodeExecute(calls),
		MaxFee:        fee,
		Version:       sx.FeltFromUint64(1),
		Nonce:         nonce,
	}
	a.logger.Debug("Signing invoke transaction", "sender", a.address, "nonce", nonce, "calls", len(calls), "calldata", len(tx.Calldata))

	tx.Signature, err = a.signer.SignInvoke(ctx, tx, chainID)
	if err != nil {
		return sx.Felt{}, err
	}
	return a.client.AddInvokeTransaction(ctx, tx)
}
