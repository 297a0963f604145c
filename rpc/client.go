// Package rpc talks to a StarkNet node over JSON-RPC.
//
// Client wraps the go-ethereum JSON-RPC client with the StarkNet methods the
// deployment and relay flows need. Account submits multicalls through an
// account contract; signing is delegated to a Signer so that keys never
// pass through this process.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	sx "github.com/branched-services/go-sx"
	"github.com/ethereum/go-ethereum/rpc"
)

// BlockTag selects the block state queries run against.
type BlockTag string

const (
	Latest  BlockTag = "latest"
	Pending BlockTag = "pending"
)

// Client is a StarkNet JSON-RPC client.
type Client struct {
	c *rpc.Client
}

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects a client to the given URL with context.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, &sx.ResourceUnavailableError{Resource: rawurl, Err: err}
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c}
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.c.Close()
}

// ChainID returns the chain identifier used in transaction hashes.
func (c *Client) ChainID(ctx context.Context) (sx.Felt, error) {
	var result string
	if err := c.c.CallContext(ctx, &result, "starknet_chainId"); err != nil {
		return sx.Felt{}, err
	}
	return sx.FeltFromHex(result)
}

// Nonce returns the nonce of the account contract at address.
func (c *Client) Nonce(ctx context.Context, block BlockTag, address sx.Felt) (sx.Felt, error) {
	var result string
	if err := c.c.CallContext(ctx, &result, "starknet_getNonce", block, address); err != nil {
		return sx.Felt{}, err
	}
	return sx.FeltFromHex(result)
}

// TransactionReceipt returns the validated receipt of a transaction. It
// fails while the node does not know the transaction.
func (c *Client) TransactionReceipt(ctx context.Context, txHash sx.Felt) (*sx.Receipt, error) {
	var raw json.RawMessage
	if err := c.c.CallContext(ctx, &raw, "starknet_getTransactionReceipt", txHash); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("rpc: receipt for %s not found", txHash)
	}
	return sx.DecodeReceipt(raw)
}

// InvokeTransaction is a version 1 invoke transaction running Calldata
// through the sender account's __execute__ entrypoint.
type InvokeTransaction struct {
	Type          string    `json:"type"`
	SenderAddress sx.Felt   `json:"sender_address"`
	Calldata      []sx.Felt `json:"calldata"`
	MaxFee        sx.Felt   `json:"max_fee"`
	Version       sx.Felt   `json:"version"`
	Signature     []sx.Felt `json:"signature"`
	Nonce         sx.Felt   `json:"nonce"`
}

type addInvokeResult struct {
	TransactionHash sx.Felt `json:"transaction_hash"`
}

// AddInvokeTransaction submits a signed invoke transaction and returns its
// hash. The node only checks the transaction's validity; its outcome has to
// be followed through TransactionReceipt.
func (c *Client) AddInvokeTransaction(ctx context.Context, tx *InvokeTransaction) (sx.Felt, error) {
	var result addInvokeResult
	if err := c.c.CallContext(ctx, &result, "starknet_addInvokeTransaction", tx); err != nil {
		return sx.Felt{}, err
	}
	if result.TransactionHash.IsZero() {
		return sx.Felt{}, fmt.Errorf("rpc: node returned no transaction hash")
	}
	return result.TransactionHash, nil
}
