// Package relay relays an Ethereum block header and account proof to the
// Fossil contracts on StarkNet.
//
// The relay is two dependent transactions. The header is ingested by the L1
// headers store first; the account proof is then verified by the fact
// registry against the state root of that header. The second transaction is
// only valid once the first is accepted, so the two are never batched.
package relay

import (
	"encoding/json"
	"fmt"
	"io"

	sx "github.com/branched-services/go-sx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// Fossil option flags.
const (
	// BlockOptions tells process_block the header RLP is supplied in full.
	BlockOptions = 8
	// AccountOptions requests the account's storage hash, code hash, nonce
	// and balance to be stored.
	AccountOptions = 15
)

// Block is an Ethereum block header as relayed to the headers store.
type Block struct {
	Header *types.Header
	Hash   common.Hash
}

// Number returns the block number.
func (b *Block) Number() uint64 {
	return b.Header.Number.Uint64()
}

// ProcessBlockInputs are the arguments of the headers store's process_block.
type ProcessBlockInputs struct {
	BlockOptions uint64
	BlockNumber  uint64
	HeaderInts   sx.IntsSequence
}

// LoadBlock parses an eth_getBlockByNumber result, or a full JSON-RPC
// response carrying one. The declared block hash must match the hash of the
// decoded header, otherwise a header field was lost or altered.
func LoadBlock(r io.Reader) (*Block, error) {
	raw, err := readResult(r)
	if err != nil {
		return nil, err
	}

	var header types.Header
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("relay: decode block header: %w", err)
	}
	var declared struct {
		Hash *common.Hash `json:"hash"`
	}
	if err := json.Unmarshal(raw, &declared); err != nil {
		return nil, fmt.Errorf("relay: decode block hash: %w", err)
	}

	hash := header.Hash()
	if declared.Hash != nil && *declared.Hash != hash {
		return nil, fmt.Errorf("relay: block %d hash mismatch: declared %s, computed %s", header.Number.Uint64(), declared.Hash.Hex(), hash.Hex())
	}
	return &Block{Header: &header, Hash: hash}, nil
}

// ProcessBlockInputs encodes the header RLP as 64-bit words.
func (b *Block) ProcessBlockInputs() (ProcessBlockInputs, error) {
	enc, err := rlp.EncodeToBytes(b.Header)
	if err != nil {
		return ProcessBlockInputs{}, &sx.EncodingError{Value: b.Hash.Hex(), Err: err}
	}
	return ProcessBlockInputs{
		BlockOptions: BlockOptions,
		BlockNumber:  b.Number(),
		HeaderInts:   sx.IntsSequenceFromBytes(enc),
	}, nil
}

// readResult returns the JSON object in r, unwrapping a JSON-RPC response
// envelope when present.
func readResult(r io.Reader) (json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &sx.ResourceUnavailableError{Resource: "relay input", Err: err}
	}
	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("relay: decode document: %w", err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("relay: document holds an rpc error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	if len(envelope.Result) > 0 && string(envelope.Result) != "null" {
		return envelope.Result, nil
	}
	return data, nil
}
