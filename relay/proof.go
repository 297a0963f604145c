package relay

import (
	"encoding/json"
	"fmt"
	"io"

	sx "github.com/branched-services/go-sx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AccountProof is an eth_getProof result. Storage proofs are ignored.
type AccountProof struct {
	Address      common.Address  `json:"address"`
	AccountProof []hexutil.Bytes `json:"accountProof"`
	Balance      *hexutil.Big    `json:"balance"`
	CodeHash     common.Hash     `json:"codeHash"`
	Nonce        hexutil.Uint64  `json:"nonce"`
	StorageHash  common.Hash     `json:"storageHash"`
}

// ProofInputs are the arguments of the fact registry's prove_account.
// Proof nodes are sent as one flat word array; the per-node byte and word
// counts let the contract split it again.
type ProofInputs struct {
	AccountOptions uint64
	BlockNumber    uint64
	EthAddress     sx.IntsSequence
	SizesBytes     []uint64
	SizesWords     []uint64
	AccountProof   []uint64
}

// LoadProof parses an eth_getProof result, or a full JSON-RPC response
// carrying one.
func LoadProof(r io.Reader) (*AccountProof, error) {
	raw, err := readResult(r)
	if err != nil {
		return nil, err
	}
	var p AccountProof
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("relay: decode account proof: %w", err)
	}
	if len(p.AccountProof) == 0 {
		return nil, fmt.Errorf("relay: account proof for %s is empty", p.Address.Hex())
	}
	return &p, nil
}

// ProofInputs encodes the proof for a header already relayed at blockNumber.
func (p *AccountProof) ProofInputs(blockNumber uint64) ProofInputs {
	in := ProofInputs{
		AccountOptions: AccountOptions,
		BlockNumber:    blockNumber,
		EthAddress:     sx.IntsSequenceFromBytes(p.Address.Bytes()),
		SizesBytes:     make([]uint64, len(p.AccountProof)),
		SizesWords:     make([]uint64, len(p.AccountProof)),
	}
	for i, node := range p.AccountProof {
		words := sx.IntsSequenceFromBytes(node)
		in.SizesBytes[i] = uint64(words.BytesLength)
		in.SizesWords[i] = uint64(len(words.Values))
		in.AccountProof = append(in.AccountProof, words.Values...)
	}
	return in
}
