package relay

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
)

var errAccountAbsent = errors.New("proof shows the account does not exist")

// VerifyAccountProof checks the proof against stateRoot and that the proven
// account matches the declared nonce, balance, storage hash and code hash.
// It catches a stale or mismatched proof before anything is sent on chain.
func VerifyAccountProof(stateRoot common.Hash, p *AccountProof) (*types.StateAccount, error) {
	db := memorydb.New()
	for _, node := range p.AccountProof {
		if err := db.Put(crypto.Keccak256(node), node); err != nil {
			return nil, err
		}
	}

	key := crypto.Keccak256(p.Address.Bytes())
	value, err := trie.VerifyProof(stateRoot, key, db)
	if err != nil {
		return nil, fmt.Errorf("relay: account proof for %s: %w", p.Address.Hex(), err)
	}
	if len(value) == 0 {
		return nil, fmt.Errorf("relay: account proof for %s: %w", p.Address.Hex(), errAccountAbsent)
	}

	var account types.StateAccount
	if err := rlp.DecodeBytes(value, &account); err != nil {
		return nil, fmt.Errorf("relay: decode proven account: %w", err)
	}

	switch {
	case account.Nonce != uint64(p.Nonce):
		return nil, fmt.Errorf("relay: proven nonce %d, declared %d", account.Nonce, uint64(p.Nonce))
	case p.Balance != nil && account.Balance.ToBig().Cmp(p.Balance.ToInt()) != 0:
		return nil, fmt.Errorf("relay: proven balance %s, declared %s", account.Balance.Dec(), p.Balance.ToInt())
	case account.Root != p.StorageHash:
		return nil, fmt.Errorf("relay: proven storage hash %s, declared %s", account.Root.Hex(), p.StorageHash.Hex())
	case !bytes.Equal(account.CodeHash, p.CodeHash.Bytes()):
		return nil, fmt.Errorf("relay: proven code hash %x, declared %s", account.CodeHash, p.CodeHash.Hex())
	}
	return &account, nil
}
