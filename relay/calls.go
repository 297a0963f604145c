package relay

import (
	"fmt"

	sx "github.com/branched-services/go-sx"
)

// Fossil entrypoints.
const (
	ProcessBlockEntrypoint = "process_block"
	ProveAccountEntrypoint = "prove_account"
)

// addressWords is the IntsSequence length of a 20 byte Ethereum address.
const addressWords = 3

// ProcessBlockCall returns the headers store call ingesting a block header:
//
//	block_options, block_number, header bytes length, len, header words
func ProcessBlockCall(headersStore sx.Felt, in ProcessBlockInputs) (sx.Call, error) {
	calldata, err := sx.NewCalldataBuilder().
		Uint64("block_options", in.BlockOptions).
		Uint64("block_number", in.BlockNumber).
		Value("header_ints", in.HeaderInts).
		Build()
	if err != nil {
		return sx.Call{}, err
	}
	return sx.NewContract(headersStore, ProcessBlockEntrypoint).Call(ProcessBlockEntrypoint, calldata)
}

// ProveAccountCall returns the fact registry call proving an account:
//
//	account_options, block_number, address words (3),
//	len, node byte sizes, len, node word sizes, len, proof words
func ProveAccountCall(factRegistry sx.Felt, in ProofInputs) (sx.Call, error) {
	if len(in.EthAddress.Values) != addressWords {
		return sx.Call{}, &sx.SchemaMismatchError{
			Field: "eth_address",
			Err:   fmt.Errorf("expected %d words, got %d", addressWords, len(in.EthAddress.Values)),
		}
	}
	if len(in.SizesBytes) != len(in.SizesWords) {
		return sx.Call{}, &sx.CardinalityMismatchError{What: "proof node sizes", Want: len(in.SizesBytes), Got: len(in.SizesWords)}
	}

	b := sx.NewCalldataBuilder().
		Uint64("account_options", in.AccountOptions).
		Uint64("block_number", in.BlockNumber)
	for i, w := range in.EthAddress.Values {
		b.Uint64(fmt.Sprintf("eth_address[%d]", i), w)
	}
	calldata, err := b.
		Words("account_proof_sizes_bytes", in.SizesBytes).
		Words("account_proof_sizes_words", in.SizesWords).
		Words("account_proof", in.AccountProof).
		Build()
	if err != nil {
		return sx.Call{}, err
	}
	return sx.NewContract(factRegistry, ProveAccountEntrypoint).Call(ProveAccountEntrypoint, calldata)
}
