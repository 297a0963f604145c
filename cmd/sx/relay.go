package main

import (
	"fmt"
	"os"

	"github.com/branched-services/go-sx/config"
	"github.com/branched-services/go-sx/relay"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
)

type relayFlags struct {
	blockFile string
	proofFile string
}

func (f *relayFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.blockFile, "block", "test/data/blockGoerli.json", "eth_getBlockByNumber result of the L1 block")
	cmd.Flags().StringVar(&f.proofFile, "proof", "test/data/proofsGoerli.json", "eth_getProof result of the account at that block")
}

func (f *relayFlags) load() (*relay.Block, *relay.AccountProof, error) {
	bf, err := os.Open(f.blockFile)
	if err != nil {
		return nil, nil, fmt.Errorf("block fixture: %w", err)
	}
	defer bf.Close()
	block, err := relay.LoadBlock(bf)
	if err != nil {
		return nil, nil, err
	}

	pf, err := os.Open(f.proofFile)
	if err != nil {
		return nil, nil, fmt.Errorf("proof fixture: %w", err)
	}
	defer pf.Close()
	proof, err := relay.LoadProof(pf)
	if err != nil {
		return nil, nil, err
	}
	return block, proof, nil
}

func fossilContracts(n *config.Network) error {
	if n.Fossil.L1HeadersStore.IsZero() || n.Fossil.FactRegistry.IsZero() {
		return fmt.Errorf("network %s has no Fossil contracts configured", n.Name)
	}
	return nil
}

func newRelayCmd(flags *globalFlags) *cobra.Command {
	var (
		files  relayFlags
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "relay-proof",
		Short: "Relay an L1 block header, then prove an account against it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork(flags)
			if err != nil {
				return err
			}
			if err := fossilContracts(n); err != nil {
				return err
			}
			fee, err := n.MaxFeeWei()
			if err != nil {
				return err
			}
			block, proof, err := files.load()
			if err != nil {
				return err
			}

			s, err := connect(cmd.Context(), n)
			if err != nil {
				return err
			}
			defer s.Close()

			opts := []relay.Option{relay.WithLogger(log.Root().New("network", n.Name))}
			if verify {
				opts = append(opts, relay.WithProofCheck())
			}
			relayer := relay.NewRelayer(s.submitter, n.Fossil.L1HeadersStore, n.Fossil.FactRegistry, opts...)
			res, err := relayer.Relay(cmd.Context(), block, proof, fee)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Block %d relayed\n", res.BlockNumber)
			fmt.Fprintf(cmd.OutOrStdout(), "  process_block  %s\n", res.Header.TransactionHash)
			fmt.Fprintf(cmd.OutOrStdout(), "  prove_account  %s\n", res.Proof.TransactionHash)
			return nil
		},
	}
	files.register(cmd)
	cmd.Flags().BoolVar(&verify, "verify", false, "Check the account proof against the header's state root before sending")
	return cmd
}
