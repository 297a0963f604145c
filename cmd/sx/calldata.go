package main

import (
	"encoding/json"
	"fmt"

	sx "github.com/branched-services/go-sx"
	"github.com/branched-services/go-sx/relay"
	"github.com/branched-services/go-sx/space"
	"github.com/spf13/cobra"
)

// dryRun is the output of the calldata command: one step per transaction,
// in the order they have to be sent.
type dryRun struct {
	Steps []dryRunStep `json:"steps"`
}

// dryRunStep is one transaction. Calldata is the account __execute__
// calldata of its multicall.
type dryRunStep struct {
	Calls    []dryRunCall `json:"calls"`
	Calldata []string     `json:"calldata"`
}

type dryRunCall struct {
	To         sx.Felt   `json:"to"`
	Entrypoint string    `json:"entrypoint"`
	Selector   sx.Felt   `json:"selector"`
	Calldata   []sx.Felt `json:"calldata"`
}

// planStep compiles calls into a transaction of their own.
func planStep(calls ...sx.Call) (dryRunStep, error) {
	planner := sx.New()
	planner.AddAll(calls...)
	plan, err := planner.Plan()
	if err != nil {
		return dryRunStep{}, err
	}
	step := dryRunStep{Calldata: plan.CalldataHex()}
	for _, c := range plan.Calls {
		step.Calls = append(step.Calls, dryRunCall{
			To:         c.To(),
			Entrypoint: c.Entrypoint(),
			Selector:   c.Selector(),
			Calldata:   c.Calldata(),
		})
	}
	return step, nil
}

func newCalldataCmd(flags *globalFlags) *cobra.Command {
	var (
		files    relayFlags
		useRelay bool
	)

	cmd := &cobra.Command{
		Use:   "calldata",
		Short: "Print the multicall a command would send, without sending it",
		Long: `calldata builds the deploy-spaces multicall (or, with --relay, the two
relay transactions, header first) from the network configuration and prints
each transaction as JSON. Nothing is signed or sent, so no endpoint or account
is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork(flags)
			if err != nil {
				return err
			}

			// The header has to be accepted before the proof can be checked,
			// so a relay is two transactions.
			var batches [][]sx.Call
			if useRelay {
				if err := fossilContracts(n); err != nil {
					return err
				}
				block, proof, err := files.load()
				if err != nil {
					return err
				}
				header, prove, err := relay.Calls(n.Fossil.L1HeadersStore, n.Fossil.FactRegistry, block, proof)
				if err != nil {
					return err
				}
				batches = [][]sx.Call{{header}, {prove}}
			} else {
				configs, err := n.SpaceConfigs()
				if err != nil {
					return err
				}
				calls, err := space.DeploySpaceCalls(n.SpaceFactory.Address, configs)
				if err != nil {
					return err
				}
				batches = [][]sx.Call{calls}
			}

			var out dryRun
			for _, calls := range batches {
				step, err := planStep(calls...)
				if err != nil {
					return err
				}
				out.Steps = append(out.Steps, step)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("write calldata: %w", err)
			}
			return nil
		},
	}
	files.register(cmd)
	cmd.Flags().BoolVar(&useRelay, "relay", false, "Print the relay-proof calls instead of deploy-spaces")
	return cmd
}
