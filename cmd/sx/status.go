package main

import (
	"fmt"

	sx "github.com/branched-services/go-sx"
	"github.com/branched-services/go-sx/config"
	"github.com/branched-services/go-sx/rpc"
	"github.com/spf13/cobra"
)

func newStatusCmd(flags *globalFlags) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "status <tx-hash>",
		Short: "Show the status of a transaction, optionally waiting for a terminal one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := sx.FeltFromHex(args[0])
			if err != nil {
				return err
			}
			n, err := loadNetwork(flags)
			if err != nil {
				return err
			}
			if n.RPCURL == "" {
				return fmt.Errorf("no RPC endpoint: set %s", config.EnvRPCURL)
			}
			client, err := rpc.DialContext(cmd.Context(), n.RPCURL)
			if err != nil {
				return err
			}
			defer client.Close()

			var r *sx.Receipt
			if wait {
				// Waiting needs no account: the submitter only polls.
				s := sx.NewSubmitter(nil, client, n.SubmitterOptions()...)
				r, err = s.WaitForTransaction(cmd.Context(), hash)
			} else {
				r, err = client.TransactionReceipt(cmd.Context(), hash)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", r.TransactionHash, r.Status)
			if r.Reason != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  reason: %s\n", r.Reason)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  events: %d\n", len(r.Events))
			return nil
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until the transaction reaches a terminal status")
	return cmd
}
