package main

import (
	"fmt"

	"github.com/branched-services/go-sx/space"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
)

func newDeployCmd(flags *globalFlags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "deploy-spaces",
		Short: "Deploy the configured spaces in one multicall and record their addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNetwork(flags)
			if err != nil {
				return err
			}
			if outDir != "" {
				n.DeploymentsDir = outDir
			}
			factory, err := n.Factory()
			if err != nil {
				return err
			}
			configs, err := n.SpaceConfigs()
			if err != nil {
				return err
			}
			fee, err := n.MaxFeeWei()
			if err != nil {
				return err
			}

			s, err := connect(cmd.Context(), n)
			if err != nil {
				return err
			}
			defer s.Close()

			store := space.NewFileStore(n.DeploymentsDir)
			deployer := space.NewDeployer(s.submitter,
				space.WithStore(store),
				space.WithLogger(log.Root().New("network", n.Name)),
			)
			rec, err := deployer.Deploy(cmd.Context(), n.Name, factory, configs, fee)
			// The spaces exist on chain even when the record could not be
			// written, so print them before reporting the error.
			if rec != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Deployed %d spaces in %s\n", len(rec.Spaces), rec.TransactionHash)
				for _, sp := range rec.Spaces {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-40s %s\n", sp.Name, sp.Address)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Record written to %s\n", store.Path(n.Name))
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "Directory of the deployment record (default from config)")
	return cmd
}
