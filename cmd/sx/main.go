// Command sx deploys Snapshot X spaces on StarkNet and relays Ethereum
// account proofs to the Fossil contracts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sx "github.com/branched-services/go-sx"
	"github.com/branched-services/go-sx/config"
	"github.com/branched-services/go-sx/rpc"
	"github.com/ethereum/go-ethereum/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
)

type globalFlags struct {
	network    string
	configFile string
	verbosity  int
	logJSON    bool
}

func main() {
	// Key material may be kept in a local .env file.
	_ = godotenv.Load()

	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "sx",
		Short: "Snapshot X deployment and Fossil relay tool",
		Long: `sx sends the multicall transactions that deploy Snapshot X spaces through
the space factory and that relay an L1 block header and account proof to the
Fossil contracts, then waits for each transaction to reach a terminal status.

Endpoints and the account are read from the network configuration or from
the SX_RPC_URL, SX_SIGNER_URL and SX_ACCOUNT_ADDRESS environment variables.`,
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(flags.verbosity, flags.logJSON)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.network, "network", "goerli", fmt.Sprintf("Embedded network configuration %v", config.Networks()))
	pf.StringVar(&flags.configFile, "config", "", "Network configuration file (overrides --network)")
	pf.IntVar(&flags.verbosity, "verbosity", 3, "Log level: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace")
	pf.BoolVar(&flags.logJSON, "log.json", false, "Format logs as JSON")

	rootCmd.AddCommand(
		newDeployCmd(&flags),
		newRelayCmd(&flags),
		newStatusCmd(&flags),
		newCalldataCmd(&flags),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(verbosity int, asJSON bool) {
	if verbosity <= 0 {
		log.SetDefault(log.NewLogger(log.DiscardHandler()))
		return
	}
	level := log.FromLegacyLevel(verbosity)

	var handler slog.Handler
	if asJSON {
		handler = log.JSONHandlerWithLevel(os.Stderr, level)
	} else {
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, true)
	}
	log.SetDefault(log.NewLogger(handler))
}

func loadNetwork(flags *globalFlags) (*config.Network, error) {
	if flags.configFile != "" {
		return config.Load(flags.configFile)
	}
	return config.Default(flags.network)
}

// session holds the connections a submitting command needs.
type session struct {
	client    *rpc.Client
	signer    *rpc.RemoteSigner
	submitter *sx.Submitter
}

func (s *session) Close() {
	s.signer.Close()
	s.client.Close()
}

func connect(ctx context.Context, n *config.Network) (*session, error) {
	if err := n.ValidateRemote(); err != nil {
		return nil, err
	}
	address, err := n.Account()
	if err != nil {
		return nil, err
	}
	client, err := rpc.DialContext(ctx, n.RPCURL)
	if err != nil {
		return nil, err
	}
	signer, err := rpc.DialSigner(ctx, n.SignerURL, n.SignMethod)
	if err != nil {
		client.Close()
		return nil, err
	}

	logger := log.Root().New("network", n.Name)
	account := rpc.NewAccount(client, address, signer, logger)
	opts := append(n.SubmitterOptions(), sx.WithLogger(logger))
	return &session{
		client:    client,
		signer:    signer,
		submitter: sx.NewSubmitter(account, client, opts...),
	}, nil
}
