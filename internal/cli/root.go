package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "volley",
	Short:   "A concurrent message blaster for send-message gateways",
	Version: version,
	Long: `Volley fires batches of messages at an HTTP send-message gateway
through a bounded worker pool. Batches come from a YAML or JSON file;
every send is reported with its worker, response, and timing, and the
run ends with aggregate latency statistics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command under ctx. Cancelling ctx stops
// queueing new sends; in-flight requests are interrupted and the pool
// drains before the command returns.
func ExecuteContext(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context. Cobra only sets one
// when the command runs through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	RootCmd.AddCommand(blastCmd)
	RootCmd.AddCommand(sendCmd)
}
