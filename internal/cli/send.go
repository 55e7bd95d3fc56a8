package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/HaseeebA/volley/internal/config"
	"github.com/HaseeebA/volley/internal/dispatch"
	"github.com/HaseeebA/volley/internal/gateway"
	"github.com/HaseeebA/volley/internal/output"
)

var sendCmd = newSendCmd()

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send NUMBER",
		Short: "Send a single message to the specified number",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			number := args[0]
			token, _ := cmd.Flags().GetString("token")
			message, _ := cmd.Flags().GetString("message")
			baseURL, _ := cmd.Flags().GetString("base-url")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			verbose, _ := cmd.Flags().GetBool("verbose")
			noColor, _ := cmd.Flags().GetBool("no-color")

			if token == "" {
				fmt.Println("Error: token is required")
				cmd.Help()
				return
			}

			if message == "" {
				fmt.Println("Error: message is required")
				cmd.Help()
				return
			}

			if !noColor && !output.SupportsColor() {
				noColor = true
			}
			formatter := output.NewFormatter(verbose, noColor)

			client := gateway.NewClient(baseURL, gateway.WithTimeout(timeout))

			task := dispatch.Task{
				ID: 1,
				Message: gateway.Message{
					Token:  token,
					Text:   message,
					Number: number,
				},
			}

			// A single send runs through the same pipeline as a batch
			dispatcher := dispatch.New(client,
				dispatch.WithConcurrency(1),
				dispatch.WithOnResult(func(r dispatch.Result) {
					fmt.Print(formatter.FormatResult(&r))
				}),
			)

			result := dispatcher.Run(commandContext(cmd), []dispatch.Task{task})
			if result.Failed > 0 {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().String("token", "", "Credential token for the send (required)")
	cmd.Flags().StringP("message", "m", "", "Message text to send (required)")
	cmd.Flags().String("base-url", config.DefaultBaseURL, "Gateway address")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "Request timeout")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.Flags().Bool("no-color", false, "Disable colored output")

	return cmd
}
