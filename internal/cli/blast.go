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

var blastCmd = newBlastCmd()

func newBlastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blast",
		Short: "Send every message in a batch through the worker pool",
		Long: `Blast loads a batch file, validates it, and sends every message
through a bounded pool of workers. Results stream to stdout as sends
complete; the run ends with the completion notice and total time.

Partial failures do not abort the batch and do not change the exit
code. Configuration and usage errors exit 1.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runBlast(cmd); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringP("config", "c", "", "Batch file to send (required)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Maximum in-flight sends (overrides the batch file)")
	cmd.Flags().String("base-url", "", "Gateway address (overrides the batch file)")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "Per-request timeout, 0 to disable (overrides the batch file)")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json, or yaml")
	cmd.Flags().StringP("output", "o", "", "Also write a report file (.json or .yaml)")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.Flags().Bool("no-color", false, "Disable colored output")

	return cmd
}

func runBlast(cmd *cobra.Command) error {
	flags := cmd.Flags()

	configFile, _ := flags.GetString("config")
	if configFile == "" {
		return fmt.Errorf("config file is required")
	}

	formatName, _ := flags.GetString("format")
	format, err := output.ParseOutputFormat(formatName)
	if err != nil {
		return err
	}

	batch, err := config.Load(configFile)
	if err != nil {
		return err
	}
	config.ApplyDefaults(batch)

	// Flag overrides beat file settings
	if flags.Changed("concurrency") {
		batch.Settings.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("base-url") {
		batch.Settings.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		batch.Settings.Timeout = config.Duration(timeout)
	}

	if err := batch.Validate(); err != nil {
		return err
	}

	tasks, err := buildTasks(batch)
	if err != nil {
		return err
	}

	dispatchOptions := []dispatch.Option{
		dispatch.WithConcurrency(batch.Settings.Concurrency),
	}

	if batch.Response != nil {
		check, err := buildCheck(batch.Response)
		if err != nil {
			return err
		}
		dispatchOptions = append(dispatchOptions, dispatch.WithCheck(check))
	}

	verbose, _ := flags.GetBool("verbose")
	noColor, _ := flags.GetBool("no-color")
	if !noColor && !output.SupportsColor() {
		noColor = true
	}
	formatter := output.NewFormatter(verbose, noColor)

	// Stream per-task blocks only in text mode; structured formats
	// print one report at the end instead.
	if format == output.FormatText {
		dispatchOptions = append(dispatchOptions, dispatch.WithOnResult(func(r dispatch.Result) {
			fmt.Print(formatter.FormatResult(&r))
		}))
	}

	dispatcher := dispatch.New(buildClient(&batch.Settings), dispatchOptions...)
	result := dispatcher.Run(commandContext(cmd), tasks)

	if format == output.FormatText {
		fmt.Print(formatter.FormatSummary(result))
	} else {
		rendered, err := output.NewReport(batch.Name, result).Render(format)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
	}

	if reportFile, _ := flags.GetString("output"); reportFile != "" {
		if err := writeReport(reportFile, batch.Name, result); err != nil {
			return err
		}
	}

	return nil
}

// buildTasks turns batch messages into dispatch tasks, resolving
// account aliases to their tokens.
func buildTasks(batch *config.Batch) ([]dispatch.Task, error) {
	tasks := make([]dispatch.Task, 0, len(batch.Messages))
	for i, m := range batch.Messages {
		token, ok := batch.ResolveToken(m)
		if !ok {
			return nil, fmt.Errorf("messages[%d]: unknown account: %s", i, m.Account)
		}
		tasks = append(tasks, dispatch.Task{
			ID:      i + 1,
			Account: m.Account,
			Message: gateway.Message{
				Token:  token,
				Text:   m.Message,
				Number: m.Number.String(),
			},
		})
	}
	return tasks, nil
}

// buildClient creates the gateway client for a batch.
func buildClient(settings *config.Settings) *gateway.Client {
	options := []gateway.ClientOption{
		gateway.WithTimeout(time.Duration(settings.Timeout)),
	}
	if settings.UserAgent != "" {
		options = append(options, gateway.WithUserAgent(settings.UserAgent))
	}
	for key, value := range settings.Headers {
		options = append(options, gateway.WithHeader(key, value))
	}
	return gateway.NewClient(settings.BaseURL, options...)
}

// buildCheck compiles the configured response check.
func buildCheck(rc *config.ResponseConfig) (*gateway.Check, error) {
	schemaJSON, err := rc.SchemaJSON()
	if err != nil {
		return nil, err
	}
	return gateway.NewCheck(schemaJSON, rc.Extract)
}

// writeReport renders the structured report to a file; the extension
// picks JSON or YAML.
func writeReport(path, name string, result *dispatch.BatchResult) error {
	rendered, err := output.NewReport(name, result).Render(output.FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
