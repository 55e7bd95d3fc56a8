package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/HaseeebA/volley/internal/cli"
)

// Main wraps the CLI so tests can invoke it and check the exit code.
func Main() int {
	// Ctrl-C stops queueing and drains in-flight sends before exit
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(Main())
}
