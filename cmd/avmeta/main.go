// Package main provides the CLI entry point for avmeta.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd, cc := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	cc.close()

	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
