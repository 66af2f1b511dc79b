// Package main runs the turnout comparison: equal turnout against a
// protest-reduced turnout for bloc A, reporting whether the challenger's
// win probability changes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	turnoutcmd "github.com/louisbranch/turnout/internal/cmd/turnout"
	entrypoint "github.com/louisbranch/turnout/internal/platform/cmd"
	"github.com/louisbranch/turnout/internal/platform/config"
)

func main() {
	cfg, err := turnoutcmd.ParseConfig()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTurnout, func(ctx context.Context) error {
		return turnoutcmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
	if err != nil {
		stop()
		config.ExitError(err)
	}
}
