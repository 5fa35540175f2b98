// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// shamir is the command-line front end of the solver: it cracks
// challenge files directly and hosts the JSON-RPC API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luxfi/shamir"
	"github.com/luxfi/shamir/cmd/shamir/serve"
	"github.com/luxfi/shamir/cmd/shamir/solve"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:     "shamir",
		Short:   "Recovers secrets from threshold share sets and flags corrupted shares",
		Version: shamir.Version,
	}
	root.AddCommand(
		solve.Command(),
		serve.Command(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
