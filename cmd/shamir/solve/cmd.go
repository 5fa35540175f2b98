// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package solve

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luxfi/log"
	"github.com/luxfi/shamir/challenge"
	"github.com/luxfi/shamir/cracker"
)

var errNoConsensus = errors.New("no subset of shares reached consensus")

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "solve",
		Short: "Cracks a challenge file and reports the secret and corrupted shares",
		RunE:  solveFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

// report is the JSON form of a solve, printed with --json.
type report struct {
	Secret       string              `json:"secret,omitempty"`
	Faulty       []uint64            `json:"faulty,omitempty"`
	Confidence   float64             `json:"confidence"`
	Combinations uint64              `json:"combinations"`
	Interpolated uint64              `json:"interpolated"`
	Agreeing     uint64              `json:"agreeing"`
	Dropped      []challenge.Dropped `json:"dropped,omitempty"`
}

func solveFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	config, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	document, err := os.ReadFile(config.Input)
	if err != nil {
		return err
	}
	parsed, err := challenge.Parse(document)
	if err != nil {
		return err
	}

	logger := log.NewLogger("shamir")
	shares, dropped := parsed.Decode(logger)

	solver := cracker.Cracker{Workers: config.Workers}
	result, err := solver.Crack(c.Context(), shares)
	if err != nil {
		return err
	}

	if config.JSON {
		out := report{
			Confidence:   result.Confidence,
			Combinations: result.Diagnostics.Combinations,
			Interpolated: result.Diagnostics.Interpolated,
			Agreeing:     result.Diagnostics.Agreeing,
			Dropped:      dropped,
		}
		if result.Secret != nil {
			out.Secret = result.Secret.String()
			out.Faulty = result.FaultyIDs()
		}
		encoded, err := json.MarshalIndent(out, "", "    ")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), string(encoded))
	} else {
		if result.Secret != nil {
			fmt.Fprintf(c.OutOrStdout(), "Secret: %s\n", result.Secret)
			fmt.Fprintf(c.OutOrStdout(), "Wrong Points: %s\n", formatIDs(result.FaultyIDs()))
		}
	}

	if result.Secret == nil {
		return errNoConsensus
	}
	return nil
}

// formatIDs renders faulty identifiers ascending, or "None".
func formatIDs(ids []uint64) string {
	if len(ids) == 0 {
		return "None"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ", ")
}
