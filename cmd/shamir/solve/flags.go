// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package solve

import (
	"errors"

	"github.com/spf13/pflag"
)

const (
	InputKey   = "input"
	WorkersKey = "workers"
	JSONKey    = "json"
)

var errMissingInput = errors.New("an input file is required")

func AddFlags(flags *pflag.FlagSet) {
	flags.String(InputKey, "", "Path of the challenge file to solve (required)")
	flags.Int(WorkersKey, 0, "Number of goroutines to crack with; 0 or 1 cracks sequentially")
	flags.Bool(JSONKey, false, "Print the full result as JSON instead of the report lines")
}

type Config struct {
	Input   string
	Workers int
	JSON    bool
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	input, err := flags.GetString(InputKey)
	if err != nil {
		return nil, err
	}
	if input == "" {
		return nil, errMissingInput
	}

	workers, err := flags.GetInt(WorkersKey)
	if err != nil {
		return nil, err
	}

	asJSON, err := flags.GetBool(JSONKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		Input:   input,
		Workers: workers,
		JSON:    asJSON,
	}, nil
}
