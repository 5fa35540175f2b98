// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/luxfi/shamir/config"
)

const (
	ListenKey = "listen"
	ConfigKey = "config"
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(ListenKey, "", "Address to listen on; overrides the config file")
	flags.String(ConfigKey, "", "Path of a JSON config file overlaying the defaults")
}

// ParseFlags resolves the service config: defaults, then the config
// file, then the listen flag.
func ParseFlags(flags *pflag.FlagSet, args []string) (config.Config, error) {
	if err := flags.Parse(args); err != nil {
		return config.Config{}, err
	}

	configPath, err := flags.GetString(ConfigKey)
	if err != nil {
		return config.Config{}, err
	}

	var configBytes []byte
	if configPath != "" {
		configBytes, err = os.ReadFile(configPath)
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.ParseConfig(configBytes)
	if err != nil {
		return config.Config{}, err
	}

	listen, err := flags.GetString(ListenKey)
	if err != nil {
		return config.Config{}, err
	}
	if listen != "" {
		cfg.ListenAddr = listen
	}

	return cfg, cfg.Validate()
}
