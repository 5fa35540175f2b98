// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the solver service configuration.
package config

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrInvalidListenAddr = errors.New("invalid listen address configuration")
	ErrInvalidWorkers    = errors.New("invalid workers configuration")
	ErrInvalidMaxShares  = errors.New("invalid max shares configuration")
	ErrInvalidTimeout    = errors.New("invalid timeout configuration")
	ErrInvalidCacheSize  = errors.New("invalid cache size configuration")
)

// Config holds configuration for the solver service.
type Config struct {
	// Network settings
	ListenAddr     string   `json:"listenAddr"` // Default: 127.0.0.1:9670
	AllowedOrigins []string `json:"allowedOrigins"`

	// HTTP timeouts
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"`

	// Solver settings
	Workers   int `json:"workers"`   // 0 or 1 cracks sequentially
	MaxShares int `json:"maxShares"` // Largest share count accepted over the API

	// Result cache
	ResultCacheSize int `json:"resultCacheSize"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddr:        "127.0.0.1:9670",
		AllowedOrigins:    []string{"*"},
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		Workers:           1,
		MaxShares:         24,
		ResultCacheSize:   64,
	}
}

// Validate validates the configuration. It never modifies it; defaults
// come from DefaultConfig and the ParseConfig overlay.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrInvalidListenAddr
	}

	if c.Workers < 0 {
		return ErrInvalidWorkers
	}

	// A threshold of at least 2 needs at least 2 shares.
	if c.MaxShares < 2 {
		return ErrInvalidMaxShares
	}

	for _, d := range []time.Duration{
		c.ReadTimeout,
		c.ReadHeaderTimeout,
		c.WriteTimeout,
		c.IdleTimeout,
		c.ShutdownTimeout,
	} {
		if d < 0 {
			return ErrInvalidTimeout
		}
	}

	if c.ResultCacheSize < 1 {
		return ErrInvalidCacheSize
	}

	return nil
}

// ParseConfig parses configuration from JSON bytes, overlaying the
// defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
