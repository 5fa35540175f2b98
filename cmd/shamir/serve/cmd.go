// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"
	metric "github.com/luxfi/metric"
	"github.com/luxfi/shamir/api"
	"github.com/luxfi/shamir/metrics"
	"github.com/luxfi/shamir/store"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Hosts the solver behind the JSON-RPC API",
		RunE:  serveFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func serveFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	cfg, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	logger := log.NewLogger("shamir")

	registry := metric.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return err
	}
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	service := api.NewService(api.Config{
		Log:       logger,
		Store:     store.New(memdb.New()),
		Metrics:   m,
		Workers:   cfg.Workers,
		MaxShares: cfg.MaxShares,
		CacheSize: cfg.ResultCacheSize,
	})
	handler, err := api.NewHandler(service)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}
	server := api.NewServer(logger, listener, cfg, handler)

	dispatched := make(chan error, 1)
	go func() {
		dispatched <- server.Dispatch()
	}()

	select {
	case <-c.Context().Done():
		logger.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			return err
		}
		err := <-dispatched
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-dispatched:
		return err
	}
}
