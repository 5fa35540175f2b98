// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/luxfi/log"
	"github.com/luxfi/shamir/config"
)

const (
	// Endpoint is the path the shamir service is mounted at.
	Endpoint = "/ext/shamir"

	maxConcurrentStreams = 64
)

// Server hosts the JSON-RPC handler over HTTP. It serves traffic on the
// listener it is given until Shutdown is called.
type Server struct {
	log             log.Logger
	shutdownTimeout time.Duration

	srv      *http.Server
	listener net.Listener
}

// NewServer mounts [handler] at Endpoint behind the configured CORS
// policy and an h2c layer, so HTTP/2 works without TLS.
func NewServer(
	logger log.Logger,
	listener net.Listener,
	cfg config.Config,
	handler http.Handler,
) *Server {
	router := mux.NewRouter()
	router.Handle(Endpoint, handler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(router)

	logger.Info("API created with allowed origins: " + strings.Join(cfg.AllowedOrigins, ","))

	return &Server{
		log:             logger,
		shutdownTimeout: cfg.ShutdownTimeout,
		srv: &http.Server{
			Handler: h2c.NewHandler(
				corsHandler,
				&http2.Server{
					MaxConcurrentStreams: maxConcurrentStreams,
				}),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		listener: listener,
	}
}

// Dispatch starts the API server and blocks until the listener closes.
func (s *Server) Dispatch() error {
	s.log.Info("dispatching API server",
		log.String("address", s.listener.Addr().String()),
	)
	return s.srv.Serve(s.listener)
}

// Shutdown drains in-flight requests for up to the shutdown timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}
