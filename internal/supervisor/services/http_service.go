// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout applies when NewHTTPServerService gets a
// non-positive timeout.
const DefaultShutdownTimeout = 10 * time.Second

// errServerStopped marks a ListenAndServe that returned without the
// service context being canceled.
var errServerStopped = errors.New("http server stopped")

// HTTPServer is the lifecycle surface of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the mealplan API under the api layer.
//
//	server := &http.Server{Addr: cfg.Server.Addr(), Handler: router}
//	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewHTTPServerService wraps server. addr is only used for logging.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, addr string, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &HTTPServerService{
		server:          server,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("component", "http").Str("addr", addr).Logger(),
	}
}

// Serve implements suture.Service. It listens until ctx is canceled and
// then drains in-flight requests for up to the shutdown timeout.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		h.logger.Info().Msg("API listening")
		err := h.server.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return errServerStopped
		}
		return err
	})

	var shutdownErr error
	g.Go(func() error {
		<-gctx.Done()
		// gctx is already done; draining needs its own deadline.
		sctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		shutdownErr = h.server.Shutdown(sctx)
		return nil
	})

	err := g.Wait()
	if ctx.Err() != nil {
		if shutdownErr != nil {
			return fmt.Errorf("http server shutdown failed: %w", shutdownErr)
		}
		h.logger.Info().Msg("API stopped")
		return ctx.Err()
	}
	if errors.Is(err, errServerStopped) {
		return nil
	}
	return fmt.Errorf("http server failed: %w", err)
}

// String implements fmt.Stringer for suture's logs.
func (h *HTTPServerService) String() string {
	return "http-server"
}
