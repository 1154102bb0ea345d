// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/blinklabs-io/witan/event"
)

// ApiConfig holds the API server configuration.
type ApiConfig struct {
	ListenAddress string
}

// Api is the council REST API server.
type Api struct {
	config     ApiConfig
	logger     *slog.Logger
	service    CouncilService
	events     *event.EventBus
	httpServer *http.Server
	mu         sync.Mutex
}

// New creates a new API server instance. The event bus is optional; when
// nil the watch endpoint reports itself unavailable.
func New(
	cfg ApiConfig,
	service CouncilService,
	events *event.EventBus,
	logger *slog.Logger,
) *Api {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":3000"
	}
	return &Api{
		config:  cfg,
		logger:  logger,
		service: service,
		events:  events,
	}
}

// Start starts the HTTP server in a background goroutine.
func (a *Api) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}

	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.routes(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Bind the socket first so port conflicts surface immediately
	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.logger.Info(
		"council API listener started on " +
			a.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()

		if srv != nil {
			a.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown API server on "+
						"context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (a *Api) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()

	if srv != nil {
		a.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown API server: %w",
				err,
			)
		}
	}
	return nil
}

func (a *Api) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("POST /api/v1/login", a.handleLogin)
	mux.HandleFunc(
		"GET /api/v1/provinces",
		a.handleListProvinces,
	)
	mux.HandleFunc(
		"GET /api/v1/proposals",
		a.handleListProposals,
	)
	mux.HandleFunc("POST /api/v1/laws", a.handleCreateLaw)
	mux.HandleFunc(
		"POST /api/v1/budgets",
		a.handleCreateBudget,
	)
	mux.HandleFunc(
		"GET /api/v1/proposals/{id}",
		a.handleGetProposal,
	)
	mux.HandleFunc(
		"GET /api/v1/proposals/{id}/tally",
		a.handleTally,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/votes",
		a.handleCastVote,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/end-early",
		a.handleEndVotingEarly,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/withdraw",
		a.handleWithdraw,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/amendments",
		a.handleSubmitAmendment,
	)
	mux.HandleFunc(
		"GET /api/v1/proposals/{id}/amendments",
		a.handleListAmendments,
	)
	mux.HandleFunc(
		"GET /api/v1/proposals/{id}/amendments/{amendment_id}/diff",
		a.handleAmendmentDiff,
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/record",
		a.handleRecordLaw,
	)
	mux.HandleFunc(
		"GET /api/v1/dashboard",
		a.handleDashboard,
	)
	mux.HandleFunc(
		"GET /api/v1/scribe/pending",
		a.handleScribePending,
	)
	mux.HandleFunc("GET /api/v1/lawbook", a.handleLawBook)
	mux.HandleFunc(
		"GET /api/v1/lawbook/{number}",
		a.handleLawRecord,
	)
	mux.HandleFunc("GET /api/v1/watch", a.handleWatch)
	return mux
}

// startServer binds the listening socket, then serves in a background
// goroutine.
func (a *Api) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}
