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
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package witan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/witan/api"
	"github.com/blinklabs-io/witan/database"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/event"
	"github.com/blinklabs-io/witan/lifecycle"
	"github.com/blinklabs-io/witan/scribe"
)

// Node is the assembled council governance engine: storage, the
// proposal lifecycle, the scribe's law book queue, the event bus, and
// the REST API surface.
type Node struct {
	eventBus      *event.EventBus
	db            *database.Database
	lifecycle     *lifecycle.Manager
	scribe        *scribe.Queue
	api           *api.Api
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Node, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	n := &Node{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

func (n *Node) Run(ctx context.Context) error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(database.Config{
		DataDir:      n.config.dataDir,
		Logger:       n.config.logger,
		PromRegistry: n.config.promRegistry,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.db = db
	// Seed the council roster. The upsert leaves stored password
	// hashes untouched on restart
	if err := n.seedProvinces(); err != nil {
		return fmt.Errorf("failed to seed provinces: %w", err)
	}
	// Proposal lifecycle
	n.lifecycle = lifecycle.New(lifecycle.Config{
		Database:          n.db,
		EventBus:          n.eventBus,
		Logger:            n.config.logger,
		PromRegistry:      n.config.promRegistry,
		MaxAmendmentDepth: n.config.maxAmendmentDepth,
	})
	// Scribe law book queue
	n.scribe = scribe.New(scribe.Config{
		Database: n.db,
		EventBus: n.eventBus,
		Logger:   n.config.logger,
	})
	// Council REST API
	if n.config.apiListenAddress != "" {
		n.api = api.New(
			api.ApiConfig{
				ListenAddress: n.config.apiListenAddress,
			},
			&councilService{
				db:        n.db,
				lifecycle: n.lifecycle,
				scribe:    n.scribe,
			},
			n.eventBus,
			n.config.logger,
		)
		//nolint:contextcheck
		if err := n.api.Start(context.Background()); err != nil {
			return err
		}
	}

	// Wait for shutdown
	select {
	case <-ctx.Done():
	case <-n.done:
	}
	return nil
}

// Lifecycle returns the node's proposal lifecycle manager.
func (n *Node) Lifecycle() *lifecycle.Manager {
	return n.lifecycle
}

// Scribe returns the node's law book queue.
func (n *Node) Scribe() *scribe.Queue {
	return n.scribe
}

// Database returns the node's database.
func (n *Node) Database() *database.Database {
	return n.db
}

func (n *Node) seedProvinces() error {
	for _, seed := range n.config.provinces {
		err := n.db.SetProvince(
			&models.Province{
				Name:        seed.Name,
				CouncilType: string(seed.CouncilType),
				Weight:      seed.Weight,
			},
			nil,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Phase 1: Stop accepting new work
	n.config.logger.Debug("shutdown phase 1: stopping new work")

	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Phase 2: Flush state and close database
	n.config.logger.Debug("shutdown phase 2: flushing state")

	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(
				err,
				fmt.Errorf("database close: %w", closeErr),
			)
		}
	}

	// Phase 3: Cleanup resources
	n.config.logger.Debug("shutdown phase 3: cleanup resources")

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}
