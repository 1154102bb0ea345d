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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/witan/council"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry      prometheus.Registerer
	logger            *slog.Logger
	dataDir           string
	apiListenAddress  string
	provinces         []council.ProvinceSeed
	maxAmendmentDepth int
	tracing           bool
	tracingStdout     bool
	shutdownTimeout   time.Duration
}

func (n *Node) configValidate() error {
	if n.config.maxAmendmentDepth < 1 {
		return fmt.Errorf(
			"invalid max amendment depth: %d",
			n.config.maxAmendmentDepth,
		)
	}
	if len(n.config.provinces) == 0 {
		return errors.New("no provinces defined")
	}
	for _, province := range n.config.provinces {
		if province.Name == "" {
			return errors.New("province must provide a name")
		}
		if !province.CouncilType.Valid() {
			return fmt.Errorf(
				"invalid council type for province %s: %s",
				province.Name,
				province.CouncilType,
			)
		}
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new witan config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
		provinces:         council.DefaultProvinces(),
		maxAmendmentDepth: council.DefaultMaxAmendmentDepth,
		apiListenAddress:  ":3000",
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithDataDir specifies the persistent data directory. An empty value
// keeps all state in memory
func WithDataDir(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithApiListenAddress specifies the listen address for the council REST
// API. An empty value disables the API listener
func WithApiListenAddress(address string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = address
	}
}

// WithProvinces specifies the council roster seeded at startup
func WithProvinces(provinces []council.ProvinceSeed) ConfigOptionFunc {
	return func(c *Config) {
		c.provinces = provinces
	}
}

// WithMaxAmendmentDepth specifies how deep amendment nesting may go
func WithMaxAmendmentDepth(depth int) ConfigOptionFunc {
	return func(c *Config) {
		c.maxAmendmentDepth = depth
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer for metrics
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* environment variables
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
