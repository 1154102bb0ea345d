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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/witan/council"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "witan.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type Config struct {
	BindAddr          string `yaml:"bindAddr"                                        split_words:"true"`
	DataDir           string `yaml:"dataDir"                                         split_words:"true"`
	ShutdownTimeout   string `yaml:"shutdownTimeout"                                 split_words:"true"`
	ApiPort           uint   `yaml:"apiPort"           envconfig:"port"`
	MetricsPort       uint   `yaml:"metricsPort"                                     split_words:"true"`
	MaxAmendmentDepth int    `yaml:"maxAmendmentDepth" envconfig:"WITAN_MAX_AMENDMENT_DEPTH"`
	Tracing           bool   `yaml:"tracing"`
	TracingStdout     bool   `yaml:"tracingStdout"                                   split_words:"true"`
}

var globalConfig = &Config{
	BindAddr:          "0.0.0.0",
	DataDir:           ".witan",
	ApiPort:           3000,
	MetricsPort:       12798,
	MaxAmendmentDepth: council.DefaultMaxAmendmentDepth,
	ShutdownTimeout:   DefaultShutdownTimeout,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.witan/witan.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".witan", "witan.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/witan/witan.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/witan/witan.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Overlay config values onto existing defaults
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	err := envconfig.Process("witan", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}

	if globalConfig.MaxAmendmentDepth < 1 {
		return nil, fmt.Errorf(
			"invalid maxAmendmentDepth: %d (must be at least 1)",
			globalConfig.MaxAmendmentDepth,
		)
	}

	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
