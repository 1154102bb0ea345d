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

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/witan/council"
	"github.com/blinklabs-io/witan/database"
	"github.com/blinklabs-io/witan/database/models"
	"github.com/blinklabs-io/witan/internal/config"
	"github.com/spf13/cobra"
)

func seedRun(cfg *config.Config) {
	logger := commonRun()

	db, err := database.New(database.Config{
		DataDir: cfg.DataDir,
		Logger:  logger,
	})
	if err != nil {
		slog.Error(fmt.Sprintf("opening database: %s", err))
		os.Exit(1)
	}
	defer db.Close()

	for _, seed := range council.DefaultProvinces() {
		err := db.SetProvince(
			&models.Province{
				Name:        seed.Name,
				CouncilType: string(seed.CouncilType),
				Weight:      seed.Weight,
			},
			nil,
		)
		if err != nil {
			slog.Error(fmt.Sprintf("seeding province: %s", err))
			os.Exit(1)
		}
		// Initial well-known password, flagged for reset on first
		// login. Provinces that already have one keep it.
		if err := db.SeedProvincePassword(seed.Name, nil); err != nil {
			slog.Error(fmt.Sprintf("seeding password: %s", err))
			os.Exit(1)
		}
		logger.Info(
			"seeded province",
			"component", programName,
			"province", seed.Name,
			"council_type", string(seed.CouncilType),
			"weight", seed.Weight,
		)
	}
}

func seedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the default council roster",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			seedRun(cfg)
		},
	}
	return cmd
}
