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
	"github.com/blinklabs-io/witan/internal/config"
	"github.com/spf13/cobra"
)

var provinceFlags = struct {
	province    string
	councilType string
	weight      float64
}{}

func provinceRun(cmd *cobra.Command, cfg *config.Config) {
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

	// Weight follows the seat type unless explicitly overridden
	var weightOverride *float64
	if cmd.Flags().Changed("weight") {
		weightOverride = &provinceFlags.weight
	}

	err = db.SetProvinceCouncilType(
		provinceFlags.province,
		council.CouncilType(provinceFlags.councilType),
		weightOverride,
		nil,
	)
	if err != nil {
		slog.Error(fmt.Sprintf("setting council type: %s", err))
		os.Exit(1)
	}
	logger.Info(
		"council type updated",
		"component", programName,
		"province", provinceFlags.province,
		"council_type", provinceFlags.councilType,
	)
}

func provinceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "province",
		Short: "Change a province's council seat type",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			provinceRun(cmd, cfg)
		},
	}
	cmd.Flags().
		StringVar(&provinceFlags.province, "province", "", "province name")
	cmd.Flags().
		StringVar(&provinceFlags.councilType, "type", "", "council seat type")
	cmd.Flags().
		Float64Var(&provinceFlags.weight, "weight", 0, "override vote weight")
	_ = cmd.MarkFlagRequired("province")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
