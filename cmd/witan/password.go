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

	"github.com/blinklabs-io/witan/database"
	"github.com/blinklabs-io/witan/internal/config"
	"github.com/spf13/cobra"
)

var passwordFlags = struct {
	province string
	password string
}{}

func passwordRun(cfg *config.Config) {
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

	if err := db.SetProvincePassword(
		passwordFlags.province,
		passwordFlags.password,
		nil,
	); err != nil {
		slog.Error(fmt.Sprintf("setting password: %s", err))
		os.Exit(1)
	}
	logger.Info(
		"password updated",
		"component", programName,
		"province", passwordFlags.province,
	)
}

func passwordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Set the login password for a province",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			passwordRun(cfg)
		},
	}
	cmd.Flags().
		StringVar(&passwordFlags.province, "province", "", "province name")
	cmd.Flags().
		StringVar(&passwordFlags.password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("province")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
