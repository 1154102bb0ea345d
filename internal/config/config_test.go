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
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		BindAddr:          "0.0.0.0",
		DataDir:           ".witan",
		ApiPort:           3000,
		MetricsPort:       12798,
		MaxAmendmentDepth: 2,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
bindAddr: "127.0.0.1"
dataDir: "/var/lib/witan"
apiPort: 8080
metricsPort: 8088
maxAmendmentDepth: 3
shutdownTimeout: "10s"
tracing: true
tracingStdout: true
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-witan.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	defer os.Remove(tmpFile)

	expected := &Config{
		BindAddr:          "127.0.0.1",
		DataDir:           "/var/lib/witan",
		ApiPort:           8080,
		MetricsPort:       8088,
		MaxAmendmentDepth: 3,
		ShutdownTimeout:   "10s",
		Tracing:           true,
		TracingStdout:     true,
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"config mismatch:\n  got: %+v\n  want: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_PartialOverlayKeepsDefaults(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
apiPort: 9000
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-witan.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	defer os.Remove(tmpFile)

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if actual.ApiPort != 9000 {
		t.Errorf("expected apiPort 9000, got %d", actual.ApiPort)
	}
	if actual.BindAddr != "0.0.0.0" {
		t.Errorf("expected default bindAddr, got %q", actual.BindAddr)
	}
	if actual.MaxAmendmentDepth != 2 {
		t.Errorf(
			"expected default maxAmendmentDepth, got %d",
			actual.MaxAmendmentDepth,
		)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	resetGlobalConfig()
	t.Setenv("WITAN_DATA_DIR", "/tmp/witan-env")
	t.Setenv("WITAN_MAX_AMENDMENT_DEPTH", "4")

	actual, err := LoadConfig("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if actual.DataDir != "/tmp/witan-env" {
		t.Errorf("expected env dataDir, got %q", actual.DataDir)
	}
	if actual.MaxAmendmentDepth != 4 {
		t.Errorf(
			"expected env maxAmendmentDepth 4, got %d",
			actual.MaxAmendmentDepth,
		)
	}
}

func TestLoad_InvalidAmendmentDepth(t *testing.T) {
	resetGlobalConfig()
	t.Setenv("WITAN_MAX_AMENDMENT_DEPTH", "0")

	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for zero maxAmendmentDepth")
	}
}
