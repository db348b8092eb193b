// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-blockcipher.
//
// go-blockcipher is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeremyhahn/go-blockcipher/pkg/executor"
	"github.com/jeremyhahn/go-blockcipher/pkg/mode"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

// TestLoad_Success tests successful loading of a valid config file
func TestLoad_Success(t *testing.T) {
	configPath := writeConfig(t, `
executor:
  workers: 4
  batch_size: 250
  timeout_seconds: 5
  termination_timeout_seconds: 2

engine:
  cipher: "sp"
  mode: "ecb-parallel"
  max_blocks: 0
  seed: "initial"

feistel:
  key: "feistel key"
  rounds: 8

sp:
  key: "sp key"
  rounds: 12

asymmetric:
  modulus: "4295229443"
  public_exponent: "5"
  private_exponent: "1717986917"

logging:
  level: "debug"
  format: "json"

metrics:
  enabled: false
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Executor.Workers != 4 {
		t.Errorf("Executor.Workers = %d, want 4", cfg.Executor.Workers)
	}
	if cfg.Executor.BatchSize != 250 {
		t.Errorf("Executor.BatchSize = %d, want 250", cfg.Executor.BatchSize)
	}
	if cfg.Executor.TimeoutSeconds != 5 {
		t.Errorf("Executor.TimeoutSeconds = %d, want 5", cfg.Executor.TimeoutSeconds)
	}
	if cfg.Engine.Cipher != "sp" {
		t.Errorf("Engine.Cipher = %q, want sp", cfg.Engine.Cipher)
	}
	if cfg.Engine.MaxBlocks != 0 {
		t.Errorf("Engine.MaxBlocks = %d, want 0", cfg.Engine.MaxBlocks)
	}
	if cfg.Engine.Seed != "initial" {
		t.Errorf("Engine.Seed = %q, want initial", cfg.Engine.Seed)
	}
	if cfg.Feistel.Key != "feistel key" || cfg.Feistel.Rounds != 8 {
		t.Errorf("Feistel = %+v", cfg.Feistel)
	}
	if cfg.SP.Key != "sp key" || cfg.SP.Rounds != 12 {
		t.Errorf("SP = %+v", cfg.SP)
	}
	if cfg.Asymmetric.Modulus != "4295229443" {
		t.Errorf("Asymmetric.Modulus = %q", cfg.Asymmetric.Modulus)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}

	m, err := cfg.Mode()
	if err != nil {
		t.Fatalf("Mode() error = %v", err)
	}
	if m != mode.ECBParallel {
		t.Errorf("Mode() = %v, want %v", m, mode.ECBParallel)
	}
}

// TestLoad_PartialFileKeepsDefaults tests that omitted sections keep their defaults
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	configPath := writeConfig(t, `
engine:
  mode: "ofb"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := Default()
	if cfg.Engine.Mode != "ofb" {
		t.Errorf("Engine.Mode = %q, want ofb", cfg.Engine.Mode)
	}
	if cfg.Engine.Cipher != def.Engine.Cipher {
		t.Errorf("Engine.Cipher = %q, want %q", cfg.Engine.Cipher, def.Engine.Cipher)
	}
	if cfg.Executor != def.Executor {
		t.Errorf("Executor = %+v, want %+v", cfg.Executor, def.Executor)
	}
	if cfg.Feistel != def.Feistel {
		t.Errorf("Feistel = %+v, want %+v", cfg.Feistel, def.Feistel)
	}
}

// TestLoad_EmptyPath tests that an empty path yields the defaults
func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

// TestLoad_FileNotFound tests error handling when config file doesn't exist
func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %v, want read error", err)
	}
}

// TestLoad_InvalidYAML tests error handling for malformed YAML
func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "executor:\n  workers: [1, 2\n")

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

// TestLoad_ValidationFailure tests that invalid values are rejected
func TestLoad_ValidationFailure(t *testing.T) {
	configPath := writeConfig(t, `
executor:
  workers: 0
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Load() error = %v, want validation error", err)
	}
}

// TestRead_SkipsValidation tests that Read leaves validation to the caller
func TestRead_SkipsValidation(t *testing.T) {
	configPath := writeConfig(t, `
engine:
  cipher: "rsa"
`)

	cfg, err := Read(configPath)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() error = nil, want missing modulus")
	}

	cfg.Asymmetric.Modulus = "4295229443"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

// TestLoad_WithEnvOverrides tests that environment variables win over the file
func TestLoad_WithEnvOverrides(t *testing.T) {
	configPath := writeConfig(t, `
executor:
  workers: 4
engine:
  cipher: "feistel"
logging:
  level: "info"
`)

	t.Setenv("BLOCKCIPHER_WORKERS", "16")
	t.Setenv("BLOCKCIPHER_CIPHER", "sp")
	t.Setenv("BLOCKCIPHER_LOG_LEVEL", "warn")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Executor.Workers != 16 {
		t.Errorf("Executor.Workers = %d, want 16", cfg.Executor.Workers)
	}
	if cfg.Engine.Cipher != "sp" {
		t.Errorf("Engine.Cipher = %q, want sp", cfg.Engine.Cipher)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

// TestApplyEnvOverrides tests each environment variable
func TestApplyEnvOverrides(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(*Config) bool
	}{
		{
			name:  "batch size",
			env:   map[string]string{"BLOCKCIPHER_BATCH_SIZE": "99"},
			check: func(c *Config) bool { return c.Executor.BatchSize == 99 },
		},
		{
			name: "timeouts",
			env: map[string]string{
				"BLOCKCIPHER_TIMEOUT_SECONDS":             "0",
				"BLOCKCIPHER_TERMINATION_TIMEOUT_SECONDS": "3",
			},
			check: func(c *Config) bool {
				return c.Executor.TimeoutSeconds == 0 && c.Executor.TerminationTimeoutSeconds == 3
			},
		},
		{
			name: "engine",
			env: map[string]string{
				"BLOCKCIPHER_MODE":       "cfb",
				"BLOCKCIPHER_MAX_BLOCKS": "7",
				"BLOCKCIPHER_SEED":       "iv",
			},
			check: func(c *Config) bool {
				return c.Engine.Mode == "cfb" && c.Engine.MaxBlocks == 7 && c.Engine.Seed == "iv"
			},
		},
		{
			name: "symmetric keys",
			env: map[string]string{
				"BLOCKCIPHER_FEISTEL_KEY":    "k1",
				"BLOCKCIPHER_FEISTEL_ROUNDS": "4",
				"BLOCKCIPHER_SP_KEY":         "k2",
				"BLOCKCIPHER_SP_ROUNDS":      "6",
			},
			check: func(c *Config) bool {
				return c.Feistel == SymmetricConfig{Key: "k1", Rounds: 4} &&
					c.SP == SymmetricConfig{Key: "k2", Rounds: 6}
			},
		},
		{
			name: "asymmetric keys",
			env: map[string]string{
				"BLOCKCIPHER_MODULUS":          "77",
				"BLOCKCIPHER_PUBLIC_EXPONENT":  "7",
				"BLOCKCIPHER_PRIVATE_EXPONENT": "43",
			},
			check: func(c *Config) bool {
				return c.Asymmetric.Modulus == "77" &&
					c.Asymmetric.PublicExponent == "7" &&
					c.Asymmetric.PrivateExponent == "43"
			},
		},
		{
			name:  "log format",
			env:   map[string]string{"BLOCKCIPHER_LOG_FORMAT": "json"},
			check: func(c *Config) bool { return c.Logging.Format == "json" },
		},
		{
			name:  "metrics disabled",
			env:   map[string]string{"BLOCKCIPHER_METRICS_ENABLED": "false"},
			check: func(c *Config) bool { return !c.Metrics.Enabled },
		},
		{
			name:  "invalid integer keeps default",
			env:   map[string]string{"BLOCKCIPHER_WORKERS": "many"},
			check: func(c *Config) bool { return c.Executor.Workers == executor.DefaultWorkers },
		},
		{
			name:  "invalid bool keeps default",
			env:   map[string]string{"BLOCKCIPHER_METRICS_ENABLED": "sometimes"},
			check: func(c *Config) bool { return c.Metrics.Enabled },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg := Default()
			applyEnvOverrides(cfg)

			if !tt.check(cfg) {
				t.Errorf("applyEnvOverrides() = %+v", cfg)
			}
		})
	}
}

// TestValidate tests validation of every section
func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unbounded messages", func(c *Config) { c.Engine.MaxBlocks = 0 }, false},
		{"no batch timeout", func(c *Config) { c.Executor.TimeoutSeconds = 0 }, false},
		{"uppercase cipher", func(c *Config) { c.Engine.Cipher = "SP" }, false},
		{"uppercase level", func(c *Config) { c.Logging.Level = "INFO" }, false},
		{"uppercase format", func(c *Config) { c.Logging.Format = "JSON" }, false},
		{"rsa with modulus", func(c *Config) {
			c.Engine.Cipher = "rsa"
			c.Asymmetric.Modulus = "4295229443"
		}, false},
		{"zero workers", func(c *Config) { c.Executor.Workers = 0 }, true},
		{"zero batch size", func(c *Config) { c.Executor.BatchSize = 0 }, true},
		{"negative timeout", func(c *Config) { c.Executor.TimeoutSeconds = -1 }, true},
		{"zero termination timeout", func(c *Config) { c.Executor.TerminationTimeoutSeconds = 0 }, true},
		{"unknown cipher", func(c *Config) { c.Engine.Cipher = "des" }, true},
		{"unknown mode", func(c *Config) { c.Engine.Mode = "ctr" }, true},
		{"negative max blocks", func(c *Config) { c.Engine.MaxBlocks = -1 }, true},
		{"empty seed", func(c *Config) { c.Engine.Seed = "" }, true},
		{"zero feistel rounds", func(c *Config) { c.Feistel.Rounds = 0 }, true},
		{"zero sp rounds", func(c *Config) { c.SP.Rounds = 0 }, true},
		{"rsa without modulus", func(c *Config) { c.Engine.Cipher = "rsa" }, true},
		{"invalid level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"empty level", func(c *Config) { c.Logging.Level = "" }, true},
		{"invalid format", func(c *Config) { c.Logging.Format = "console" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() error = nil, want error")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

// TestPoolOptions tests conversion of the executor section
func TestPoolOptions(t *testing.T) {
	cfg := Default()
	cfg.Executor = ExecutorConfig{Workers: 3, BatchSize: 7, TimeoutSeconds: 2, TerminationTimeoutSeconds: 1}

	pool := executor.NewPool(cfg.PoolOptions()...)
	if pool.Size() != 3 {
		t.Errorf("Size() = %d, want 3", pool.Size())
	}
	if pool.Workers() != 0 {
		t.Errorf("Workers() = %d before Init, want 0", pool.Workers())
	}
	if pool.BatchSize() != 7 {
		t.Errorf("BatchSize() = %d, want 7", pool.BatchSize())
	}
	if pool.Timeout() != 2*time.Second {
		t.Errorf("Timeout() = %v, want 2s", pool.Timeout())
	}

	if err := pool.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() { _ = pool.Shutdown(context.Background()) }()
	if pool.Workers() != 3 {
		t.Errorf("Workers() = %d after Init, want 3", pool.Workers())
	}
}

// TestCiphers tests that the configured ciphers build and drive an engine
func TestCiphers(t *testing.T) {
	cfg := Default()

	f, err := cfg.FeistelCipher()
	if err != nil {
		t.Fatalf("FeistelCipher() error = %v", err)
	}
	s, err := cfg.SPCipher()
	if err != nil {
		t.Fatalf("SPCipher() error = %v", err)
	}

	ciphers := map[string]mode.Cipher{CipherFeistel: f, CipherSP: s}
	for name, c := range ciphers {
		opts := append(cfg.EngineOptions(), mode.WithLogger(cfg.Logger()))
		e, err := mode.New(c, opts...)
		if err != nil {
			t.Fatalf("mode.New() error = %v", err)
		}
		if e.Name() != name {
			t.Errorf("Name() = %q, want %q", e.Name(), name)
		}
	}
}
