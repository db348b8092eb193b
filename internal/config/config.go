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
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-blockcipher/pkg/asymmetric"
	"github.com/jeremyhahn/go-blockcipher/pkg/executor"
	"github.com/jeremyhahn/go-blockcipher/pkg/feistel"
	"github.com/jeremyhahn/go-blockcipher/pkg/logging"
	"github.com/jeremyhahn/go-blockcipher/pkg/mode"
	"github.com/jeremyhahn/go-blockcipher/pkg/sp"
)

// Supported cipher names
const (
	CipherFeistel    = feistel.Name
	CipherSP         = sp.Name
	CipherAsymmetric = asymmetric.Name
)

// Config represents the complete blockcipher configuration
type Config struct {
	Executor   ExecutorConfig    `yaml:"executor"`
	Engine     EngineConfig      `yaml:"engine"`
	Feistel    SymmetricConfig   `yaml:"feistel"`
	SP         SymmetricConfig   `yaml:"sp"`
	Asymmetric asymmetric.KeySet `yaml:"asymmetric"`
	Logging    LoggingConfig     `yaml:"logging"`
	Metrics    MetricsConfig     `yaml:"metrics"`
}

// ExecutorConfig sizes the batch executor
type ExecutorConfig struct {
	Workers                   int `yaml:"workers"`
	BatchSize                 int `yaml:"batch_size"`
	TimeoutSeconds            int `yaml:"timeout_seconds"`
	TerminationTimeoutSeconds int `yaml:"termination_timeout_seconds"`
}

// EngineConfig selects the cipher and mode and bounds message length
type EngineConfig struct {
	Cipher    string `yaml:"cipher"`
	Mode      string `yaml:"mode"`
	MaxBlocks int    `yaml:"max_blocks"`
	Seed      string `yaml:"seed"`
}

// SymmetricConfig keys a Feistel or SP cipher
type SymmetricConfig struct {
	Key    string `yaml:"key"`
	Rounds int    `yaml:"rounds"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig toggles metric recording
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Executor: ExecutorConfig{
			Workers:                   executor.DefaultWorkers,
			BatchSize:                 executor.DefaultBatchSize,
			TimeoutSeconds:            int(executor.DefaultTimeout / time.Second),
			TerminationTimeoutSeconds: int(executor.DefaultTerminationTimeout / time.Second),
		},
		Engine: EngineConfig{
			Cipher:    CipherFeistel,
			Mode:      mode.CBC.String(),
			MaxBlocks: mode.DefaultMaxBlocks,
			Seed:      mode.DefaultSeed,
		},
		Feistel: SymmetricConfig{Key: feistel.DefaultKey, Rounds: feistel.DefaultRounds},
		SP:      SymmetricConfig{Key: sp.DefaultKey, Rounds: sp.DefaultRounds},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads configuration from a YAML file over the defaults, applies
// environment variable overrides and validates the result. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation, for callers that layer further
// overrides before calling Validate.
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 - Config file path is provided by the user
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies BLOCKCIPHER_* environment variables to the configuration
func applyEnvOverrides(cfg *Config) {
	// Executor
	envInt("BLOCKCIPHER_WORKERS", &cfg.Executor.Workers)
	envInt("BLOCKCIPHER_BATCH_SIZE", &cfg.Executor.BatchSize)
	envInt("BLOCKCIPHER_TIMEOUT_SECONDS", &cfg.Executor.TimeoutSeconds)
	envInt("BLOCKCIPHER_TERMINATION_TIMEOUT_SECONDS", &cfg.Executor.TerminationTimeoutSeconds)

	// Engine
	envString("BLOCKCIPHER_CIPHER", &cfg.Engine.Cipher)
	envString("BLOCKCIPHER_MODE", &cfg.Engine.Mode)
	envInt("BLOCKCIPHER_MAX_BLOCKS", &cfg.Engine.MaxBlocks)
	envString("BLOCKCIPHER_SEED", &cfg.Engine.Seed)

	// Keys
	envString("BLOCKCIPHER_FEISTEL_KEY", &cfg.Feistel.Key)
	envInt("BLOCKCIPHER_FEISTEL_ROUNDS", &cfg.Feistel.Rounds)
	envString("BLOCKCIPHER_SP_KEY", &cfg.SP.Key)
	envInt("BLOCKCIPHER_SP_ROUNDS", &cfg.SP.Rounds)
	envString("BLOCKCIPHER_MODULUS", &cfg.Asymmetric.Modulus)
	envString("BLOCKCIPHER_PUBLIC_EXPONENT", &cfg.Asymmetric.PublicExponent)
	envString("BLOCKCIPHER_PRIVATE_EXPONENT", &cfg.Asymmetric.PrivateExponent)

	// Logging
	envString("BLOCKCIPHER_LOG_LEVEL", &cfg.Logging.Level)
	envString("BLOCKCIPHER_LOG_FORMAT", &cfg.Logging.Format)

	// Metrics
	if enabled := os.Getenv("BLOCKCIPHER_METRICS_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			log.Printf("Warning: invalid BLOCKCIPHER_METRICS_ENABLED value %q, using default %t: %v",
				enabled, cfg.Metrics.Enabled, err)
		} else {
			cfg.Metrics.Enabled = v
		}
	}
}

func envString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, using default %d: %v", name, raw, *dst, err)
		return
	}
	*dst = v
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Executor
	if c.Executor.Workers < 1 {
		return fmt.Errorf("invalid executor workers: %d", c.Executor.Workers)
	}
	if c.Executor.BatchSize < 1 {
		return fmt.Errorf("invalid executor batch_size: %d", c.Executor.BatchSize)
	}
	if c.Executor.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid executor timeout_seconds: %d", c.Executor.TimeoutSeconds)
	}
	if c.Executor.TerminationTimeoutSeconds < 1 {
		return fmt.Errorf("invalid executor termination_timeout_seconds: %d", c.Executor.TerminationTimeoutSeconds)
	}

	// Engine
	validCiphers := map[string]bool{
		CipherFeistel: true, CipherSP: true, CipherAsymmetric: true,
	}
	if !validCiphers[strings.ToLower(c.Engine.Cipher)] {
		return fmt.Errorf("invalid cipher: %s (must be feistel, sp, or rsa)", c.Engine.Cipher)
	}
	if _, err := mode.ParseMode(c.Engine.Mode); err != nil {
		return fmt.Errorf("invalid engine mode: %w", err)
	}
	if c.Engine.MaxBlocks < 0 {
		return fmt.Errorf("invalid engine max_blocks: %d", c.Engine.MaxBlocks)
	}
	if c.Engine.Seed == "" {
		return fmt.Errorf("engine seed must be specified")
	}

	// Symmetric rounds
	if c.Feistel.Rounds < 1 {
		return fmt.Errorf("invalid feistel rounds: %d", c.Feistel.Rounds)
	}
	if c.SP.Rounds < 1 {
		return fmt.Errorf("invalid sp rounds: %d", c.SP.Rounds)
	}

	// The asymmetric cipher needs its modulus up front
	if strings.EqualFold(c.Engine.Cipher, CipherAsymmetric) && c.Asymmetric.Modulus == "" {
		return fmt.Errorf("asymmetric modulus is required when cipher is rsa")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	return nil
}

// PoolOptions converts the executor section into pool options.
func (c *Config) PoolOptions() []executor.Option {
	return []executor.Option{
		executor.WithWorkers(c.Executor.Workers),
		executor.WithBatchSize(c.Executor.BatchSize),
		executor.WithTimeout(time.Duration(c.Executor.TimeoutSeconds) * time.Second),
		executor.WithTerminationTimeout(time.Duration(c.Executor.TerminationTimeoutSeconds) * time.Second),
	}
}

// EngineOptions converts the engine section into engine options.
func (c *Config) EngineOptions() []mode.Option {
	return []mode.Option{
		mode.WithSeed(c.Engine.Seed),
		mode.WithMaxBlocks(c.Engine.MaxBlocks),
	}
}

// Mode returns the configured mode of operation.
func (c *Config) Mode() (mode.Mode, error) {
	return mode.ParseMode(c.Engine.Mode)
}

// Logger builds a logger from the logging section.
func (c *Config) Logger() *logging.Logger {
	return logging.New(logging.Options{Level: c.Logging.Level, Format: c.Logging.Format})
}

// FeistelCipher builds the configured Feistel cipher.
func (c *Config) FeistelCipher() (*feistel.Cipher, error) {
	return feistel.NewCipher(c.Feistel.Key, feistel.WithRounds(c.Feistel.Rounds))
}

// SPCipher builds the configured SP-network cipher.
func (c *Config) SPCipher() (*sp.Cipher, error) {
	return sp.NewCipher(c.SP.Key, sp.WithRounds(c.SP.Rounds))
}
