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

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-blockcipher/internal/config"
)

// EnvPrefix prefixes every environment variable the CLI reads
const EnvPrefix = "BLOCKCIPHER"

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the YAML configuration file
	ConfigFile string

	// OutputFormat controls output formatting (text, json)
	OutputFormat string

	// Verbose enables verbose logging
	Verbose bool

	v *viper.Viper
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &Config{
		OutputFormat: string(OutputFormatText),
		v:            v,
	}
}

// bindFlags exposes the flags of the running command to viper
func (c *Config) bindFlags(cmd *cobra.Command) error {
	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	return nil
}

// Settings loads the configuration file and layers flags and
// BLOCKCIPHER_* environment variables over it.
func (c *Config) Settings() (*config.Config, error) {
	s, err := config.Read(c.ConfigFile)
	if err != nil {
		return nil, err
	}

	c.overlayString("cipher", &s.Engine.Cipher)
	c.overlayString("mode", &s.Engine.Mode)
	c.overlayString("seed", &s.Engine.Seed)
	c.overlayInt("max-blocks", &s.Engine.MaxBlocks)
	c.overlayInt("workers", &s.Executor.Workers)
	c.overlayInt("batch-size", &s.Executor.BatchSize)
	c.overlayString("modulus", &s.Asymmetric.Modulus)
	c.overlayString("public-exponent", &s.Asymmetric.PublicExponent)
	c.overlayString("private-exponent", &s.Asymmetric.PrivateExponent)

	s.Engine.Cipher = strings.ToLower(s.Engine.Cipher)
	switch s.Engine.Cipher {
	case config.CipherFeistel:
		c.overlayString("key", &s.Feistel.Key)
		c.overlayInt("rounds", &s.Feistel.Rounds)
	case config.CipherSP:
		c.overlayString("key", &s.SP.Key)
		c.overlayInt("rounds", &s.SP.Rounds)
	}

	if c.Verbose {
		s.Logging.Level = "debug"
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

func (c *Config) overlayString(key string, dst *string) {
	if c.v.IsSet(key) {
		*dst = c.v.GetString(key)
	}
}

func (c *Config) overlayInt(key string, dst *int) {
	if c.v.IsSet(key) {
		*dst = c.v.GetInt(key)
	}
}

// printVerbose prints a message if verbose mode is enabled
func (c *Config) printVerbose(w io.Writer, format string, args ...interface{}) {
	if c.Verbose {
		fmt.Fprintf(w, "[VERBOSE] "+format+"\n", args...)
	}
}

// validateOutput rejects unknown output formats before any work is done
func (c *Config) validateOutput() error {
	switch OutputFormat(c.OutputFormat) {
	case OutputFormatText, OutputFormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format: %s (must be text or json)", c.OutputFormat)
	}
}
