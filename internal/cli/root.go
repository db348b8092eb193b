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
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the blockcipher command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(NewConfig())
}

func newRootCmd(cfg *Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blockcipher",
		Short: "go-blockcipher CLI - Block cipher modes of operation",
		Long: `go-blockcipher CLI encrypts and decrypts text with educational
block ciphers driven through the classic modes of operation.

Supported ciphers:
  - feistel: 16-round Feistel network over 128-bit blocks
  - sp:      Rijndael-layer SP network over 128-bit blocks
  - rsa:     textbook modular exponentiation keyed by decimal integers

Supported modes:
  ecb, cbc, cfb, ofb, ecb-parallel, cbc-parallel`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateOutput(); err != nil {
				return err
			}
			return cfg.bindFlags(cmd)
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "",
		"config file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&cfg.OutputFormat, "output", "o", string(OutputFormatText),
		"output format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false,
		"verbose output")

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd(cfg))
	rootCmd.AddCommand(newEncryptCmd(cfg))
	rootCmd.AddCommand(newDecryptCmd(cfg))
	rootCmd.AddCommand(newBenchCmd(cfg))

	return rootCmd
}

// Execute runs the root command. Errors are printed in the selected
// output format before being returned.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := NewConfig()
	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		printer := NewPrinter(cfg.OutputFormat, os.Stderr)
		_ = printer.PrintError(err) // Error printing to stderr is best-effort
		return err
	}
	return nil
}
