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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-blockcipher/internal/config"
	"github.com/jeremyhahn/go-blockcipher/internal/encoding"
	"github.com/jeremyhahn/go-blockcipher/pkg/block"
	"github.com/jeremyhahn/go-blockcipher/pkg/correlation"
	"github.com/jeremyhahn/go-blockcipher/pkg/metrics"
)

// newEncryptCmd creates the encrypt command
func newEncryptCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt <text>",
		Short: "Encrypt text",
		Long: `Encrypt text with the selected cipher and mode. The ciphertext is
printed as lowercase hex, four digits per 16-bit code unit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCipher(cmd, cfg, metrics.OpEncrypt, args[0])
		},
	}
	addCipherFlags(cmd)
	return cmd
}

// newDecryptCmd creates the decrypt command
func newDecryptCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt <hex>",
		Short: "Decrypt hex ciphertext",
		Long: `Decrypt ciphertext produced by encrypt with the same cipher, key,
seed and mode, and print the recovered text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCipher(cmd, cfg, metrics.OpDecrypt, args[0])
		},
	}
	addCipherFlags(cmd)
	return cmd
}

// addCipherFlags registers the flags shared by every cipher command.
// Defaults are shown for reference; only flags that are set override the
// configuration file.
func addCipherFlags(cmd *cobra.Command) {
	def := config.Default()
	flags := cmd.Flags()
	flags.String("cipher", def.Engine.Cipher, "Cipher (feistel, sp, rsa)")
	flags.String("mode", def.Engine.Mode, "Mode (ecb, cbc, cfb, ofb, ecb-parallel, cbc-parallel)")
	flags.String("key", def.Feistel.Key, "Key string for the feistel and sp ciphers")
	flags.Int("rounds", def.Feistel.Rounds, "Round count for the feistel and sp ciphers")
	flags.String("seed", def.Engine.Seed, "Seed string for the initial chaining value or register")
	flags.Int("max-blocks", def.Engine.MaxBlocks, "Maximum message length in blocks (0 disables the bound)")
	flags.Int("workers", def.Executor.Workers, "Worker count for parallel modes")
	flags.Int("batch-size", def.Executor.BatchSize, "Blocks per executor batch for parallel modes")
	flags.String("modulus", "", "RSA modulus (decimal)")
	flags.String("public-exponent", "", "RSA public exponent (decimal)")
	flags.String("private-exponent", "", "RSA private exponent (decimal)")
}

// runCipher executes one encrypt or decrypt command
func runCipher(cmd *cobra.Command, cfg *Config, op, arg string) (err error) {
	sess, err := cfg.newSession()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.close(context.WithoutCancel(cmd.Context())); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx, id := correlation.Ensure(cmd.Context())
	cfg.printVerbose(cmd.ErrOrStderr(), "operation %s: %s with %s/%s", id, op, sess.cipherName(), sess.mode)

	var (
		out    []uint16
		result string
	)
	switch op {
	case metrics.OpEncrypt:
		out, err = sess.encrypt(ctx, block.UnitsFromString(arg))
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
		result = encoding.EncodeUnits(out)
	default:
		in, derr := encoding.DecodeUnits(arg)
		if derr != nil {
			return derr
		}
		out, err = sess.decrypt(ctx, in)
		if err != nil {
			return fmt.Errorf("decrypt: %w", err)
		}
		result = block.UnitsToString(out)
	}

	printer := NewPrinter(cfg.OutputFormat, cmd.OutOrStdout())
	return printer.PrintResult(Result{
		Operation: op,
		Cipher:    sess.cipherName(),
		Mode:      sess.mode.String(),
		Output:    result,
		Units:     len(out),
	})
}
