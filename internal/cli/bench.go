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
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-blockcipher/pkg/correlation"
	"github.com/jeremyhahn/go-blockcipher/pkg/metrics"
	"github.com/jeremyhahn/go-blockcipher/pkg/mode"
)

// DefaultBenchBlocks is the message length used by bench when --blocks is not given
const DefaultBenchBlocks = 3000

// newBenchCmd creates the bench command
func newBenchCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare sequential and parallel modes",
		Long: `Encrypt and decrypt an N-block message through the sequential and
the batched parallel paths of ECB and CBC, report both timings and whether
the outputs match. The message length bound is lifted for the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks, _ := cmd.Flags().GetInt("blocks")
			return runBench(cmd, cfg, blocks)
		},
	}
	addCipherFlags(cmd)
	cmd.Flags().Int("blocks", DefaultBenchBlocks, "Message length in blocks")
	return cmd
}

func runBench(cmd *cobra.Command, cfg *Config, blocks int) (err error) {
	if blocks < 1 {
		return fmt.Errorf("invalid block count: %d", blocks)
	}

	sess, err := cfg.newSession(mode.WithMaxBlocks(0))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.close(context.WithoutCancel(cmd.Context())); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if sess.engine == nil {
		return fmt.Errorf("bench supports the feistel and sp ciphers, not %s", sess.cipherName())
	}

	ctx, id := correlation.Ensure(cmd.Context())
	cfg.printVerbose(cmd.ErrOrStderr(), "operation %s: bench %s over %d blocks", id, sess.cipherName(), blocks)

	stopCollector := metrics.StartResourceCollector(ctx, 100*time.Millisecond, func() {
		metrics.SetPoolWorkers(sess.pool.Workers())
	})
	defer stopCollector()

	e := sess.engine
	msg := benchMessage(blocks * e.BlockUnits())

	ecb, err := e.EncryptECB(msg)
	if err != nil {
		return err
	}
	cbc, err := e.EncryptCBC(msg)
	if err != nil {
		return err
	}

	pairs := []struct {
		name       string
		sequential func() ([]uint16, error)
		parallel   func() ([]uint16, error)
	}{
		{
			name:       "ecb-encrypt",
			sequential: func() ([]uint16, error) { return e.EncryptECB(msg) },
			parallel:   func() ([]uint16, error) { return e.EncryptECBParallel(ctx, msg) },
		},
		{
			name:       "ecb-decrypt",
			sequential: func() ([]uint16, error) { return e.DecryptECB(ecb) },
			parallel:   func() ([]uint16, error) { return e.DecryptECBParallel(ctx, ecb) },
		},
		{
			name:       "cbc-decrypt",
			sequential: func() ([]uint16, error) { return e.DecryptCBC(cbc) },
			parallel:   func() ([]uint16, error) { return e.DecryptCBCParallel(ctx, cbc) },
		},
	}

	results := make([]BenchResult, 0, len(pairs))
	for _, pair := range pairs {
		seq, seqTime, err := timed(pair.sequential)
		if err != nil {
			return fmt.Errorf("%s: %w", pair.name, err)
		}
		par, parTime, err := timed(pair.parallel)
		if err != nil {
			return fmt.Errorf("%s parallel: %w", pair.name, err)
		}
		results = append(results, BenchResult{
			Operation:  pair.name,
			Blocks:     blocks,
			Sequential: seqTime,
			Parallel:   parTime,
			Match:      slices.Equal(seq, par),
		})
	}

	return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintBench(sess.cipherName(), results)
}

func timed(fn func() ([]uint16, error)) ([]uint16, time.Duration, error) {
	start := time.Now()
	out, err := fn()
	return out, time.Since(start), err
}

// benchMessage returns n lowercase letters as code units. No unit is zero,
// so decryption recovers the full length.
func benchMessage(n int) []uint16 {
	return lo.Times(n, func(i int) uint16 {
		return uint16('a' + i%26)
	})
}
