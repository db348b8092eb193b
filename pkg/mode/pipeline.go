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

package mode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
	"github.com/jeremyhahn/go-blockcipher/pkg/correlation"
	"github.com/jeremyhahn/go-blockcipher/pkg/executor"
	"github.com/jeremyhahn/go-blockcipher/pkg/logging"
	"github.com/jeremyhahn/go-blockcipher/pkg/metrics"
)

// blockFunc is a single-block transform with any key already bound.
type blockFunc func(block.Block) (block.Block, error)

// pipeline holds the chunking, chaining and batching shared by the
// symmetric and asymmetric engines. Plaintext chunks are plainUnits wide
// and ciphertext chunks cipherUnits wide; they are equal for symmetric
// ciphers.
type pipeline struct {
	codec       block.Codec
	plainUnits  int
	cipherUnits int
	seed        []uint16
	maxBlocks   int
	pool        *executor.Pool
	logger      *logging.Logger
	name        string
}

func newPipeline(cipher any, codec block.Codec, plainBits, cipherBits int, o *options) (*pipeline, error) {
	if codec == nil {
		return nil, invalidf("cipher has no codec")
	}
	if plainBits <= 0 || plainBits%16 != 0 {
		return nil, invalidf("block width %d is not a positive multiple of 16 bits", plainBits)
	}
	if cipherBits < plainBits {
		return nil, invalidf("ciphertext width %d is narrower than plaintext width %d", cipherBits, plainBits)
	}
	p := &pipeline{
		codec:       codec,
		plainUnits:  plainBits / 16,
		cipherUnits: (cipherBits + 15) / 16,
		maxBlocks:   o.maxBlocks,
		pool:        o.pool,
		name:        o.name,
	}
	if p.name == "" {
		if named, ok := cipher.(interface{ Name() string }); ok {
			p.name = named.Name()
		} else {
			p.name = fmt.Sprintf("%T", cipher)
		}
	}
	p.logger = o.logger.With(metrics.LabelCipher, p.name)

	seed, err := o.seedUnits(codec, p.plainUnits)
	if err != nil {
		return nil, fmt.Errorf("mode: seed: %w", err)
	}
	p.seed = seed
	return p, nil
}

func (p *pipeline) checkPlaintext(msg []uint16) error {
	if p.maxBlocks > 0 && len(msg) > p.maxBlocks*p.plainUnits {
		return fmt.Errorf("%w: %d units exceeds %d blocks of %d units",
			ErrMessageTooLong, len(msg), p.maxBlocks, p.plainUnits)
	}
	return nil
}

func (p *pipeline) checkCiphertext(msg []uint16) error {
	if len(msg)%p.cipherUnits != 0 {
		return fmt.Errorf("%w: %d units is not a multiple of %d",
			ErrInvalidLength, len(msg), p.cipherUnits)
	}
	if p.maxBlocks > 0 && len(msg) > p.maxBlocks*p.cipherUnits {
		return fmt.Errorf("%w: %d units exceeds %d blocks of %d units",
			ErrMessageTooLong, len(msg), p.maxBlocks, p.cipherUnits)
	}
	return nil
}

func (p *pipeline) plainChunks(msg []uint16) [][]uint16 {
	if len(msg) == 0 {
		return nil
	}
	return lo.Chunk(Pad(msg, p.plainUnits), p.plainUnits)
}

func (p *pipeline) cipherChunks(msg []uint16) [][]uint16 {
	if len(msg) == 0 {
		return nil
	}
	return lo.Chunk(msg, p.cipherUnits)
}

// apply decodes chunk, transforms it and encodes the result.
func (p *pipeline) apply(chunk []uint16, fn blockFunc) ([]uint16, error) {
	in, err := p.codec.FromUnits(chunk)
	if err != nil {
		return nil, err
	}
	out, err := fn(in)
	if err != nil {
		return nil, err
	}
	return p.codec.ToUnits(out)
}

func (p *pipeline) xorChain(b block.Block, chain []uint16) (block.Block, error) {
	c, err := p.codec.FromUnits(chain)
	if err != nil {
		return nil, err
	}
	return b.Xor(c)
}

// encryptChunk encrypts one plaintext chunk, XORed with chain first when
// chain is not nil.
func (p *pipeline) encryptChunk(chunk, chain []uint16, enc blockFunc) ([]uint16, error) {
	return p.apply(chunk, func(b block.Block) (block.Block, error) {
		if chain != nil {
			var err error
			if b, err = p.xorChain(b, chain); err != nil {
				return nil, err
			}
		}
		return enc(b)
	})
}

// decryptChunk decrypts one ciphertext chunk to plaintext width and, when
// chain is not nil, XORs the result with it.
func (p *pipeline) decryptChunk(chunk, chain []uint16, dec blockFunc) ([]uint16, error) {
	out, err := p.apply(chunk, dec)
	if err != nil {
		return nil, err
	}
	out = low(out, p.plainUnits)
	if chain == nil {
		return out, nil
	}
	return p.apply(out, func(b block.Block) (block.Block, error) {
		return p.xorChain(b, chain)
	})
}

// chainOf returns the chaining value carried forward from a ciphertext
// chunk: its low plaintext-width units, copied.
func (p *pipeline) chainOf(cipherChunk []uint16) []uint16 {
	return append([]uint16(nil), low(cipherChunk, p.plainUnits)...)
}

func (p *pipeline) encryptECB(msg []uint16, enc blockFunc) ([]uint16, error) {
	chunks := p.plainChunks(msg)
	out := make([][]uint16, len(chunks))
	for i, chunk := range chunks {
		c, err := p.encryptChunk(chunk, nil, enc)
		if err != nil {
			return nil, fmt.Errorf("mode: block %d: %w", i, err)
		}
		out[i] = c
	}
	return lo.Flatten(out), nil
}

func (p *pipeline) decryptECB(msg []uint16, dec blockFunc) ([]uint16, error) {
	chunks := p.cipherChunks(msg)
	out := make([][]uint16, len(chunks))
	for i, chunk := range chunks {
		m, err := p.decryptChunk(chunk, nil, dec)
		if err != nil {
			return nil, fmt.Errorf("mode: block %d: %w", i, err)
		}
		out[i] = m
	}
	return Trim(lo.Flatten(out)), nil
}

func (p *pipeline) encryptCBC(msg []uint16, enc blockFunc) ([]uint16, error) {
	chunks := p.plainChunks(msg)
	out := make([][]uint16, len(chunks))
	chain := p.seed
	for i, chunk := range chunks {
		c, err := p.encryptChunk(chunk, chain, enc)
		if err != nil {
			return nil, fmt.Errorf("mode: block %d: %w", i, err)
		}
		out[i] = c
		chain = p.chainOf(c)
	}
	return lo.Flatten(out), nil
}

func (p *pipeline) decryptCBC(msg []uint16, dec blockFunc) ([]uint16, error) {
	chunks := p.cipherChunks(msg)
	out := make([][]uint16, len(chunks))
	chain := p.seed
	for i, chunk := range chunks {
		m, err := p.decryptChunk(chunk, chain, dec)
		if err != nil {
			return nil, fmt.Errorf("mode: block %d: %w", i, err)
		}
		out[i] = m
		chain = p.chainOf(chunk)
	}
	return Trim(lo.Flatten(out)), nil
}

func (p *pipeline) encryptECBParallel(ctx context.Context, msg []uint16, enc blockFunc) ([]uint16, error) {
	chunks := p.plainChunks(msg)
	out, err := p.runBatched(ctx, len(chunks), func(i int) func() ([]uint16, error) {
		chunk := chunks[i]
		return func() ([]uint16, error) {
			return p.encryptChunk(chunk, nil, enc)
		}
	})
	if err != nil {
		return nil, err
	}
	return lo.Flatten(out), nil
}

func (p *pipeline) decryptECBParallel(ctx context.Context, msg []uint16, dec blockFunc) ([]uint16, error) {
	chunks := p.cipherChunks(msg)
	out, err := p.runBatched(ctx, len(chunks), func(i int) func() ([]uint16, error) {
		chunk := chunks[i]
		return func() ([]uint16, error) {
			return p.decryptChunk(chunk, nil, dec)
		}
	})
	if err != nil {
		return nil, err
	}
	return Trim(lo.Flatten(out)), nil
}

// decryptCBCParallel resolves every chaining input before dispatch: the
// task for chunk i captures a copy of ciphertext chunk i-1 (or the seed),
// so tasks within a batch share nothing mutable.
func (p *pipeline) decryptCBCParallel(ctx context.Context, msg []uint16, dec blockFunc) ([]uint16, error) {
	chunks := p.cipherChunks(msg)
	out, err := p.runBatched(ctx, len(chunks), func(i int) func() ([]uint16, error) {
		chunk := chunks[i]
		chain := p.seed
		if i > 0 {
			chain = p.chainOf(chunks[i-1])
		}
		return func() ([]uint16, error) {
			return p.decryptChunk(chunk, chain, dec)
		}
	})
	if err != nil {
		return nil, err
	}
	return Trim(lo.Flatten(out)), nil
}

// runBatched builds at most one pool batch of closures at a time and
// waits for it before building the next. build runs on the calling
// goroutine; each result lands in its own slot.
func (p *pipeline) runBatched(ctx context.Context, n int, build func(i int) func() ([]uint16, error)) ([][]uint16, error) {
	if n == 0 {
		return nil, nil
	}
	if err := p.pool.Init(); err != nil {
		return nil, err
	}
	results := make([][]uint16, n)
	for _, w := range executor.Batches(n, p.pool.BatchSize()) {
		tasks := make([]executor.Task, 0, w.Len())
		for i := w.Start; i < w.End; i++ {
			run := build(i)
			tasks = append(tasks, func(context.Context) error {
				out, err := run()
				if err != nil {
					return fmt.Errorf("block %d: %w", i, err)
				}
				results[i] = out
				return nil
			})
		}
		if err := p.pool.InvokeAll(ctx, tasks); err != nil {
			return nil, fmt.Errorf("mode: blocks [%d, %d): %w", w.Start, w.End, err)
		}
	}
	return results, nil
}

// track runs fn with an operation ID, then records metrics and a debug
// log line for the whole-message operation.
func (p *pipeline) track(ctx context.Context, op string, m Mode, msg []uint16,
	fn func(ctx context.Context) ([]uint16, error)) ([]uint16, error) {

	ctx, id := correlation.Ensure(ctx)
	start := time.Now()
	out, err := fn(ctx)
	elapsed := time.Since(start)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		if errors.Is(err, executor.ErrTimeout) {
			status = metrics.StatusTimeout
		}
		metrics.RecordError(op, m.String(), p.name, errorType(err))
		p.logger.Debug("mode operation failed",
			"operation", op, "mode", m.String(), "units", len(msg), "error", err, correlation.LogKey, id)
	} else {
		unit := p.plainUnits
		if op == metrics.OpDecrypt && !m.Stream() {
			unit = p.cipherUnits
		}
		metrics.RecordBlocks(p.name, (len(msg)+unit-1)/unit)
		p.logger.Debug("mode operation finished",
			"operation", op, "mode", m.String(), "units", len(msg), "duration", elapsed, correlation.LogKey, id)
	}
	metrics.RecordOperation(op, m.String(), p.name, status, elapsed.Seconds())
	return out, err
}

func (p *pipeline) close(ctx context.Context) error {
	return p.pool.Shutdown(ctx)
}

// low returns the last n units of units, or units itself when it is not
// longer than n.
func low(units []uint16, n int) []uint16 {
	if len(units) <= n {
		return units
	}
	return units[len(units)-n:]
}
