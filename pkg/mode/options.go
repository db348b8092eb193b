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
	"github.com/jeremyhahn/go-blockcipher/pkg/block"
	"github.com/jeremyhahn/go-blockcipher/pkg/executor"
	"github.com/jeremyhahn/go-blockcipher/pkg/logging"
)

const (
	// DefaultSeed is formatted to the block width to build the
	// initialization vector when no seed option is given.
	DefaultSeed = "go-blockcipher/seed"

	// DefaultMaxBlocks bounds message length in blocks.
	DefaultMaxBlocks = 128
)

// Option configures an Engine or AsymmetricEngine.
type Option func(*options)

type options struct {
	seed      string
	seedBlock block.Block
	maxBlocks int
	pool      *executor.Pool
	logger    *logging.Logger
	name      string
}

func newOptions(opts []Option) *options {
	o := &options{
		seed:      DefaultSeed,
		maxBlocks: DefaultMaxBlocks,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.pool == nil {
		o.pool = executor.Shared()
	}
	if o.logger == nil {
		o.logger = logging.DefaultLogger()
	}
	return o
}

// WithSeed sets the string formatted into the initialization vector.
func WithSeed(seed string) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithSeedBlock sets the initialization vector directly. It must have
// the cipher's block width and representation.
func WithSeedBlock(b block.Block) Option {
	return func(o *options) {
		o.seedBlock = b
	}
}

// WithMaxBlocks sets the message bound in blocks. Zero disables it.
func WithMaxBlocks(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxBlocks = n
		}
	}
}

// WithPool sets the worker pool used by the parallel modes.
func WithPool(p *executor.Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName sets the cipher label used in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// seedUnits returns the initialization vector as exactly n code units.
func (o *options) seedUnits(codec block.Codec, n int) ([]uint16, error) {
	if o.seedBlock == nil {
		return block.Format(o.seed, n)
	}
	units, err := codec.ToUnits(o.seedBlock)
	if err != nil {
		return nil, err
	}
	if len(units) != n {
		return nil, invalidf("seed block is %d units, want %d", len(units), n)
	}
	return units, nil
}
