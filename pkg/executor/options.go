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

package executor

import (
	"time"

	"github.com/jeremyhahn/go-blockcipher/pkg/logging"
)

const (
	// DefaultWorkers is the fixed worker count of a pool.
	DefaultWorkers = 10

	// DefaultBatchSize caps the number of task closures built at once.
	DefaultBatchSize = 1500

	// DefaultTimeout bounds how long a caller waits for one batch.
	DefaultTimeout = 30 * time.Second

	// DefaultTerminationTimeout bounds how long Shutdown waits for workers.
	DefaultTerminationTimeout = 10 * time.Second
)

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers sets the worker count. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithBatchSize sets the maximum number of tasks per batch. Values below
// one are ignored.
func WithBatchSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithTimeout sets the per-batch timeout. Zero waits without a deadline.
func WithTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d >= 0 {
			p.timeout = d
		}
	}
}

// WithTerminationTimeout sets how long Shutdown waits for workers to exit.
func WithTerminationTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.terminationTimeout = d
		}
	}
}

// WithLogger sets the pool logger.
func WithLogger(logger *logging.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}
