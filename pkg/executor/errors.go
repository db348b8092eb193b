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
	"errors"
	"fmt"
)

var (
	// ErrConcurrency is the parent of every pool failure. A caller that
	// sees it may re-initialize the pool and retry the whole operation.
	ErrConcurrency = errors.New("executor: concurrency failure")

	// ErrNotInitialized is returned when a batch is submitted to a pool
	// that was never started or has already terminated.
	ErrNotInitialized = fmt.Errorf("%w: pool not initialized", ErrConcurrency)

	// ErrShutdown is returned when the pool is shutting down.
	ErrShutdown = fmt.Errorf("%w: pool is shut down", ErrConcurrency)

	// ErrTimeout is returned when a batch or a shutdown outlives its deadline.
	ErrTimeout = fmt.Errorf("%w: timed out", ErrConcurrency)

	// ErrInterrupted is returned when the caller's context is cancelled
	// while a batch is in flight.
	ErrInterrupted = fmt.Errorf("%w: interrupted", ErrConcurrency)

	// ErrTaskPanic wraps a value recovered from a panicking task.
	ErrTaskPanic = errors.New("executor: task panicked")
)
