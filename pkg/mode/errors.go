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
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
	"github.com/jeremyhahn/go-blockcipher/pkg/executor"
)

var (
	// ErrMessageTooLong is returned when a message exceeds the block bound.
	ErrMessageTooLong = fmt.Errorf("%w: message too long", block.ErrInvalidArgument)

	// ErrInvalidLength is returned when a ciphertext is not a whole number
	// of cipher blocks.
	ErrInvalidLength = fmt.Errorf("%w: invalid ciphertext length", block.ErrInvalidArgument)

	// ErrUnsupportedMode is returned for unknown modes and for stream
	// modes on an asymmetric engine.
	ErrUnsupportedMode = fmt.Errorf("%w: unsupported mode", block.ErrInvalidArgument)
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", block.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// errorType maps an error onto the error_type metrics label.
func errorType(err error) string {
	switch {
	case errors.Is(err, executor.ErrTimeout):
		return "timeout"
	case errors.Is(err, executor.ErrInterrupted):
		return "interrupted"
	case errors.Is(err, executor.ErrConcurrency):
		return "concurrency"
	case errors.Is(err, block.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, block.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "internal"
	}
}
