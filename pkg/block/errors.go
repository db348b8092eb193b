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

package block

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for absent operands, length or
	// shape mismatches, negative shifts and malformed tables.
	ErrInvalidArgument = errors.New("block: invalid argument")

	// ErrOutOfBounds is returned when a slice range or byte position
	// falls outside a block.
	ErrOutOfBounds = errors.New("block: out of bounds")
)

func newError(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
