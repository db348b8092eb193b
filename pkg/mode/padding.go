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

import "github.com/samber/lo"

// Padding is the sentinel code unit appended to reach a block boundary.
const Padding uint16 = 0x0000

// Pad returns a copy of units right-padded with Padding to a multiple of
// size. The input is never modified.
func Pad(units []uint16, size int) []uint16 {
	n := len(units)
	if size > 0 && n%size != 0 {
		n += size - n%size
	}
	out := make([]uint16, n)
	copy(out, units)
	return out
}

// Trim strips every trailing Padding unit.
func Trim(units []uint16) []uint16 {
	return lo.DropRightWhile(units, func(u uint16) bool {
		return u == Padding
	})
}
