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
	"fmt"
	"strings"
)

// Mode selects a mode of operation.
type Mode int

const (
	ECB Mode = iota + 1
	CBC
	CFB
	OFB
	ECBParallel
	CBCParallel
)

var modeNames = map[Mode]string{
	ECB:         "ecb",
	CBC:         "cbc",
	CFB:         "cfb",
	OFB:         "ofb",
	ECBParallel: "ecb-parallel",
	CBCParallel: "cbc-parallel",
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	return []Mode{ECB, CBC, CFB, OFB, ECBParallel, CBCParallel}
}

// String returns the lower-case mode name used in flags and metrics.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Parallel reports whether the mode runs on the worker pool.
func (m Mode) Parallel() bool {
	return m == ECBParallel || m == CBCParallel
}

// Stream reports whether the mode is a byte-feedback stream mode.
func (m Mode) Stream() bool {
	return m == CFB || m == OFB
}

// ParseMode parses a mode name such as "cbc" or "ecb-parallel". Matching
// ignores case, and underscores are accepted in place of dashes.
func ParseMode(s string) (Mode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}
