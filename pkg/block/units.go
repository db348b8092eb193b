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

import "unicode/utf16"

// UnitsFromString returns the UTF-16 code units of s.
func UnitsFromString(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// UnitsToString decodes UTF-16 code units. Unpaired surrogates become
// U+FFFD, so ciphertext should stay in unit form.
func UnitsToString(units []uint16) string {
	return string(utf16.Decode(units))
}

// Format repeats the code units of s until there are at least n of them
// and truncates the result to exactly n. Ciphers use it to stretch key
// strings to their block width.
func Format(s string, n int) ([]uint16, error) {
	src := UnitsFromString(s)
	if len(src) == 0 {
		return nil, newError(ErrInvalidArgument, "empty format source")
	}
	if n <= 0 {
		return nil, newError(ErrInvalidArgument, "format length %d", n)
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = src[i%len(src)]
	}
	return out, nil
}
