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

// Package encoding converts 16-bit code-unit sequences to and from their
// textual forms.
//
// Ciphertext is rendered as lowercase hex with four digits per code unit,
// most significant digit first, so a message of n units always encodes to
// 4n characters. Whitespace between groups is accepted on decode.
package encoding

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// UnitHexDigits is the number of hex digits per code unit.
const UnitHexDigits = 4

var (
	// ErrInvalidEncodingHex is returned when hex decoding fails.
	ErrInvalidEncodingHex = errors.New("invalid hex encoding")
)

// EncodeUnits renders units as lowercase hex, four digits per unit.
func EncodeUnits(units []uint16) string {
	buf := make([]byte, 2*len(units))
	for i, u := range units {
		buf[2*i] = byte(u >> 8)
		buf[2*i+1] = byte(u)
	}
	return hex.EncodeToString(buf)
}

// DecodeUnits parses hex produced by EncodeUnits. Case is ignored and
// whitespace is skipped.
func DecodeUnits(s string) ([]uint16, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if len(clean)%UnitHexDigits != 0 {
		return nil, fmt.Errorf("%w: %d digits is not a multiple of %d",
			ErrInvalidEncodingHex, len(clean), UnitHexDigits)
	}
	buf, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncodingHex, err)
	}

	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = uint16(buf[2*i])<<8 | uint16(buf[2*i+1])
	}
	return units, nil
}
