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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXTime(t *testing.T) {
	assert.Equal(t, byte(0), XTime(0))
	assert.Equal(t, byte(0xae), XTime(0x57))
	assert.Equal(t, byte(0x47), XTime(0xae))
	assert.Equal(t, byte(0x8e), XTime(0x47))
	assert.Equal(t, byte(0x07), XTime(0x8e))
}

func TestXTimeLinear(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			x, y := byte(a), byte(b)
			if XTime(x^y) != XTime(x)^XTime(y) {
				t.Fatalf("xtime(%02x ^ %02x) is not linear", x, y)
			}
		}
	}
}

func TestGFMul(t *testing.T) {
	assert.Equal(t, byte(0xc1), GFMul(0x57, 0x83))
	assert.Equal(t, byte(0xfe), GFMul(0x57, 0x13))
	for a := 0; a < 256; a++ {
		assert.Equal(t, byte(a), GFMul(byte(a), 1))
		assert.Equal(t, byte(0), GFMul(byte(a), 0))
		assert.Equal(t, XTime(byte(a)), GFMul(byte(a), 2))
	}
}

func TestGFInverse(t *testing.T) {
	assert.Equal(t, byte(0), GFInverse(0))
	assert.Equal(t, byte(0xca), GFInverse(0x53))
	for a := 1; a < 256; a++ {
		assert.Equal(t, byte(1), GFMul(byte(a), GFInverse(byte(a))), "inverse of %02x", a)
	}
}
