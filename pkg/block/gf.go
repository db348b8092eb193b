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

// Reduction is the low byte of the GF(2^8) modulus x^8 + x^4 + x^3 + x + 1.
const Reduction byte = 0x1b

// XTime multiplies b by x in GF(2^8).
func XTime(b byte) byte {
	if b&0x80 != 0 {
		return b<<1 ^ Reduction
	}
	return b << 1
}

// GFMul multiplies a and b in GF(2^8) by repeated doubling of a,
// accumulating with XOR for every set bit of b.
func GFMul(a, b byte) byte {
	var p byte
	for b != 0 {
		if b&1 != 0 {
			p ^= a
		}
		a = XTime(a)
		b >>= 1
	}
	return p
}

// GFInverse returns the multiplicative inverse of b, with 0 mapping to 0.
func GFInverse(b byte) byte {
	if b == 0 {
		return 0
	}
	// b^254 == b^-1 since the multiplicative group has order 255.
	result := byte(1)
	base := b
	for e := 254; e > 0; e >>= 1 {
		if e&1 != 0 {
			result = GFMul(result, base)
		}
		base = GFMul(base, base)
	}
	return result
}
