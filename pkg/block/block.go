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

// Package block provides the fixed-width values that ciphers transform.
//
// A Block is immutable: every operation that changes bits returns a new
// Block. The only mutation path is the stream Register, which owns a
// private copy of its content and rewrites single bytes during CFB and
// OFB feedback.
//
// Three representations implement Block:
//
//   - BitVector: a flat sequence of bits with arbitrary-width slicing,
//     concatenation and table permutation. Used by Feistel ciphers.
//   - ByteMatrix: a rows x cols byte grid stored column-major, with table
//     substitution, row rotation and GF(2^8) matrix multiplication. Used
//     by SP-network ciphers.
//   - Integer: an arbitrary-precision non-negative integer with a
//     declared bit width. Used by modulus-based asymmetric ciphers.
//
// The interface carries an unexported method, so no other package can
// add a fourth representation.
//
// Byte positions are 1-indexed throughout the package.
package block

// Block is the capability every cipher operand provides.
type Block interface {
	// Bits returns the fixed bit length.
	Bits() int

	// Bytes returns the number of 8-bit groups, rounding up.
	Bytes() int

	// Xor returns the bitwise XOR of two blocks of the same
	// representation and bit length.
	Xor(other Block) (Block, error)

	// LeftShift shifts left by n bits. When loop is true the bits
	// shifted out re-enter at the low end, otherwise zeros fill in.
	LeftShift(n int, loop bool) (Block, error)

	// Byte returns the 8-bit group at the 1-indexed position pos.
	Byte(pos int) (byte, error)

	// Clone returns an independent copy.
	Clone() Block

	// setByte overwrites the 8-bit group at pos in place. Only the
	// Register calls it, and only on a copy it owns.
	setByte(val byte, pos int) error
}

// checkShift validates a shift amount against a bit length.
func checkShift(n, bits int) error {
	if n < 0 {
		return newError(ErrInvalidArgument, "negative shift amount %d", n)
	}
	if n > bits {
		return newError(ErrInvalidArgument, "shift amount %d exceeds %d bits", n, bits)
	}
	return nil
}

// checkPos validates a 1-indexed byte position.
func checkPos(pos, n int) error {
	if pos < 1 || pos > n {
		return newError(ErrOutOfBounds, "byte position %d outside 1..%d", pos, n)
	}
	return nil
}
