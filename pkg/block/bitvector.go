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
	"math/big"
	"slices"
	"strings"
)

// BitVector is a Block stored one bit per element, most significant bit
// first.
type BitVector struct {
	bits []bool
}

// NewBitVector copies bits into a new vector.
func NewBitVector(bits []bool) *BitVector {
	return &BitVector{bits: slices.Clone(bits)}
}

// NewZeroBitVector returns an n-bit vector of zeros.
func NewZeroBitVector(n int) (*BitVector, error) {
	if n < 0 {
		return nil, newError(ErrInvalidArgument, "negative bit length %d", n)
	}
	return &BitVector{bits: make([]bool, n)}, nil
}

// BitVectorFromUint returns the low width bits of v, most significant first.
func BitVectorFromUint(v uint64, width int) (*BitVector, error) {
	if width < 0 || width > 64 {
		return nil, newError(ErrInvalidArgument, "width %d outside 0..64", width)
	}
	bits := make([]bool, width)
	for i := range bits {
		bits[i] = v>>(width-1-i)&1 == 1
	}
	return &BitVector{bits: bits}, nil
}

// BitVectorFromUnits decomposes each 16-bit code unit into its bits,
// most significant bit first.
func BitVectorFromUnits(units []uint16) *BitVector {
	bits := make([]bool, 0, len(units)*16)
	for _, u := range units {
		for i := 15; i >= 0; i-- {
			bits = append(bits, u>>i&1 == 1)
		}
	}
	return &BitVector{bits: bits}
}

// Bits returns the bit length.
func (v *BitVector) Bits() int {
	return len(v.bits)
}

// Bytes returns the number of 8-bit groups, rounding up.
func (v *BitVector) Bytes() int {
	return (len(v.bits) + 7) / 8
}

// Bit returns the bit at the 0-indexed position i.
func (v *BitVector) Bit(i int) (bool, error) {
	if i < 0 || i >= len(v.bits) {
		return false, newError(ErrOutOfBounds, "bit index %d outside 0..%d", i, len(v.bits)-1)
	}
	return v.bits[i], nil
}

// SubBits returns the half-open slice [from, to).
func (v *BitVector) SubBits(from, to int) (*BitVector, error) {
	if from < 0 || to > len(v.bits) || from >= to {
		return nil, newError(ErrOutOfBounds, "sub-range [%d,%d) of %d bits", from, to, len(v.bits))
	}
	return NewBitVector(v.bits[from:to]), nil
}

// Concat returns v followed by other.
func (v *BitVector) Concat(other *BitVector) (*BitVector, error) {
	if other == nil {
		return nil, newError(ErrInvalidArgument, "concat with nil bit vector")
	}
	bits := make([]bool, 0, len(v.bits)+len(other.bits))
	bits = append(bits, v.bits...)
	bits = append(bits, other.bits...)
	return &BitVector{bits: bits}, nil
}

// Permute returns a vector of len(table) bits where output bit i is input
// bit table[i]-1.
func (v *BitVector) Permute(table []int) (*BitVector, error) {
	if len(table) == 0 {
		return nil, newError(ErrInvalidArgument, "empty permutation table")
	}
	bits := make([]bool, len(table))
	for i, src := range table {
		if src < 1 || src > len(v.bits) {
			return nil, newError(ErrInvalidArgument, "permutation entry %d at %d outside 1..%d", src, i, len(v.bits))
		}
		bits[i] = v.bits[src-1]
	}
	return &BitVector{bits: bits}, nil
}

// Xor implements Block.
func (v *BitVector) Xor(other Block) (Block, error) {
	o, ok := other.(*BitVector)
	if !ok || o == nil {
		return nil, newError(ErrInvalidArgument, "xor of bit vector with %T", other)
	}
	return v.XorBits(o)
}

// XorBits is Xor without the interface conversion.
func (v *BitVector) XorBits(other *BitVector) (*BitVector, error) {
	if other == nil {
		return nil, newError(ErrInvalidArgument, "xor with nil bit vector")
	}
	if len(v.bits) != len(other.bits) {
		return nil, newError(ErrInvalidArgument, "xor of %d and %d bits", len(v.bits), len(other.bits))
	}
	bits := make([]bool, len(v.bits))
	for i := range bits {
		bits[i] = v.bits[i] != other.bits[i]
	}
	return &BitVector{bits: bits}, nil
}

// LeftShift implements Block.
func (v *BitVector) LeftShift(n int, loop bool) (Block, error) {
	return v.Shift(n, loop)
}

// Shift is LeftShift without the interface conversion.
func (v *BitVector) Shift(n int, loop bool) (*BitVector, error) {
	if err := checkShift(n, len(v.bits)); err != nil {
		return nil, err
	}
	size := len(v.bits)
	bits := make([]bool, size)
	copy(bits, v.bits[n:])
	if loop {
		copy(bits[size-n:], v.bits[:n])
	}
	return &BitVector{bits: bits}, nil
}

// Byte implements Block. A trailing partial group reads as zero-padded.
func (v *BitVector) Byte(pos int) (byte, error) {
	if err := checkPos(pos, v.Bytes()); err != nil {
		return 0, err
	}
	var b byte
	start := (pos - 1) * 8
	for i := 0; i < 8; i++ {
		b <<= 1
		if start+i < len(v.bits) && v.bits[start+i] {
			b |= 1
		}
	}
	return b, nil
}

func (v *BitVector) setByte(val byte, pos int) error {
	if err := checkPos(pos, v.Bytes()); err != nil {
		return err
	}
	start := (pos - 1) * 8
	for i := 0; i < 8 && start+i < len(v.bits); i++ {
		v.bits[start+i] = val>>(7-i)&1 == 1
	}
	return nil
}

// Clone implements Block.
func (v *BitVector) Clone() Block {
	return NewBitVector(v.bits)
}

// Uint64 reads a vector of at most 64 bits as an unsigned integer.
func (v *BitVector) Uint64() (uint64, error) {
	if len(v.bits) > 64 {
		return 0, newError(ErrInvalidArgument, "%d bits do not fit in 64", len(v.bits))
	}
	var n uint64
	for _, b := range v.bits {
		n <<= 1
		if b {
			n |= 1
		}
	}
	return n, nil
}

// Sum reads the vector as an unsigned big-endian integer.
func (v *BitVector) Sum() *big.Int {
	n := new(big.Int)
	for i, b := range v.bits {
		if b {
			n.SetBit(n, len(v.bits)-1-i, 1)
		}
	}
	return n
}

// Cmp orders vectors by their unsigned big-endian value.
func (v *BitVector) Cmp(other *BitVector) int {
	return v.Sum().Cmp(other.Sum())
}

// Equal reports whether both vectors hold the same bits.
func (v *BitVector) Equal(other *BitVector) bool {
	return other != nil && slices.Equal(v.bits, other.bits)
}

func (v *BitVector) String() string {
	var sb strings.Builder
	sb.Grow(len(v.bits))
	for _, b := range v.bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
