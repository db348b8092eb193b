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
)

// Integer is a Block holding a non-negative arbitrary-precision integer
// in a declared bit width. Bytes are numbered from the most significant
// end of that width.
type Integer struct {
	v    *big.Int
	bits int
}

// NewInteger copies v into an Integer of the given width.
func NewInteger(v *big.Int, bits int) (*Integer, error) {
	if v == nil {
		return nil, newError(ErrInvalidArgument, "nil integer")
	}
	if v.Sign() < 0 {
		return nil, newError(ErrInvalidArgument, "negative integer")
	}
	if bits <= 0 || v.BitLen() > bits {
		return nil, newError(ErrInvalidArgument, "%d-bit value in %d-bit block", v.BitLen(), bits)
	}
	return &Integer{v: new(big.Int).Set(v), bits: bits}, nil
}

// IntegerFromDecimal parses a base-10 string. The width is the value's
// own bit length.
func IntegerFromDecimal(s string) (*Integer, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, newError(ErrInvalidArgument, "malformed decimal %q", s)
	}
	return NewInteger(v, max(v.BitLen(), 1))
}

// Value returns a copy of the integer.
func (n *Integer) Value() *big.Int {
	return new(big.Int).Set(n.v)
}

// Bits returns the declared width.
func (n *Integer) Bits() int { return n.bits }

// Bytes returns the declared width in bytes, rounding up.
func (n *Integer) Bytes() int { return (n.bits + 7) / 8 }

// Cmp compares the numeric values.
func (n *Integer) Cmp(other *Integer) int {
	return n.v.Cmp(other.v)
}

// Low returns the low bits of n as a narrower Integer.
func (n *Integer) Low(bits int) (*Integer, error) {
	if bits <= 0 {
		return nil, newError(ErrInvalidArgument, "width %d", bits)
	}
	return &Integer{v: new(big.Int).And(n.v, mask(bits)), bits: bits}, nil
}

// Exp returns n^exponent mod modulus in a block as wide as the modulus.
func (n *Integer) Exp(exponent, modulus *Integer) (*Integer, error) {
	if exponent == nil || modulus == nil || modulus.v.Sign() == 0 {
		return nil, newError(ErrInvalidArgument, "exponent and non-zero modulus required")
	}
	if n.v.Cmp(modulus.v) >= 0 {
		return nil, newError(ErrInvalidArgument, "value does not fit below the modulus")
	}
	v := new(big.Int).Exp(n.v, exponent.v, modulus.v)
	return &Integer{v: v, bits: modulus.v.BitLen()}, nil
}

// Xor implements Block.
func (n *Integer) Xor(other Block) (Block, error) {
	o, ok := other.(*Integer)
	if !ok || o == nil {
		return nil, newError(ErrInvalidArgument, "xor of integer with %T", other)
	}
	if n.bits != o.bits {
		return nil, newError(ErrInvalidArgument, "xor of %d and %d bits", n.bits, o.bits)
	}
	return &Integer{v: new(big.Int).Xor(n.v, o.v), bits: n.bits}, nil
}

// LeftShift implements Block within the declared width.
func (n *Integer) LeftShift(k int, loop bool) (Block, error) {
	if err := checkShift(k, n.bits); err != nil {
		return nil, err
	}
	v := new(big.Int).Lsh(n.v, uint(k))
	v.And(v, mask(n.bits))
	if loop {
		v.Or(v, new(big.Int).Rsh(n.v, uint(n.bits-k)))
	}
	return &Integer{v: v, bits: n.bits}, nil
}

// Byte implements Block.
func (n *Integer) Byte(pos int) (byte, error) {
	if err := checkPos(pos, n.Bytes()); err != nil {
		return 0, err
	}
	shift := uint((n.Bytes() - pos) * 8)
	b := new(big.Int).Rsh(n.v, shift)
	return byte(b.Uint64() & 0xff), nil
}

func (n *Integer) setByte(val byte, pos int) error {
	if err := checkPos(pos, n.Bytes()); err != nil {
		return err
	}
	shift := uint((n.Bytes() - pos) * 8)
	hole := new(big.Int).Lsh(big.NewInt(0xff), shift)
	n.v.AndNot(n.v, hole)
	n.v.Or(n.v, new(big.Int).Lsh(big.NewInt(int64(val)), shift))
	n.v.And(n.v, mask(n.bits))
	return nil
}

// Clone implements Block.
func (n *Integer) Clone() Block {
	return &Integer{v: new(big.Int).Set(n.v), bits: n.bits}
}

func (n *Integer) String() string {
	return n.v.String()
}

func mask(bits int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return m.Sub(m, big.NewInt(1))
}
