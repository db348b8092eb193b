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

import "math/big"

// DefaultRows is the row count ByteMatrixCodec uses when Rows is zero.
const DefaultRows = 4

// Codec converts between 16-bit code units and a Block representation.
type Codec interface {
	FromUnits(units []uint16) (Block, error)
	ToUnits(b Block) ([]uint16, error)
}

// BitVectorCodec maps each unit to 16 bits, most significant first.
type BitVectorCodec struct{}

// FromUnits implements Codec.
func (BitVectorCodec) FromUnits(units []uint16) (Block, error) {
	if len(units) == 0 {
		return nil, newError(ErrInvalidArgument, "no code units")
	}
	return BitVectorFromUnits(units), nil
}

// ToUnits implements Codec.
func (BitVectorCodec) ToUnits(b Block) ([]uint16, error) {
	v, ok := b.(*BitVector)
	if !ok || v == nil {
		return nil, newError(ErrInvalidArgument, "bit vector codec given %T", b)
	}
	if v.Bits()%16 != 0 {
		return nil, newError(ErrInvalidArgument, "%d bits is not a whole number of code units", v.Bits())
	}
	units := make([]uint16, v.Bits()/16)
	for i, bit := range v.bits {
		if bit {
			units[i/16] |= 1 << (15 - i%16)
		}
	}
	return units, nil
}

// ByteMatrixCodec splits each unit into its high and low byte and fills
// a matrix column by column.
type ByteMatrixCodec struct {
	Rows int
}

func (c ByteMatrixCodec) rows() int {
	if c.Rows <= 0 {
		return DefaultRows
	}
	return c.Rows
}

// FromUnits implements Codec.
func (c ByteMatrixCodec) FromUnits(units []uint16) (Block, error) {
	data := make([]byte, 0, len(units)*2)
	for _, u := range units {
		data = append(data, byte(u>>8), byte(u))
	}
	return ByteMatrixFromColumns(data, c.rows())
}

// ToUnits implements Codec.
func (c ByteMatrixCodec) ToUnits(b Block) ([]uint16, error) {
	m, ok := b.(*ByteMatrix)
	if !ok || m == nil {
		return nil, newError(ErrInvalidArgument, "byte matrix codec given %T", b)
	}
	if len(m.data)%2 != 0 {
		return nil, newError(ErrInvalidArgument, "%d bytes is not a whole number of code units", len(m.data))
	}
	units := make([]uint16, len(m.data)/2)
	for i := range units {
		units[i] = uint16(m.data[2*i])<<8 | uint16(m.data[2*i+1])
	}
	return units, nil
}

// IntegerCodec reads units as a big-endian number 16 bits per unit wide.
// Encoding emits ceil(bits/16) units, so narrow values come back
// left-padded with zero units.
type IntegerCodec struct{}

// FromUnits implements Codec.
func (IntegerCodec) FromUnits(units []uint16) (Block, error) {
	if len(units) == 0 {
		return nil, newError(ErrInvalidArgument, "no code units")
	}
	buf := make([]byte, 0, len(units)*2)
	for _, u := range units {
		buf = append(buf, byte(u>>8), byte(u))
	}
	return &Integer{v: new(big.Int).SetBytes(buf), bits: len(units) * 16}, nil
}

// ToUnits implements Codec.
func (IntegerCodec) ToUnits(b Block) ([]uint16, error) {
	n, ok := b.(*Integer)
	if !ok || n == nil {
		return nil, newError(ErrInvalidArgument, "integer codec given %T", b)
	}
	units := make([]uint16, (n.bits+15)/16)
	buf := n.v.FillBytes(make([]byte, len(units)*2))
	for i := range units {
		units[i] = uint16(buf[2*i])<<8 | uint16(buf[2*i+1])
	}
	return units, nil
}
