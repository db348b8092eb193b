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
	"bytes"
	"fmt"
	"strings"
)

// ByteMatrix is a Block laid out as a rows x cols byte grid. Bytes are
// stored column-major, so position pos sits at row (pos-1)%rows and
// column (pos-1)/rows.
type ByteMatrix struct {
	rows int
	cols int
	data []byte
}

// NewByteMatrix returns a zero matrix.
func NewByteMatrix(rows, cols int) (*ByteMatrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, newError(ErrInvalidArgument, "matrix shape %dx%d", rows, cols)
	}
	return &ByteMatrix{rows: rows, cols: cols, data: make([]byte, rows*cols)}, nil
}

// ByteMatrixFromColumns copies a column-major byte string into a matrix
// with the given row count.
func ByteMatrixFromColumns(data []byte, rows int) (*ByteMatrix, error) {
	if rows <= 0 || len(data) == 0 || len(data)%rows != 0 {
		return nil, newError(ErrInvalidArgument, "%d bytes do not fill %d rows", len(data), rows)
	}
	return &ByteMatrix{rows: rows, cols: len(data) / rows, data: bytes.Clone(data)}, nil
}

// ByteMatrixFromRows builds a matrix from row slices of equal length.
func ByteMatrixFromRows(rows [][]byte) (*ByteMatrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, newError(ErrInvalidArgument, "empty matrix")
	}
	m := &ByteMatrix{rows: len(rows), cols: len(rows[0]), data: make([]byte, len(rows)*len(rows[0]))}
	for r, row := range rows {
		if len(row) != m.cols {
			return nil, newError(ErrInvalidArgument, "row %d has %d bytes, want %d", r, len(row), m.cols)
		}
		for c, b := range row {
			m.data[c*m.rows+r] = b
		}
	}
	return m, nil
}

func mustRows(rows [][]byte) *ByteMatrix {
	m, err := ByteMatrixFromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Rows returns the row count.
func (m *ByteMatrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *ByteMatrix) Cols() int { return m.cols }

// Bits returns the bit length.
func (m *ByteMatrix) Bits() int { return len(m.data) * 8 }

// Bytes returns the byte count.
func (m *ByteMatrix) Bytes() int { return len(m.data) }

func (m *ByteMatrix) at(r, c int) byte {
	return m.data[c*m.rows+r]
}

// At returns the byte at row r, column c (both 0-indexed).
func (m *ByteMatrix) At(r, c int) (byte, error) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return 0, newError(ErrOutOfBounds, "cell (%d,%d) outside %dx%d", r, c, m.rows, m.cols)
	}
	return m.at(r, c), nil
}

// ColumnMajor returns a copy of the underlying byte string.
func (m *ByteMatrix) ColumnMajor() []byte {
	return bytes.Clone(m.data)
}

// Substitute replaces every byte b with table[b].
func (m *ByteMatrix) Substitute(table []byte) (*ByteMatrix, error) {
	if len(table) < 256 {
		return nil, newError(ErrInvalidArgument, "substitution table has %d entries, want 256", len(table))
	}
	out := m.clone()
	for i, b := range out.data {
		out.data[i] = table[b]
	}
	return out, nil
}

// RotateRowsLeft rotates row i left by i positions.
func (m *ByteMatrix) RotateRowsLeft() *ByteMatrix {
	return m.rotateRows(1)
}

// RotateRowsRight rotates row i right by i positions, undoing
// RotateRowsLeft.
func (m *ByteMatrix) RotateRowsRight() *ByteMatrix {
	return m.rotateRows(-1)
}

func (m *ByteMatrix) rotateRows(dir int) *ByteMatrix {
	out := m.clone()
	for r := 1; r < m.rows; r++ {
		shift := (dir*r%m.cols + m.cols) % m.cols
		for c := 0; c < m.cols; c++ {
			out.data[c*m.rows+r] = m.at(r, (c+shift)%m.cols)
		}
	}
	return out
}

// LeftMultiply returns factor x m over GF(2^8). factor must have as many
// columns as m has rows.
func (m *ByteMatrix) LeftMultiply(factor *ByteMatrix) (*ByteMatrix, error) {
	if factor == nil || factor.cols != m.rows {
		return nil, newError(ErrInvalidArgument, "cannot multiply %v by %dx%d", factor.shape(), m.rows, m.cols)
	}
	out := &ByteMatrix{rows: factor.rows, cols: m.cols, data: make([]byte, factor.rows*m.cols)}
	for r := 0; r < factor.rows; r++ {
		for c := 0; c < m.cols; c++ {
			var acc byte
			for k := 0; k < m.rows; k++ {
				acc ^= GFMul(factor.at(r, k), m.at(k, c))
			}
			out.data[c*out.rows+r] = acc
		}
	}
	return out, nil
}

func (m *ByteMatrix) shape() string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%dx%d", m.rows, m.cols)
}

// Xor implements Block.
func (m *ByteMatrix) Xor(other Block) (Block, error) {
	o, ok := other.(*ByteMatrix)
	if !ok || o == nil {
		return nil, newError(ErrInvalidArgument, "xor of byte matrix with %T", other)
	}
	return m.XorMatrix(o)
}

// XorMatrix is Xor without the interface conversion. Both operands must
// have the same shape.
func (m *ByteMatrix) XorMatrix(other *ByteMatrix) (*ByteMatrix, error) {
	if m.rows != other.rows || m.cols != other.cols {
		return nil, newError(ErrInvalidArgument, "xor of %s and %s matrices", m.shape(), other.shape())
	}
	out := m.clone()
	for i := range out.data {
		out.data[i] ^= other.data[i]
	}
	return out, nil
}

// LeftShift implements Block on the column-major byte string. n must be
// a whole number of bytes.
func (m *ByteMatrix) LeftShift(n int, loop bool) (Block, error) {
	if err := checkShift(n, m.Bits()); err != nil {
		return nil, err
	}
	if n%8 != 0 {
		return nil, newError(ErrInvalidArgument, "matrix shift of %d bits is not byte aligned", n)
	}
	k := n / 8
	out := &ByteMatrix{rows: m.rows, cols: m.cols, data: make([]byte, len(m.data))}
	copy(out.data, m.data[k:])
	if loop {
		copy(out.data[len(m.data)-k:], m.data[:k])
	}
	return out, nil
}

// Byte implements Block.
func (m *ByteMatrix) Byte(pos int) (byte, error) {
	if err := checkPos(pos, len(m.data)); err != nil {
		return 0, err
	}
	return m.data[pos-1], nil
}

func (m *ByteMatrix) setByte(val byte, pos int) error {
	if err := checkPos(pos, len(m.data)); err != nil {
		return err
	}
	m.data[pos-1] = val
	return nil
}

// Clone implements Block.
func (m *ByteMatrix) Clone() Block {
	return m.clone()
}

func (m *ByteMatrix) clone() *ByteMatrix {
	return &ByteMatrix{rows: m.rows, cols: m.cols, data: bytes.Clone(m.data)}
}

// Equal reports whether both matrices have the same shape and bytes.
func (m *ByteMatrix) Equal(other *ByteMatrix) bool {
	return other != nil && m.rows == other.rows && m.cols == other.cols && bytes.Equal(m.data, other.data)
}

func (m *ByteMatrix) String() string {
	var sb strings.Builder
	for r := 0; r < m.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%02x", m.at(r, c))
		}
	}
	return sb.String()
}
