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

package sp

import (
	"fmt"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
)

const (
	// Name identifies the cipher in logs and metrics.
	Name = "sp"

	// BlockBits is the block width of Cipher: a 4x4 byte matrix, or
	// eight 16-bit code units.
	BlockBits = 128

	// DefaultRounds is the round count used when none is configured.
	DefaultRounds = 10

	// DefaultKey is the key string used when none is configured.
	DefaultKey = "abc"

	rows = 4
)

var sbox, invSbox = buildSBoxes()

// buildSBoxes derives the Rijndael S-box from the GF(2^8) inverse
// followed by the affine transform, and its inverse by table lookup.
func buildSBoxes() ([]byte, []byte) {
	fwd := make([]byte, 256)
	inv := make([]byte, 256)
	for i := 0; i < 256; i++ {
		x := block.GFInverse(byte(i))
		var y byte
		for bit := 0; bit < 8; bit++ {
			v := x>>bit ^ x>>((bit+4)%8) ^ x>>((bit+5)%8) ^ x>>((bit+6)%8) ^ x>>((bit+7)%8)
			y |= (v & 1) << bit
		}
		fwd[i] = y ^ 0x63
		inv[fwd[i]] = byte(i)
	}
	return fwd, inv
}

// SBox returns a copy of the substitution table.
func SBox() []byte { return append([]byte(nil), sbox...) }

// Option configures a Cipher.
type Option func(*options)

type options struct {
	rounds int
}

// WithRounds sets the round count.
func WithRounds(rounds int) Option {
	return func(o *options) {
		o.rounds = rounds
	}
}

// Cipher is a 128-bit SP-network cipher with Rijndael layers: S-box
// substitution, then row rotation and MixColumns as the permutation,
// keyed by the Rijndael word expansion. Unlike AES every round,
// including the last, applies the full permutation.
type Cipher struct {
	*Network
}

// NewCipher returns a Cipher keyed by the string key, stretched to the
// block width. An empty key selects DefaultKey.
func NewCipher(key string, opts ...Option) (*Cipher, error) {
	k, err := parseKey(key)
	if err != nil {
		return nil, err
	}
	return NewCipherFromBlock(k, opts...)
}

// NewCipherFromBlock returns a Cipher keyed by a 4x4 byte matrix.
func NewCipherFromBlock(key block.Block, opts ...Option) (*Cipher, error) {
	o := options{rounds: DefaultRounds}
	for _, opt := range opts {
		opt(&o)
	}
	n, err := NewNetwork(layers{}, ExpanderFunc(expandKey), key, o.rounds)
	if err != nil {
		return nil, err
	}
	return &Cipher{Network: n}, nil
}

// UpdateKey replaces the key.
func (c *Cipher) UpdateKey(key string) error {
	k, err := parseKey(key)
	if err != nil {
		return err
	}
	return c.Rekey(k)
}

// Name returns the cipher name.
func (c *Cipher) Name() string { return Name }

// BlockBits returns the plaintext and ciphertext block width.
func (c *Cipher) BlockBits() int { return BlockBits }

// Codec returns the unit codec for this cipher's blocks.
func (c *Cipher) Codec() block.Codec { return block.ByteMatrixCodec{Rows: rows} }

func parseKey(key string) (block.Block, error) {
	if key == "" {
		key = DefaultKey
	}
	units, err := block.Format(key, BlockBits/16)
	if err != nil {
		return nil, fmt.Errorf("sp: format key: %w", err)
	}
	return block.ByteMatrixCodec{Rows: rows}.FromUnits(units)
}

type layers struct{}

func matrix(b block.Block) (*block.ByteMatrix, error) {
	m, ok := b.(*block.ByteMatrix)
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: sp cipher needs a byte matrix, got %T", block.ErrInvalidArgument, b)
	}
	if m.Rows() != rows || m.Bits() != BlockBits {
		return nil, fmt.Errorf("%w: matrix is %dx%d, want 4x4", block.ErrInvalidArgument, m.Rows(), m.Cols())
	}
	return m, nil
}

func (layers) Substitute(b block.Block) (block.Block, error) {
	m, err := matrix(b)
	if err != nil {
		return nil, err
	}
	return m.Substitute(sbox)
}

func (layers) InverseSubstitute(b block.Block) (block.Block, error) {
	m, err := matrix(b)
	if err != nil {
		return nil, err
	}
	return m.Substitute(invSbox)
}

func (layers) Permute(b block.Block) (block.Block, error) {
	m, err := matrix(b)
	if err != nil {
		return nil, err
	}
	return m.RotateRowsLeft().LeftMultiply(block.MixColumns())
}

func (layers) InversePermute(b block.Block) (block.Block, error) {
	m, err := matrix(b)
	if err != nil {
		return nil, err
	}
	mixed, err := m.LeftMultiply(block.InvMixColumns())
	if err != nil {
		return nil, err
	}
	return mixed.RotateRowsRight(), nil
}

// expandKey runs the Rijndael word expansion. Word i is column i of the
// key matrix; round key t is made of words 4t..4t+3.
func expandKey(key block.Block, rounds int) ([]block.Block, error) {
	m, err := matrix(key)
	if err != nil {
		return nil, err
	}
	const nk = 4
	raw := m.ColumnMajor()
	words := make([][4]byte, nk*(rounds+1))
	for i := 0; i < nk; i++ {
		copy(words[i][:], raw[4*i:4*i+4])
	}
	rcon := byte(1)
	for i := nk; i < len(words); i++ {
		temp := words[i-1]
		if i%nk == 0 {
			temp = [4]byte{sbox[temp[1]], sbox[temp[2]], sbox[temp[3]], sbox[temp[0]]}
			temp[0] ^= rcon
			rcon = block.XTime(rcon)
		}
		for j := range temp {
			words[i][j] = words[i-nk][j] ^ temp[j]
		}
	}
	keys := make([]block.Block, rounds+1)
	for t := range keys {
		data := make([]byte, 0, 16)
		for _, w := range words[nk*t : nk*t+nk] {
			data = append(data, w[:]...)
		}
		if keys[t], err = block.ByteMatrixFromColumns(data, rows); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
