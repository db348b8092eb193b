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

package feistel

import (
	"fmt"
	"math/bits"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
)

const (
	// Name identifies the cipher in logs and metrics.
	Name = "feistel"

	// BlockBits is the block width of Cipher: eight 16-bit code units.
	BlockBits = 128

	// DefaultRounds is the round count used when none is configured.
	DefaultRounds = 16

	// DefaultKey is the key string used when none is configured.
	DefaultKey = "abc"

	halfBits = BlockBits / 2
)

// shifts is the cumulative rotation schedule of the DES key halves.
var shifts = [16]int{1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1}

// sbox holds the four rows of DES S-box S1. Nibble j of a half block is
// substituted through row j%4.
var sbox = [4][16]uint64{
	{14, 4, 13, 1, 2, 15, 11, 8, 3, 10, 6, 12, 5, 9, 0, 7},
	{0, 15, 7, 4, 14, 2, 13, 1, 10, 6, 12, 11, 9, 5, 3, 8},
	{4, 1, 14, 8, 13, 6, 2, 11, 15, 12, 9, 7, 3, 10, 5, 0},
	{15, 12, 8, 2, 4, 9, 1, 7, 5, 11, 3, 14, 10, 0, 6, 13},
}

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

// Cipher is a 128-bit Feistel cipher with a DES-flavoured round function:
// key mixing, the IP bit permutation, 4-bit S-box substitution and an
// 11-bit rotation.
type Cipher struct {
	*Network
}

// NewCipher returns a Cipher keyed by key. An empty key selects DefaultKey.
func NewCipher(key string, opts ...Option) (*Cipher, error) {
	o := options{rounds: DefaultRounds}
	for _, opt := range opts {
		opt(&o)
	}
	k, err := parseKey(key)
	if err != nil {
		return nil, err
	}
	n, err := NewNetwork(RoundFunc(roundFunction), ScheduleFunc(subKeys), k, BlockBits, o.rounds)
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
func (c *Cipher) Codec() block.Codec { return block.BitVectorCodec{} }

func parseKey(key string) (*block.BitVector, error) {
	if key == "" {
		key = DefaultKey
	}
	units, err := block.Format(key, BlockBits/16)
	if err != nil {
		return nil, fmt.Errorf("feistel: format key: %w", err)
	}
	return block.BitVectorFromUnits(units), nil
}

// subKeys folds the key to half width and rotates it by the cumulative
// DES schedule, which repeats after sixteen rounds.
func subKeys(key *block.BitVector, rounds int) ([]*block.BitVector, error) {
	if key.Bits() != BlockBits {
		return nil, fmt.Errorf("%w: key has %d bits, want %d", block.ErrInvalidArgument, key.Bits(), BlockBits)
	}
	left, err := key.SubBits(0, halfBits)
	if err != nil {
		return nil, err
	}
	right, err := key.SubBits(halfBits, BlockBits)
	if err != nil {
		return nil, err
	}
	folded, err := left.XorBits(right)
	if err != nil {
		return nil, err
	}
	keys := make([]*block.BitVector, rounds)
	offset := 0
	for r := range keys {
		offset = (offset + shifts[r%len(shifts)]) % halfBits
		keys[r], err = folded.Shift(offset, true)
		if err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func roundFunction(half, subKey *block.BitVector) (*block.BitVector, error) {
	if half.Bits() != halfBits {
		return nil, fmt.Errorf("%w: half block has %d bits, want %d", block.ErrInvalidArgument, half.Bits(), halfBits)
	}
	mixed, err := half.XorBits(subKey)
	if err != nil {
		return nil, err
	}
	permuted, err := mixed.Permute(block.IP())
	if err != nil {
		return nil, err
	}
	x, err := permuted.Uint64()
	if err != nil {
		return nil, err
	}
	var out uint64
	for j := 0; j < halfBits/4; j++ {
		nibble := x >> (halfBits - 4 - 4*j) & 0xf
		out = out<<4 | sbox[j%4][nibble]
	}
	return block.BitVectorFromUint(bits.RotateLeft64(out, 11), halfBits)
}
