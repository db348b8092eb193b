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
	"testing"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rotateLayers substitutes nothing and permutes by a one-bit rotation.
type rotateLayers struct{}

func (rotateLayers) Substitute(b block.Block) (block.Block, error)        { return b, nil }
func (rotateLayers) InverseSubstitute(b block.Block) (block.Block, error) { return b, nil }
func (rotateLayers) Permute(b block.Block) (block.Block, error)           { return b.LeftShift(1, true) }
func (rotateLayers) InversePermute(b block.Block) (block.Block, error) {
	return b.LeftShift(b.Bits()-1, true)
}

func countingExpander(key block.Block, rounds int) ([]block.Block, error) {
	keys := make([]block.Block, rounds+1)
	for i := range keys {
		k, err := block.BitVectorFromUint(uint64(i+1), 16)
		if err != nil {
			return nil, err
		}
		mixed, err := k.Xor(key)
		if err != nil {
			return nil, err
		}
		keys[i] = mixed
	}
	return keys, nil
}

func TestNetworkRecurrence(t *testing.T) {
	key := block.BitVectorFromUnits([]uint16{0})
	n, err := NewNetwork(rotateLayers{}, ExpanderFunc(countingExpander), key, 2)
	require.NoError(t, err)

	msg := block.BitVectorFromUnits([]uint16{0x8000})
	out, err := n.Encrypt(msg)
	require.NoError(t, err)

	// ((0x8000 ^ 1) rotl 1 ^ 2) rotl 1 ^ 3
	want := uint64(0x8000^1)<<1&0xffff | 1
	want ^= 2
	want = want<<1&0xffff | want>>15
	want ^= 3
	got, err := out.(*block.BitVector).Uint64()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	back, err := n.Decrypt(out)
	require.NoError(t, err)
	assert.True(t, msg.Equal(back.(*block.BitVector)))
}

func TestNetworkValidation(t *testing.T) {
	key := block.BitVectorFromUnits([]uint16{0})

	_, err := NewNetwork(nil, ExpanderFunc(countingExpander), key, 2)
	assert.ErrorIs(t, err, block.ErrInvalidArgument)
	_, err = NewNetwork(rotateLayers{}, ExpanderFunc(countingExpander), key, 0)
	assert.ErrorIs(t, err, block.ErrInvalidArgument)

	short := ExpanderFunc(func(key block.Block, rounds int) ([]block.Block, error) {
		return []block.Block{key}, nil
	})
	_, err = NewNetwork(rotateLayers{}, short, key, 2)
	assert.ErrorIs(t, err, block.ErrInvalidArgument)

	n, err := NewNetwork(rotateLayers{}, ExpanderFunc(countingExpander), key, 2)
	require.NoError(t, err)
	_, err = n.Encrypt(block.BitVectorFromUnits([]uint16{1, 2}))
	assert.ErrorIs(t, err, block.ErrInvalidArgument)
	_, err = n.Decrypt(nil)
	assert.ErrorIs(t, err, block.ErrInvalidArgument)
}
