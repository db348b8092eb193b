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

// Package feistel implements the Feistel block-cipher structure over
// bit-vector blocks.
//
// The Network fixes only the round recurrence. Each round maps (L, R)
// to (R, L xor F(R, k)); the output is L || R with no final swap.
// Decryption runs the sub-keys backwards and maps (L, R) to
// (R xor F(L, k), L). The structure is invertible for any deterministic
// round function F, which is supplied by a concrete cipher together with
// the sub-key schedule.
package feistel

import (
	"fmt"
	"sync"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
)

// RoundFunction computes F(half, subKey). The output must have the
// width of half.
type RoundFunction interface {
	Apply(half, subKey *block.BitVector) (*block.BitVector, error)
}

// RoundFunc adapts a function to RoundFunction.
type RoundFunc func(half, subKey *block.BitVector) (*block.BitVector, error)

// Apply implements RoundFunction.
func (f RoundFunc) Apply(half, subKey *block.BitVector) (*block.BitVector, error) {
	return f(half, subKey)
}

// KeySchedule derives one sub-key per round from a cipher key.
type KeySchedule interface {
	SubKeys(key *block.BitVector, rounds int) ([]*block.BitVector, error)
}

// ScheduleFunc adapts a function to KeySchedule.
type ScheduleFunc func(key *block.BitVector, rounds int) ([]*block.BitVector, error)

// SubKeys implements KeySchedule.
func (f ScheduleFunc) SubKeys(key *block.BitVector, rounds int) ([]*block.BitVector, error) {
	return f(key, rounds)
}

// Network is a keyed Feistel structure. It is safe for concurrent use;
// Rekey may run while other goroutines encrypt.
type Network struct {
	f        RoundFunction
	schedule KeySchedule
	bits     int
	rounds   int

	mu      sync.RWMutex
	subKeys []*block.BitVector
}

// NewNetwork returns a Network over blocks of the given even bit width.
func NewNetwork(f RoundFunction, schedule KeySchedule, key *block.BitVector, bits, rounds int) (*Network, error) {
	if f == nil || schedule == nil {
		return nil, fmt.Errorf("%w: round function and key schedule are required", block.ErrInvalidArgument)
	}
	if bits <= 0 || bits%2 != 0 {
		return nil, fmt.Errorf("%w: block width %d is not a positive even number", block.ErrInvalidArgument, bits)
	}
	if rounds <= 0 {
		return nil, fmt.Errorf("%w: round count %d", block.ErrInvalidArgument, rounds)
	}
	n := &Network{f: f, schedule: schedule, bits: bits, rounds: rounds}
	if err := n.Rekey(key); err != nil {
		return nil, err
	}
	return n, nil
}

// Rekey regenerates the sub-keys.
func (n *Network) Rekey(key *block.BitVector) error {
	if key == nil {
		return fmt.Errorf("%w: nil key", block.ErrInvalidArgument)
	}
	subKeys, err := n.schedule.SubKeys(key, n.rounds)
	if err != nil {
		return fmt.Errorf("feistel: derive sub-keys: %w", err)
	}
	if len(subKeys) != n.rounds {
		return fmt.Errorf("%w: schedule returned %d sub-keys for %d rounds", block.ErrInvalidArgument, len(subKeys), n.rounds)
	}
	n.mu.Lock()
	n.subKeys = subKeys
	n.mu.Unlock()
	return nil
}

// Bits returns the block width.
func (n *Network) Bits() int { return n.bits }

// Rounds returns the round count.
func (n *Network) Rounds() int { return n.rounds }

// Encrypt runs the rounds forward.
func (n *Network) Encrypt(msg block.Block) (block.Block, error) {
	left, right, err := n.split(msg)
	if err != nil {
		return nil, err
	}
	for r, k := range n.keys() {
		f, err := n.f.Apply(right, k)
		if err != nil {
			return nil, fmt.Errorf("feistel: round %d: %w", r, err)
		}
		mixed, err := left.XorBits(f)
		if err != nil {
			return nil, fmt.Errorf("feistel: round %d: %w", r, err)
		}
		left, right = right, mixed
	}
	out, err := left.Concat(right)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decrypt runs the rounds backward.
func (n *Network) Decrypt(pwd block.Block) (block.Block, error) {
	left, right, err := n.split(pwd)
	if err != nil {
		return nil, err
	}
	keys := n.keys()
	for r := len(keys) - 1; r >= 0; r-- {
		f, err := n.f.Apply(left, keys[r])
		if err != nil {
			return nil, fmt.Errorf("feistel: round %d: %w", r, err)
		}
		mixed, err := right.XorBits(f)
		if err != nil {
			return nil, fmt.Errorf("feistel: round %d: %w", r, err)
		}
		left, right = mixed, left
	}
	out, err := left.Concat(right)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (n *Network) keys() []*block.BitVector {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.subKeys
}

func (n *Network) split(b block.Block) (*block.BitVector, *block.BitVector, error) {
	v, ok := b.(*block.BitVector)
	if !ok || v == nil {
		return nil, nil, fmt.Errorf("%w: feistel network needs a bit vector, got %T", block.ErrInvalidArgument, b)
	}
	if v.Bits() != n.bits {
		return nil, nil, fmt.Errorf("%w: block has %d bits, want %d", block.ErrInvalidArgument, v.Bits(), n.bits)
	}
	half := n.bits / 2
	left, err := v.SubBits(0, half)
	if err != nil {
		return nil, nil, err
	}
	right, err := v.SubBits(half, n.bits)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}
