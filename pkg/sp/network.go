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

// Package sp implements the substitution-permutation block-cipher
// structure.
//
// Encryption whitens with round key 0, then for each round t = 1..R
// substitutes, permutes and whitens with round key t. Decryption undoes
// the rounds in reverse order and finishes by whitening with round key 0.
// Whitening is Block XOR; the substitution and permutation layers and the
// key expansion come from a concrete cipher.
package sp

import (
	"fmt"
	"sync"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
)

// Layers are the cipher-specific transforms of one round. Each inverse
// must undo its forward transform exactly.
type Layers interface {
	Substitute(b block.Block) (block.Block, error)
	Permute(b block.Block) (block.Block, error)
	InverseSubstitute(b block.Block) (block.Block, error)
	InversePermute(b block.Block) (block.Block, error)
}

// KeyExpander derives rounds+1 round keys from a cipher key.
type KeyExpander interface {
	Expand(key block.Block, rounds int) ([]block.Block, error)
}

// ExpanderFunc adapts a function to KeyExpander.
type ExpanderFunc func(key block.Block, rounds int) ([]block.Block, error)

// Expand implements KeyExpander.
func (f ExpanderFunc) Expand(key block.Block, rounds int) ([]block.Block, error) {
	return f(key, rounds)
}

// Network is a keyed SP structure, safe for concurrent use.
type Network struct {
	layers   Layers
	expander KeyExpander
	rounds   int

	mu        sync.RWMutex
	roundKeys []block.Block
}

// NewNetwork returns a Network keyed by key.
func NewNetwork(layers Layers, expander KeyExpander, key block.Block, rounds int) (*Network, error) {
	if layers == nil || expander == nil {
		return nil, fmt.Errorf("%w: layers and key expander are required", block.ErrInvalidArgument)
	}
	if rounds <= 0 {
		return nil, fmt.Errorf("%w: round count %d", block.ErrInvalidArgument, rounds)
	}
	n := &Network{layers: layers, expander: expander, rounds: rounds}
	if err := n.Rekey(key); err != nil {
		return nil, err
	}
	return n, nil
}

// Rekey regenerates the round keys.
func (n *Network) Rekey(key block.Block) error {
	if key == nil {
		return fmt.Errorf("%w: nil key", block.ErrInvalidArgument)
	}
	keys, err := n.expander.Expand(key, n.rounds)
	if err != nil {
		return fmt.Errorf("sp: expand key: %w", err)
	}
	if len(keys) != n.rounds+1 {
		return fmt.Errorf("%w: expander returned %d round keys for %d rounds", block.ErrInvalidArgument, len(keys), n.rounds)
	}
	n.mu.Lock()
	n.roundKeys = keys
	n.mu.Unlock()
	return nil
}

// Rounds returns the round count.
func (n *Network) Rounds() int { return n.rounds }

// Encrypt runs whitening followed by the forward rounds.
func (n *Network) Encrypt(msg block.Block) (block.Block, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil block", block.ErrInvalidArgument)
	}
	keys := n.keys()
	out, err := msg.Xor(keys[0])
	if err != nil {
		return nil, fmt.Errorf("sp: whiten: %w", err)
	}
	for t := 1; t <= n.rounds; t++ {
		if out, err = n.layers.Substitute(out); err != nil {
			return nil, fmt.Errorf("sp: round %d substitute: %w", t, err)
		}
		if out, err = n.layers.Permute(out); err != nil {
			return nil, fmt.Errorf("sp: round %d permute: %w", t, err)
		}
		if out, err = out.Xor(keys[t]); err != nil {
			return nil, fmt.Errorf("sp: round %d whiten: %w", t, err)
		}
	}
	return out, nil
}

// Decrypt inverts Encrypt.
func (n *Network) Decrypt(pwd block.Block) (block.Block, error) {
	if pwd == nil {
		return nil, fmt.Errorf("%w: nil block", block.ErrInvalidArgument)
	}
	keys := n.keys()
	out := pwd
	var err error
	for t := n.rounds; t >= 1; t-- {
		if out, err = out.Xor(keys[t]); err != nil {
			return nil, fmt.Errorf("sp: round %d whiten: %w", t, err)
		}
		if out, err = n.layers.InversePermute(out); err != nil {
			return nil, fmt.Errorf("sp: round %d inverse permute: %w", t, err)
		}
		if out, err = n.layers.InverseSubstitute(out); err != nil {
			return nil, fmt.Errorf("sp: round %d inverse substitute: %w", t, err)
		}
	}
	out, err = out.Xor(keys[0])
	if err != nil {
		return nil, fmt.Errorf("sp: whiten: %w", err)
	}
	return out, nil
}

func (n *Network) keys() []block.Block {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.roundKeys
}
