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

// Package asymmetric provides a modulus-based cipher over integer blocks.
//
// Encryption and decryption are both modular exponentiation,
// m^e mod n and c^d mod n. Keys arrive as opaque decimal strings; how
// they were generated is up to the caller. Ciphertext blocks are as wide
// as the modulus, which is wider than the plaintext block, so the mode
// engine chunks encryption and decryption input differently.
package asymmetric

import (
	"fmt"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
)

// Name identifies the cipher in logs and metrics.
const Name = "rsa"

// KeySet holds the three decimal strings that parametrize the cipher.
type KeySet struct {
	Modulus         string `yaml:"modulus" json:"modulus"`
	PublicExponent  string `yaml:"public_exponent" json:"public_exponent"`
	PrivateExponent string `yaml:"private_exponent" json:"private_exponent"`
}

// Public parses the public exponent.
func (k KeySet) Public() (*block.Integer, error) {
	return ParseKey(k.PublicExponent)
}

// Private parses the private exponent.
func (k KeySet) Private() (*block.Integer, error) {
	return ParseKey(k.PrivateExponent)
}

// Cipher returns a Cipher for the key set's modulus.
func (k KeySet) Cipher(opts ...Option) (*Cipher, error) {
	return New(k.Modulus, opts...)
}

// ParseKey parses a decimal exponent.
func ParseKey(s string) (*block.Integer, error) {
	k, err := block.IntegerFromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("asymmetric: parse key: %w", err)
	}
	return k, nil
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithBlockBits sets the plaintext block width. It must be a positive
// multiple of 16 below the modulus bit length.
func WithBlockBits(bits int) Option {
	return func(c *Cipher) {
		c.blockBits = bits
	}
}

// Cipher encrypts integer blocks by modular exponentiation.
type Cipher struct {
	modulus   *block.Integer
	blockBits int
}

// New returns a Cipher for the decimal modulus. The default plaintext
// width is the largest multiple of 16 strictly below the modulus bit
// length, so every plaintext block is smaller than the modulus.
func New(modulus string, opts ...Option) (*Cipher, error) {
	n, err := block.IntegerFromDecimal(modulus)
	if err != nil {
		return nil, fmt.Errorf("asymmetric: parse modulus: %w", err)
	}
	bits := n.Value().BitLen()
	if bits <= 16 {
		return nil, fmt.Errorf("%w: modulus of %d bits is too small", block.ErrInvalidArgument, bits)
	}
	c := &Cipher{modulus: n, blockBits: (bits - 1) / 16 * 16}
	for _, opt := range opts {
		opt(c)
	}
	if c.blockBits <= 0 || c.blockBits%16 != 0 || c.blockBits >= bits {
		return nil, fmt.Errorf("%w: plaintext width %d for a %d-bit modulus", block.ErrInvalidArgument, c.blockBits, bits)
	}
	return c, nil
}

// Name returns the cipher name.
func (c *Cipher) Name() string { return Name }

// BlockBits returns the plaintext block width.
func (c *Cipher) BlockBits() int { return c.blockBits }

// CipherBits returns the ciphertext block width, the modulus bit length.
func (c *Cipher) CipherBits() int { return c.modulus.Value().BitLen() }

// Codec returns the unit codec for integer blocks.
func (c *Cipher) Codec() block.Codec { return block.IntegerCodec{} }

// Encrypt returns msg^key mod n.
func (c *Cipher) Encrypt(msg, key block.Block) (block.Block, error) {
	return c.exp(msg, key)
}

// Decrypt returns pwd^key mod n.
func (c *Cipher) Decrypt(pwd, key block.Block) (block.Block, error) {
	return c.exp(pwd, key)
}

func (c *Cipher) exp(b, key block.Block) (block.Block, error) {
	m, ok := b.(*block.Integer)
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: asymmetric cipher needs an integer block, got %T", block.ErrInvalidArgument, b)
	}
	k, ok := key.(*block.Integer)
	if !ok || k == nil {
		return nil, fmt.Errorf("%w: asymmetric key must be an integer, got %T", block.ErrInvalidArgument, key)
	}
	out, err := m.Exp(k, c.modulus)
	if err != nil {
		return nil, fmt.Errorf("asymmetric: %w", err)
	}
	return out, nil
}
