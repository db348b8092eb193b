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

package mode

import (
	"context"
	"fmt"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
	"github.com/jeremyhahn/go-blockcipher/pkg/executor"
	"github.com/jeremyhahn/go-blockcipher/pkg/metrics"
)

// AsymmetricCipher is a block cipher keyed per call whose ciphertext
// blocks may be wider than its plaintext blocks.
type AsymmetricCipher interface {
	// BlockBits returns the plaintext block width, a multiple of 16.
	BlockBits() int

	// CipherBits returns the ciphertext block width.
	CipherBits() int

	Codec() block.Codec
	Encrypt(msg, key block.Block) (block.Block, error)
	Decrypt(pwd, key block.Block) (block.Block, error)
}

// AsymmetricEngine applies ECB and CBC to an AsymmetricCipher. Each
// ciphertext block is ceil(CipherBits/16) units, left-padded with zero
// units. CBC carries the low plaintext-width units of the previous
// ciphertext block as its chain.
type AsymmetricEngine struct {
	p      *pipeline
	cipher AsymmetricCipher
}

// NewAsymmetric returns an engine for c.
func NewAsymmetric(c AsymmetricCipher, opts ...Option) (*AsymmetricEngine, error) {
	if c == nil {
		return nil, invalidf("nil cipher")
	}
	p, err := newPipeline(c, c.Codec(), c.BlockBits(), c.CipherBits(), newOptions(opts))
	if err != nil {
		return nil, err
	}
	return &AsymmetricEngine{p: p, cipher: c}, nil
}

// BlockUnits returns the plaintext block width in code units.
func (e *AsymmetricEngine) BlockUnits() int { return e.p.plainUnits }

// CipherUnits returns the ciphertext block width in code units.
func (e *AsymmetricEngine) CipherUnits() int { return e.p.cipherUnits }

// Name returns the cipher label used in logs and metrics.
func (e *AsymmetricEngine) Name() string { return e.p.name }

func (e *AsymmetricEngine) encryptWith(key block.Block) (blockFunc, error) {
	if key == nil {
		return nil, invalidf("nil key")
	}
	return func(b block.Block) (block.Block, error) {
		return e.cipher.Encrypt(b, key)
	}, nil
}

func (e *AsymmetricEngine) decryptWith(key block.Block) (blockFunc, error) {
	if key == nil {
		return nil, invalidf("nil key")
	}
	return func(b block.Block) (block.Block, error) {
		return e.cipher.Decrypt(b, key)
	}, nil
}

// EncryptECB encrypts each block independently with key.
func (e *AsymmetricEngine) EncryptECB(msg []uint16, key block.Block) ([]uint16, error) {
	return e.encrypt(context.Background(), ECB, msg, key)
}

// DecryptECB reverses EncryptECB.
func (e *AsymmetricEngine) DecryptECB(msg []uint16, key block.Block) ([]uint16, error) {
	return e.decrypt(context.Background(), ECB, msg, key)
}

// EncryptCBC chains blocks through the previous ciphertext.
func (e *AsymmetricEngine) EncryptCBC(msg []uint16, key block.Block) ([]uint16, error) {
	return e.encrypt(context.Background(), CBC, msg, key)
}

// DecryptCBC reverses EncryptCBC.
func (e *AsymmetricEngine) DecryptCBC(msg []uint16, key block.Block) ([]uint16, error) {
	return e.decrypt(context.Background(), CBC, msg, key)
}

// EncryptECBParallel is EncryptECB on the pool.
func (e *AsymmetricEngine) EncryptECBParallel(ctx context.Context, msg []uint16, key block.Block) ([]uint16, error) {
	return e.encrypt(ctx, ECBParallel, msg, key)
}

// DecryptECBParallel is DecryptECB on the pool.
func (e *AsymmetricEngine) DecryptECBParallel(ctx context.Context, msg []uint16, key block.Block) ([]uint16, error) {
	return e.decrypt(ctx, ECBParallel, msg, key)
}

// EncryptCBCParallel produces the same output as EncryptCBC; the chain
// is computed on the calling goroutine.
func (e *AsymmetricEngine) EncryptCBCParallel(ctx context.Context, msg []uint16, key block.Block) ([]uint16, error) {
	return e.encrypt(ctx, CBCParallel, msg, key)
}

// DecryptCBCParallel is DecryptCBC on the pool.
func (e *AsymmetricEngine) DecryptCBCParallel(ctx context.Context, msg []uint16, key block.Block) ([]uint16, error) {
	return e.decrypt(ctx, CBCParallel, msg, key)
}

// Encrypt dispatches to the encryption of mode m. Stream modes are not
// supported.
func (e *AsymmetricEngine) Encrypt(ctx context.Context, m Mode, msg []uint16, key block.Block) ([]uint16, error) {
	return e.encrypt(ctx, m, msg, key)
}

// Decrypt dispatches to the decryption of mode m.
func (e *AsymmetricEngine) Decrypt(ctx context.Context, m Mode, msg []uint16, key block.Block) ([]uint16, error) {
	return e.decrypt(ctx, m, msg, key)
}

// Close shuts down the engine's worker pool.
func (e *AsymmetricEngine) Close(ctx context.Context) error {
	return e.p.close(ctx)
}

func (e *AsymmetricEngine) encrypt(ctx context.Context, m Mode, msg []uint16, key block.Block) ([]uint16, error) {
	return e.p.track(ctx, metrics.OpEncrypt, m, msg, func(ctx context.Context) ([]uint16, error) {
		enc, err := e.encryptWith(key)
		if err != nil {
			return nil, err
		}
		if err := e.p.checkPlaintext(msg); err != nil {
			return nil, err
		}
		switch m {
		case ECB:
			return e.p.encryptECB(msg, enc)
		case CBC:
			return e.p.encryptCBC(msg, enc)
		case ECBParallel:
			return e.p.encryptECBParallel(ctx, msg, enc)
		case CBCParallel:
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", executor.ErrInterrupted, err)
			}
			return e.p.encryptCBC(msg, enc)
		default:
			return nil, invalidMode(m)
		}
	})
}

func (e *AsymmetricEngine) decrypt(ctx context.Context, m Mode, msg []uint16, key block.Block) ([]uint16, error) {
	return e.p.track(ctx, metrics.OpDecrypt, m, msg, func(ctx context.Context) ([]uint16, error) {
		dec, err := e.decryptWith(key)
		if err != nil {
			return nil, err
		}
		if err := e.p.checkCiphertext(msg); err != nil {
			return nil, err
		}
		switch m {
		case ECB:
			return e.p.decryptECB(msg, dec)
		case CBC:
			return e.p.decryptCBC(msg, dec)
		case ECBParallel:
			return e.p.decryptECBParallel(ctx, msg, dec)
		case CBCParallel:
			return e.p.decryptCBCParallel(ctx, msg, dec)
		default:
			return nil, invalidMode(m)
		}
	})
}
