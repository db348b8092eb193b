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

// Package mode runs block ciphers over whole messages. Messages are
// sequences of 16-bit code units; an engine chunks them into cipher
// blocks and applies one of the ECB, CBC, CFB or OFB modes of operation.
//
// ECB and CBC pad plaintext on the right with U+0000 to a whole number
// of blocks and strip trailing U+0000 units after decryption. CFB and
// OFB process each unit as two bytes through a feedback register and
// never pad. ECB and CBC also have parallel variants that hand blocks to
// an executor.Pool in bounded batches.
//
// Example:
//
//	c, _ := feistel.NewCipher("secret")
//	engine, err := mode.New(c)
//	if err != nil {
//	    return err
//	}
//	defer engine.Close(context.Background())
//
//	ct, err := engine.EncryptCBC(block.UnitsFromString("attack at dawn"))
package mode

import (
	"context"
	"fmt"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
	"github.com/jeremyhahn/go-blockcipher/pkg/executor"
	"github.com/jeremyhahn/go-blockcipher/pkg/metrics"
)

// Cipher is a symmetric block cipher with implicit key state.
type Cipher interface {
	// BlockBits returns the block width in bits, a multiple of 16.
	BlockBits() int

	// Codec converts code units to and from the cipher's blocks.
	Codec() block.Codec

	Encrypt(msg block.Block) (block.Block, error)
	Decrypt(pwd block.Block) (block.Block, error)
}

// Engine applies the modes of operation to a symmetric Cipher. It is
// safe for concurrent use when the cipher is.
type Engine struct {
	p      *pipeline
	cipher Cipher
	seed   block.Block
}

// New returns an engine for c.
func New(c Cipher, opts ...Option) (*Engine, error) {
	if c == nil {
		return nil, invalidf("nil cipher")
	}
	p, err := newPipeline(c, c.Codec(), c.BlockBits(), c.BlockBits(), newOptions(opts))
	if err != nil {
		return nil, err
	}
	seed, err := p.codec.FromUnits(p.seed)
	if err != nil {
		return nil, err
	}
	return &Engine{p: p, cipher: c, seed: seed}, nil
}

// BlockUnits returns the block width in code units.
func (e *Engine) BlockUnits() int { return e.p.plainUnits }

// Seed returns a copy of the initialization vector.
func (e *Engine) Seed() block.Block { return e.seed.Clone() }

// Name returns the cipher label used in logs and metrics.
func (e *Engine) Name() string { return e.p.name }

// EncryptECB encrypts each block independently.
func (e *Engine) EncryptECB(msg []uint16) ([]uint16, error) {
	return e.p.track(context.Background(), metrics.OpEncrypt, ECB, msg, func(context.Context) ([]uint16, error) {
		if err := e.p.checkPlaintext(msg); err != nil {
			return nil, err
		}
		return e.p.encryptECB(msg, e.cipher.Encrypt)
	})
}

// DecryptECB reverses EncryptECB.
func (e *Engine) DecryptECB(msg []uint16) ([]uint16, error) {
	return e.p.track(context.Background(), metrics.OpDecrypt, ECB, msg, func(context.Context) ([]uint16, error) {
		if err := e.p.checkCiphertext(msg); err != nil {
			return nil, err
		}
		return e.p.decryptECB(msg, e.cipher.Decrypt)
	})
}

// EncryptCBC XORs each plaintext block with the previous ciphertext
// block, or the seed for the first block, before encrypting it.
func (e *Engine) EncryptCBC(msg []uint16) ([]uint16, error) {
	return e.p.track(context.Background(), metrics.OpEncrypt, CBC, msg, func(context.Context) ([]uint16, error) {
		if err := e.p.checkPlaintext(msg); err != nil {
			return nil, err
		}
		return e.p.encryptCBC(msg, e.cipher.Encrypt)
	})
}

// DecryptCBC reverses EncryptCBC.
func (e *Engine) DecryptCBC(msg []uint16) ([]uint16, error) {
	return e.p.track(context.Background(), metrics.OpDecrypt, CBC, msg, func(context.Context) ([]uint16, error) {
		if err := e.p.checkCiphertext(msg); err != nil {
			return nil, err
		}
		return e.p.decryptCBC(msg, e.cipher.Decrypt)
	})
}

// EncryptECBParallel is EncryptECB with blocks encrypted on the pool.
func (e *Engine) EncryptECBParallel(ctx context.Context, msg []uint16) ([]uint16, error) {
	return e.p.track(ctx, metrics.OpEncrypt, ECBParallel, msg, func(ctx context.Context) ([]uint16, error) {
		if err := e.p.checkPlaintext(msg); err != nil {
			return nil, err
		}
		return e.p.encryptECBParallel(ctx, msg, e.cipher.Encrypt)
	})
}

// DecryptECBParallel is DecryptECB with blocks decrypted on the pool.
func (e *Engine) DecryptECBParallel(ctx context.Context, msg []uint16) ([]uint16, error) {
	return e.p.track(ctx, metrics.OpDecrypt, ECBParallel, msg, func(ctx context.Context) ([]uint16, error) {
		if err := e.p.checkCiphertext(msg); err != nil {
			return nil, err
		}
		return e.p.decryptECBParallel(ctx, msg, e.cipher.Decrypt)
	})
}

// EncryptCBCParallel produces the same output as EncryptCBC. Each block
// depends on the previous ciphertext, so the chain is computed on the
// calling goroutine; ctx is checked before starting.
func (e *Engine) EncryptCBCParallel(ctx context.Context, msg []uint16) ([]uint16, error) {
	return e.p.track(ctx, metrics.OpEncrypt, CBCParallel, msg, func(ctx context.Context) ([]uint16, error) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", executor.ErrInterrupted, err)
		}
		if err := e.p.checkPlaintext(msg); err != nil {
			return nil, err
		}
		return e.p.encryptCBC(msg, e.cipher.Encrypt)
	})
}

// DecryptCBCParallel is DecryptCBC with blocks decrypted on the pool.
func (e *Engine) DecryptCBCParallel(ctx context.Context, msg []uint16) ([]uint16, error) {
	return e.p.track(ctx, metrics.OpDecrypt, CBCParallel, msg, func(ctx context.Context) ([]uint16, error) {
		if err := e.p.checkCiphertext(msg); err != nil {
			return nil, err
		}
		return e.p.decryptCBCParallel(ctx, msg, e.cipher.Decrypt)
	})
}

// Encrypt dispatches to the encryption of mode m.
func (e *Engine) Encrypt(ctx context.Context, m Mode, msg []uint16) ([]uint16, error) {
	switch m {
	case ECB:
		return e.EncryptECB(msg)
	case CBC:
		return e.EncryptCBC(msg)
	case CFB:
		return e.EncryptCFB(msg)
	case OFB:
		return e.EncryptOFB(msg)
	case ECBParallel:
		return e.EncryptECBParallel(ctx, msg)
	case CBCParallel:
		return e.EncryptCBCParallel(ctx, msg)
	default:
		return nil, invalidMode(m)
	}
}

// Decrypt dispatches to the decryption of mode m.
func (e *Engine) Decrypt(ctx context.Context, m Mode, msg []uint16) ([]uint16, error) {
	switch m {
	case ECB:
		return e.DecryptECB(msg)
	case CBC:
		return e.DecryptCBC(msg)
	case CFB:
		return e.DecryptCFB(msg)
	case OFB:
		return e.DecryptOFB(msg)
	case ECBParallel:
		return e.DecryptECBParallel(ctx, msg)
	case CBCParallel:
		return e.DecryptCBCParallel(ctx, msg)
	default:
		return nil, invalidMode(m)
	}
}

// Close shuts down the engine's worker pool. Engines sharing the pool
// restart it on their next parallel call.
func (e *Engine) Close(ctx context.Context) error {
	return e.p.close(ctx)
}

func invalidMode(m Mode) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedMode, m)
}
