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
	"github.com/jeremyhahn/go-blockcipher/pkg/metrics"
)

// feedback picks the byte loaded into the register after each step from
// the input byte, the output byte and the key byte.
type feedback func(in, out, key byte) byte

func cipherFeedbackEncrypt(_, out, _ byte) byte { return out }

func cipherFeedbackDecrypt(in, _, _ byte) byte { return in }

func outputFeedback(_, _, key byte) byte { return key }

// EncryptCFB encrypts in cipher feedback mode, one byte at a time with
// the high byte of each unit first.
func (e *Engine) EncryptCFB(msg []uint16) ([]uint16, error) {
	return e.runStream(metrics.OpEncrypt, CFB, msg, cipherFeedbackEncrypt)
}

// DecryptCFB reverses EncryptCFB. The register is loaded with the
// ciphertext byte, as during encryption.
func (e *Engine) DecryptCFB(msg []uint16) ([]uint16, error) {
	return e.runStream(metrics.OpDecrypt, CFB, msg, cipherFeedbackDecrypt)
}

// EncryptOFB encrypts in output feedback mode. Encryption and decryption
// are the same operation.
func (e *Engine) EncryptOFB(msg []uint16) ([]uint16, error) {
	return e.runStream(metrics.OpEncrypt, OFB, msg, outputFeedback)
}

// DecryptOFB reverses EncryptOFB.
func (e *Engine) DecryptOFB(msg []uint16) ([]uint16, error) {
	return e.runStream(metrics.OpDecrypt, OFB, msg, outputFeedback)
}

func (e *Engine) runStream(op string, m Mode, msg []uint16, fb feedback) ([]uint16, error) {
	return e.p.track(context.Background(), op, m, msg, func(context.Context) ([]uint16, error) {
		if err := e.p.checkPlaintext(msg); err != nil {
			return nil, err
		}
		return e.stream(msg, fb)
	})
}

func (e *Engine) stream(msg []uint16, fb feedback) ([]uint16, error) {
	reg, err := block.NewRegister(e.seed)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, len(msg))
	for i, u := range msg {
		high, err := e.step(reg, byte(u>>8), fb)
		if err != nil {
			return nil, fmt.Errorf("mode: unit %d: %w", i, err)
		}
		second, err := e.step(reg, byte(u), fb)
		if err != nil {
			return nil, fmt.Errorf("mode: unit %d: %w", i, err)
		}
		out[i] = uint16(high)<<8 | uint16(second)
	}
	return out, nil
}

// step replaces the register with its encryption, XORs in with the first
// register byte and pushes the feedback byte.
func (e *Engine) step(reg *block.Register, in byte, fb feedback) (byte, error) {
	if err := reg.Feed(e.cipher.Encrypt); err != nil {
		return 0, err
	}
	key, err := reg.Head()
	if err != nil {
		return 0, err
	}
	out := in ^ key
	if err := reg.Push(fb(in, out, key)); err != nil {
		return 0, err
	}
	return out, nil
}
