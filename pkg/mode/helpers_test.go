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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
	"github.com/jeremyhahn/go-blockcipher/pkg/executor"
	"github.com/jeremyhahn/go-blockcipher/pkg/feistel"
	"github.com/jeremyhahn/go-blockcipher/pkg/logging"
	"github.com/jeremyhahn/go-blockcipher/pkg/sp"
)

// identityCipher returns every block unchanged.
type identityCipher struct {
	bits int
}

func (c identityCipher) BlockBits() int { return c.bits }

func (identityCipher) Codec() block.Codec { return block.BitVectorCodec{} }

func (identityCipher) Name() string { return "identity" }

func (identityCipher) Encrypt(b block.Block) (block.Block, error) { return b.Clone(), nil }

func (identityCipher) Decrypt(b block.Block) (block.Block, error) { return b.Clone(), nil }

// failingCipher fails every decryption.
type failingCipher struct {
	identityCipher
	err error
}

func (c failingCipher) Decrypt(block.Block) (block.Block, error) { return nil, c.err }

// slowCipher sleeps before every block operation.
type slowCipher struct {
	identityCipher
	delay time.Duration
}

func (c slowCipher) Encrypt(b block.Block) (block.Block, error) {
	time.Sleep(c.delay)
	return c.identityCipher.Encrypt(b)
}

func (c slowCipher) Decrypt(b block.Block) (block.Block, error) {
	time.Sleep(c.delay)
	return c.identityCipher.Decrypt(b)
}

func newTestPool(t *testing.T, opts ...executor.Option) *executor.Pool {
	t.Helper()
	pool := executor.NewPool(append([]executor.Option{executor.WithLogger(logging.Discard())}, opts...)...)
	t.Cleanup(func() {
		_ = pool.Shutdown(context.Background())
	})
	return pool
}

func newTestEngine(t *testing.T, c Cipher, opts ...Option) *Engine {
	t.Helper()
	base := []Option{WithLogger(logging.Discard()), WithPool(newTestPool(t))}
	e, err := New(c, append(base, opts...)...)
	require.NoError(t, err)
	return e
}

func testCiphers(t *testing.T) map[string]Cipher {
	t.Helper()
	f, err := feistel.NewCipher("correct horse")
	require.NoError(t, err)
	s, err := sp.NewCipher("battery staple")
	require.NoError(t, err)
	return map[string]Cipher{
		"feistel":  f,
		"sp":       s,
		"identity": identityCipher{bits: 128},
	}
}

func zeroSeed(t *testing.T, bits int) Option {
	t.Helper()
	z, err := block.NewZeroBitVector(bits)
	require.NoError(t, err)
	return WithSeedBlock(z)
}

func units(s string) []uint16 {
	return block.UnitsFromString(s)
}
