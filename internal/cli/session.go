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

package cli

import (
	"context"
	"fmt"

	"github.com/jeremyhahn/go-blockcipher/internal/config"
	"github.com/jeremyhahn/go-blockcipher/pkg/executor"
	"github.com/jeremyhahn/go-blockcipher/pkg/logging"
	"github.com/jeremyhahn/go-blockcipher/pkg/metrics"
	"github.com/jeremyhahn/go-blockcipher/pkg/mode"
)

// session holds the engine and pool built for one command invocation.
// Exactly one of engine and asym is set.
type session struct {
	settings *config.Config
	logger   *logging.Logger
	pool     *executor.Pool
	mode     mode.Mode
	engine   *mode.Engine
	asym     *mode.AsymmetricEngine
}

// newSession resolves settings and builds the configured engine. Extra
// options are applied after the configured ones.
func (c *Config) newSession(extra ...mode.Option) (*session, error) {
	s, err := c.Settings()
	if err != nil {
		return nil, err
	}

	if s.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	m, err := s.Mode()
	if err != nil {
		return nil, err
	}

	logger := s.Logger()
	pool := executor.NewPool(append(s.PoolOptions(), executor.WithLogger(logger))...)

	opts := append(s.EngineOptions(), mode.WithPool(pool), mode.WithLogger(logger))
	opts = append(opts, extra...)

	sess := &session{settings: s, logger: logger, pool: pool, mode: m}
	switch s.Engine.Cipher {
	case config.CipherAsymmetric:
		cipher, err := s.Asymmetric.Cipher()
		if err != nil {
			return nil, err
		}
		if sess.asym, err = mode.NewAsymmetric(cipher, opts...); err != nil {
			return nil, err
		}
	case config.CipherSP:
		cipher, err := s.SPCipher()
		if err != nil {
			return nil, err
		}
		if sess.engine, err = mode.New(cipher, opts...); err != nil {
			return nil, err
		}
	default:
		cipher, err := s.FeistelCipher()
		if err != nil {
			return nil, err
		}
		if sess.engine, err = mode.New(cipher, opts...); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (s *session) cipherName() string {
	if s.asym != nil {
		return s.asym.Name()
	}
	return s.engine.Name()
}

func (s *session) encrypt(ctx context.Context, msg []uint16) ([]uint16, error) {
	if s.asym != nil {
		key, err := s.settings.Asymmetric.Public()
		if err != nil {
			return nil, fmt.Errorf("public exponent: %w", err)
		}
		return s.asym.Encrypt(ctx, s.mode, msg, key)
	}
	return s.engine.Encrypt(ctx, s.mode, msg)
}

func (s *session) decrypt(ctx context.Context, msg []uint16) ([]uint16, error) {
	if s.asym != nil {
		key, err := s.settings.Asymmetric.Private()
		if err != nil {
			return nil, fmt.Errorf("private exponent: %w", err)
		}
		return s.asym.Decrypt(ctx, s.mode, msg, key)
	}
	return s.engine.Decrypt(ctx, s.mode, msg)
}

func (s *session) close(ctx context.Context) error {
	if s.asym != nil {
		return s.asym.Close(ctx)
	}
	return s.engine.Close(ctx)
}
