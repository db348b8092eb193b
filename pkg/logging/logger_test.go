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

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Output: &buf})

	l.Debug("hidden")
	l.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())
	assert.False(t, l.IsDebug())

	l.Infof("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestJSONFormatWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "json", Output: &buf}).With("operation_id", "abc")

	l.Debug("batch done", "batch", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "batch done", record["msg"])
	assert.Equal(t, "abc", record["operation_id"])
	assert.Equal(t, float64(3), record["batch"])
}

func TestErrorHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Output: &buf})

	l.MaybeError(nil)
	assert.Empty(t, buf.String())

	l.MaybeError(errors.New("boom"))
	l.Error(errors.New("bang"), "mode", "cbc")
	out := buf.String()
	assert.Contains(t, out, "boom")
	assert.True(t, strings.Contains(out, "bang") && strings.Contains(out, "mode=cbc"))
}
