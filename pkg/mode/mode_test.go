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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-blockcipher/pkg/block"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"ecb", ECB},
		{"CBC", CBC},
		{" cfb ", CFB},
		{"ofb", OFB},
		{"ecb-parallel", ECBParallel},
		{"CBC_PARALLEL", CBCParallel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMode("ctr")
	assert.ErrorIs(t, err, ErrUnsupportedMode)
	assert.ErrorIs(t, err, block.ErrInvalidArgument)
}

func TestModeStringRoundTrip(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	assert.Equal(t, "mode(0)", Mode(0).String())
}

func TestModeKinds(t *testing.T) {
	assert.True(t, ECBParallel.Parallel())
	assert.True(t, CBCParallel.Parallel())
	assert.False(t, CBC.Parallel())
	assert.True(t, CFB.Stream())
	assert.True(t, OFB.Stream())
	assert.False(t, ECB.Stream())
}

func TestPad(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3, 4, 5, 0, 0, 0}, Pad([]uint16{1, 2, 3, 4, 5}, 8))
	assert.Equal(t, []uint16{1, 2}, Pad([]uint16{1, 2}, 2))
	assert.Empty(t, Pad(nil, 8))

	in := []uint16{7}
	out := Pad(in, 4)
	out[0] = 9
	assert.Equal(t, uint16(7), in[0])
}

func TestTrim(t *testing.T) {
	assert.Equal(t, []uint16{1, 0, 2}, Trim([]uint16{1, 0, 2, 0, 0}))
	assert.Empty(t, Trim([]uint16{0, 0}))
	assert.Equal(t, []uint16{3}, Trim([]uint16{3}))
}
