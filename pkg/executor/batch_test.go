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

package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatches(t *testing.T) {
	tests := []struct {
		name  string
		total int
		size  int
		want  []Window
	}{
		{name: "empty", total: 0, size: 10, want: nil},
		{name: "single partial", total: 3, size: 10, want: []Window{{0, 3}}},
		{name: "exact", total: 4, size: 2, want: []Window{{0, 2}, {2, 4}}},
		{name: "remainder", total: 5, size: 2, want: []Window{{0, 2}, {2, 4}, {4, 5}}},
		{name: "default size", total: 3001, size: 0, want: []Window{{0, 1500}, {1500, 3000}, {3000, 3001}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Batches(tt.total, tt.size))
		})
	}
}

func TestBatchesCoverRange(t *testing.T) {
	windows := Batches(4567, 1500)
	next := 0
	for _, w := range windows {
		assert.Equal(t, next, w.Start)
		assert.LessOrEqual(t, w.Len(), 1500)
		next = w.End
	}
	assert.Equal(t, 4567, next)
}
