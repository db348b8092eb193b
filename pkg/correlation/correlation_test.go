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

package correlation

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type otherKey string

func TestWithOperationID(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		id   string
		want string
	}{
		{
			name: "Add operation ID to context",
			ctx:  context.Background(),
			id:   "op-1",
			want: "op-1",
		},
		{
			name: "Add operation ID to nil context",
			ctx:  nil,
			id:   "op-2",
			want: "op-2",
		},
		{
			name: "Add empty operation ID",
			ctx:  context.Background(),
			id:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithOperationID(tt.ctx, tt.id)
			if ctx == nil {
				t.Fatal("WithOperationID returned nil context")
			}
			if got := OperationID(ctx); got != tt.want {
				t.Errorf("OperationID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOperationIDMissing(t *testing.T) {
	if got := OperationID(context.Background()); got != "" {
		t.Errorf("OperationID() = %v, want empty", got)
	}
	//nolint:staticcheck // nil context is part of the contract
	if got := OperationID(nil); got != "" {
		t.Errorf("OperationID(nil) = %v, want empty", got)
	}
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		got := NewID()
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("NewID() returned invalid UUID: %v, error: %v", got, err)
		}
		if seen[got] {
			t.Errorf("NewID() returned duplicate ID: %v", got)
		}
		seen[got] = true
	}
}

func TestEnsure(t *testing.T) {
	t.Run("keeps existing ID", func(t *testing.T) {
		parent := WithOperationID(context.Background(), "existing")
		ctx, id := Ensure(parent)
		if id != "existing" {
			t.Errorf("Ensure() id = %v, want existing", id)
		}
		if ctx != parent {
			t.Error("Ensure() should return the parent context unchanged")
		}
	})

	t.Run("generates missing ID", func(t *testing.T) {
		ctx, id := Ensure(context.Background())
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("Ensure() returned invalid UUID: %v", err)
		}
		if got := OperationID(ctx); got != id {
			t.Errorf("OperationID() = %v, want %v", got, id)
		}
	})
}

func TestOperationIDPropagation(t *testing.T) {
	parent := WithOperationID(context.Background(), "parent")
	child := context.WithValue(parent, otherKey("k"), "v")
	if got := OperationID(child); got != "parent" {
		t.Errorf("operation ID not propagated, got %v", got)
	}
}

func TestContextKeyIsolation(t *testing.T) {
	ctx := context.WithValue(context.Background(), otherKey("operation-id"), "wrong")
	ctx = WithOperationID(ctx, "right")
	if got := OperationID(ctx); got != "right" {
		t.Errorf("context key collision detected, got %v", got)
	}
}

func BenchmarkNewID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		NewID()
	}
}

func BenchmarkEnsure(b *testing.B) {
	ctx := context.Background()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		Ensure(ctx)
	}
}
