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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsEnabled(t *testing.T) {
	// Metrics should be enabled by default
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled by default")
	}

	Disable()
	if IsEnabled() {
		t.Error("Expected metrics to be disabled after Disable()")
	}

	Enable()
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled after Enable()")
	}
}

func TestRecordOperation(t *testing.T) {
	Enable()
	OperationsTotal.Reset()
	OperationDuration.Reset()

	RecordOperation(OpEncrypt, "cbc", "feistel", StatusSuccess, 0.01)
	if count := testutil.CollectAndCount(OperationsTotal); count != 1 {
		t.Errorf("Expected 1 operation series, got %d", count)
	}
	if count := testutil.CollectAndCount(OperationDuration); count != 1 {
		t.Errorf("Expected 1 histogram series, got %d", count)
	}

	RecordOperation(OpEncrypt, "cbc", "feistel", StatusSuccess, 0.02)
	RecordOperation(OpDecrypt, "ecb", "sp", StatusError, 0.02)
	if got := testutil.ToFloat64(OperationsTotal.WithLabelValues(OpEncrypt, "cbc", "feistel", StatusSuccess)); got != 2 {
		t.Errorf("Expected 2 successful cbc encryptions, got %v", got)
	}
	if count := testutil.CollectAndCount(OperationsTotal); count != 2 {
		t.Errorf("Expected 2 operation series, got %d", count)
	}
}

func TestRecordOperationWhenDisabled(t *testing.T) {
	Disable()
	defer Enable()
	OperationsTotal.Reset()

	RecordOperation(OpEncrypt, "ecb", "sp", StatusSuccess, 0.5)
	if count := testutil.CollectAndCount(OperationsTotal); count != 0 {
		t.Errorf("Expected 0 operations when disabled, got %d", count)
	}
}

func TestRecordError(t *testing.T) {
	Enable()
	ErrorsTotal.Reset()

	RecordError(OpDecrypt, "cbc", "feistel", "invalid_argument")
	RecordError(OpDecrypt, "cbc-parallel", "feistel", "timeout")
	if count := testutil.CollectAndCount(ErrorsTotal); count != 2 {
		t.Errorf("Expected 2 error series, got %d", count)
	}
}

func TestRecordBlocks(t *testing.T) {
	Enable()
	BlocksTotal.Reset()

	RecordBlocks("sp", 3)
	RecordBlocks("sp", 0)
	RecordBlocks("sp", 4)
	if got := testutil.ToFloat64(BlocksTotal.WithLabelValues("sp")); got != 7 {
		t.Errorf("Expected 7 blocks, got %v", got)
	}
}

func TestRecordBatch(t *testing.T) {
	Enable()
	BatchesTotal.Reset()
	before := testutil.ToFloat64(TasksTotal)

	RecordBatch(StatusSuccess, 1500, 0.2)
	RecordBatch(StatusTimeout, 10, 30)
	if got := testutil.ToFloat64(BatchesTotal.WithLabelValues(StatusSuccess)); got != 1 {
		t.Errorf("Expected 1 successful batch, got %v", got)
	}
	if got := testutil.ToFloat64(TasksTotal) - before; got != 1510 {
		t.Errorf("Expected 1510 tasks, got %v", got)
	}
}

func TestPoolGauges(t *testing.T) {
	Enable()

	SetPoolWorkers(10)
	SetPoolState(1)
	if got := testutil.ToFloat64(PoolWorkers); got != 10 {
		t.Errorf("Expected 10 workers, got %v", got)
	}
	if got := testutil.ToFloat64(PoolState); got != 1 {
		t.Errorf("Expected running state, got %v", got)
	}

	Disable()
	SetPoolWorkers(0)
	Enable()
	if got := testutil.ToFloat64(PoolWorkers); got != 10 {
		t.Errorf("Expected gauge to ignore updates while disabled, got %v", got)
	}
}
