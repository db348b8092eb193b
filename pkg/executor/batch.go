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

// Window is the half-open index range [Start, End) of one batch.
type Window struct {
	Start int
	End   int
}

// Len returns the number of indexes in the window.
func (w Window) Len() int { return w.End - w.Start }

// Batches splits [0, total) into consecutive windows of at most size
// indexes. A size below one falls back to DefaultBatchSize.
func Batches(total, size int) []Window {
	if total <= 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultBatchSize
	}
	windows := make([]Window, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		windows = append(windows, Window{Start: start, End: min(start+size, total)})
	}
	return windows
}
