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
	"context"
	"runtime"
	"sync"
	"time"
)

// Sampler refreshes gauges owned by another component, such as the
// worker pool, on every collection tick.
type Sampler func()

// ResourceCollector refreshes the process gauges and runs registered
// samplers on a fixed interval until stopped.
type ResourceCollector struct {
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	started  time.Time
	done     chan struct{}

	mu       sync.Mutex
	samplers []Sampler
}

// NewResourceCollector returns an idle collector ticking every interval.
// Cancelling ctx stops it like Stop does.
func NewResourceCollector(ctx context.Context, interval time.Duration, samplers ...Sampler) *ResourceCollector {
	collectorCtx, cancel := context.WithCancel(ctx)
	return &ResourceCollector{
		ctx:      collectorCtx,
		cancel:   cancel,
		interval: interval,
		started:  time.Now(),
		done:     make(chan struct{}),
		samplers: samplers,
	}
}

// AddSampler registers fn to run on every collection.
func (rc *ResourceCollector) AddSampler(fn Sampler) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.samplers = append(rc.samplers, fn)
}

// Start collects once, then on every tick until the collector's context
// ends. It blocks; run it on its own goroutine.
func (rc *ResourceCollector) Start() {
	defer close(rc.done)

	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		rc.collect()
		select {
		case <-rc.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop cancels the collector. Use Wait to block until Start returns.
func (rc *ResourceCollector) Stop() {
	rc.cancel()
}

// Wait blocks until Start returns.
func (rc *ResourceCollector) Wait() {
	<-rc.done
}

func (rc *ResourceCollector) collect() {
	if !IsEnabled() {
		return
	}
	SampleProcess()
	Uptime.Set(time.Since(rc.started).Seconds())

	rc.mu.Lock()
	samplers := append([]Sampler(nil), rc.samplers...)
	rc.mu.Unlock()
	for _, sample := range samplers {
		sample()
	}
}

// SampleProcess sets the goroutine, memory and GC gauges from the
// runtime.
func SampleProcess() {
	if !IsEnabled() {
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	Goroutines.Set(float64(runtime.NumGoroutine()))
	MemoryAllocBytes.Set(float64(mem.Alloc))
	MemorySysBytes.Set(float64(mem.Sys))
	GCPauseTotalSeconds.Set(time.Duration(mem.PauseTotalNs).Seconds())
}

// StartResourceCollector starts a collector running samplers on every
// tick and returns a function that stops it and waits for the last
// collection.
//
// Example:
//
//	stop := metrics.StartResourceCollector(ctx, time.Second, func() {
//	    metrics.SetPoolWorkers(pool.Workers())
//	})
//	defer stop()
func StartResourceCollector(ctx context.Context, interval time.Duration, samplers ...Sampler) (stop func()) {
	rc := NewResourceCollector(ctx, interval, samplers...)
	go rc.Start()
	return func() {
		rc.Stop()
		rc.Wait()
	}
}
