// Package interaction implements the pointer-driven controllers of the
// widget: the continuous layout runner, the hierarchical drag gesture, and
// the selection, path, search, and hover handlers. Controllers log and
// no-op on bad input instead of failing; a stale pointer event must never
// take the widget down.
package interaction

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/layout"
)

// DefaultIterationsPerTick bounds the simulation work done per animation
// frame so a tick stays cheap even on large graphs.
const DefaultIterationsPerTick = 1

// ForceRunner drives the force simulation while layout is toggled on. The
// loop is split from the clock: Step advances one frame, and Run just calls
// Step on a ticker, so tests drive frames manually.
type ForceRunner struct {
	mu      sync.Mutex
	m       *graph.Model
	cfg     layout.ForceAtlas2Config
	perTick int

	running bool
	closed  bool
	onFrame func()
}

// NewForceRunner creates a stopped runner.
func NewForceRunner(m *graph.Model, cfg layout.ForceAtlas2Config) *ForceRunner {
	return &ForceRunner{m: m, cfg: cfg, perTick: DefaultIterationsPerTick}
}

// OnFrame registers a callback invoked after every advanced frame, used by
// the widget to request a repaint.
func (r *ForceRunner) OnFrame(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFrame = fn
}

// Start begins advancing frames. Starting a running or closed runner is a
// no-op.
func (r *ForceRunner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.running = true
}

// Stop pauses the simulation. Positions are left where the last frame put
// them.
func (r *ForceRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
}

// Running reports whether frames currently advance.
func (r *ForceRunner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running && !r.closed
}

// Step advances one animation frame. It is a no-op unless the runner is
// started, and permanently a no-op after Close.
func (r *ForceRunner) Step() {
	r.mu.Lock()
	if !r.running || r.closed {
		r.mu.Unlock()
		return
	}
	onFrame := r.onFrame
	r.mu.Unlock()

	layout.Step(r.m, r.cfg, r.perTick)
	if onFrame != nil {
		onFrame()
	}
}

// Run steps the simulation on a ticker until the context is cancelled or
// the runner is closed. Meant to be launched as a goroutine.
func (r *ForceRunner) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			closed := r.closed
			r.mu.Unlock()
			if closed {
				return
			}
			r.Step()
		}
	}
}

// Close stops the runner for good. Any Step after Close, including one
// already racing on the ticker, leaves the model untouched.
func (r *ForceRunner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.running = false
	log.Printf("interaction: force runner closed")
}
