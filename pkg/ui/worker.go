package ui

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yrangana/sigview/pkg/analysis"
	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/loader"
	"github.com/yrangana/sigview/pkg/watcher"
)

// WorkerState is the lifecycle state of the background worker.
type WorkerState int

const (
	WorkerIdle WorkerState = iota
	WorkerProcessing
	WorkerStopped
)

// WorkerError wraps a rebuild failure with its phase.
type WorkerError struct {
	Phase string // "load", "build", "analyze"
	Cause error
	Time  time.Time
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Cause)
}

func (e WorkerError) Unwrap() error { return e.Cause }

// GraphReadyMsg is sent to the UI when a rebuilt graph is ready.
type GraphReadyMsg struct {
	Graph *graph.Model
	Stats analysis.GraphStats
	Hash  string
}

// GraphErrorMsg is sent to the UI when a rebuild fails. The previous graph
// stays on screen.
type GraphErrorMsg struct {
	Err error
}

// Worker owns the file watcher and rebuilds the graph off the UI thread.
// Changes arriving mid-rebuild mark the worker dirty and trigger one more
// rebuild when the current one finishes; identical file content is
// deduplicated by hash.
type Worker struct {
	docPath string

	mu       sync.RWMutex
	state    WorkerState
	dirty    bool
	started  bool
	lastHash string
	lastErr  *WorkerError

	watcher *watcher.Watcher
	program *tea.Program

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// WorkerConfig configures the Worker.
type WorkerConfig struct {
	DocPath  string
	Debounce time.Duration
	Program  *tea.Program
}

// NewWorker creates a worker for the given document path.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		docPath: cfg.DocPath,
		program: cfg.Program,
		state:   WorkerIdle,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	if cfg.DocPath != "" {
		var opts []watcher.Option
		if cfg.Debounce > 0 {
			opts = append(opts, watcher.WithDebounceDuration(cfg.Debounce))
		}
		fw, err := watcher.NewWatcher(cfg.DocPath, opts...)
		if err != nil {
			cancel()
			return nil, err
		}
		w.watcher = fw
	}
	return w, nil
}

// Start begins watching. Idempotent.
func (w *Worker) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if w.watcher == nil {
		close(w.done)
		return nil
	}
	if err := w.watcher.Start(); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop halts the worker and waits for the loop to exit. Idempotent.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerStopped
	wasStarted := w.started
	w.mu.Unlock()

	w.cancel()
	if w.watcher != nil {
		w.watcher.Stop()
	}
	if wasStarted {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
		}
	}
}

// State returns the current worker state.
func (w *Worker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// LastError returns the most recent rebuild error, nil after a success.
func (w *Worker) LastError() *WorkerError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

// LastHash returns the content hash of the last successful rebuild.
func (w *Worker) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

// TriggerRefresh forces a rebuild outside the watch loop.
func (w *Worker) TriggerRefresh() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if w.state == WorkerProcessing {
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	go w.process()
}

func (w *Worker) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.watcher.Changed():
			w.process()
		}
	}
}

func (w *Worker) process() {
	w.mu.Lock()
	if w.state != WorkerIdle {
		if w.state == WorkerProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WorkerProcessing
	w.dirty = false
	w.mu.Unlock()

	msg := w.rebuild()

	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	wasDirty := w.dirty
	w.state = WorkerIdle
	w.mu.Unlock()

	if w.program != nil && msg != nil {
		w.program.Send(msg)
	}
	if wasDirty {
		go w.process()
	}
}

// rebuild loads the document and builds a fresh model. Returns nil when
// content is unchanged; errors come back as a GraphErrorMsg.
func (w *Worker) rebuild() tea.Msg {
	start := time.Now()

	data, err := os.ReadFile(w.docPath)
	if err != nil {
		return w.fail("load", err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	w.mu.RLock()
	lastHash := w.lastHash
	w.mu.RUnlock()
	if hash == lastHash && lastHash != "" {
		log.Printf("worker: content unchanged (hash=%s), skipping rebuild", hash[:12])
		w.record(nil)
		return nil
	}

	var m *graph.Model
	var stats analysis.GraphStats
	buildErr := safeCompute(func() error {
		doc, err := loader.ParseDocument(data)
		if err != nil {
			return err
		}
		m, err = graph.Build(doc)
		if err != nil {
			return err
		}
		stats = analysis.ComputeStats(m)
		return nil
	})
	if buildErr != nil {
		return w.fail("build", buildErr)
	}

	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()
	w.record(nil)

	log.Printf("worker: rebuilt graph, %d nodes %d edges in %v (hash=%s)",
		m.NodeCount(), m.EdgeCount(), time.Since(start), hash[:12])
	return GraphReadyMsg{Graph: m, Stats: stats, Hash: hash}
}

func (w *Worker) fail(phase string, err error) tea.Msg {
	werr := &WorkerError{Phase: phase, Cause: err, Time: time.Now()}
	log.Printf("worker: %v", werr)
	w.record(werr)
	return GraphErrorMsg{Err: werr}
}

func (w *Worker) record(err *WorkerError) {
	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()
}

// safeCompute runs fn, converting panics into errors so a malformed
// document cannot take the worker down.
func safeCompute(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn()
}
