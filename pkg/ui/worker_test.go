package ui

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const validDoc = `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b"}]}`

func TestWorker_RebuildProducesGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	writeDoc(t, path, validDoc)

	w, err := NewWorker(WorkerConfig{DocPath: path})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	msg := w.rebuild()
	ready, ok := msg.(GraphReadyMsg)
	if !ok {
		t.Fatalf("rebuild returned %T", msg)
	}
	if ready.Graph.NodeCount() != 2 || ready.Graph.EdgeCount() != 1 {
		t.Errorf("graph has %d nodes %d edges", ready.Graph.NodeCount(), ready.Graph.EdgeCount())
	}
	if w.LastError() != nil {
		t.Errorf("LastError = %v", w.LastError())
	}
}

func TestWorker_DedupsUnchangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	writeDoc(t, path, validDoc)

	w, err := NewWorker(WorkerConfig{DocPath: path})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if msg := w.rebuild(); msg == nil {
		t.Fatal("first rebuild returned nil")
	}
	if msg := w.rebuild(); msg != nil {
		t.Errorf("unchanged content rebuilt: %T", msg)
	}

	// A real change rebuilds again.
	writeDoc(t, path, `{"nodes":[{"id":"a"},{"id":"b"},{"id":"c"}],"edges":[]}`)
	msg := w.rebuild()
	ready, ok := msg.(GraphReadyMsg)
	if !ok {
		t.Fatalf("changed content returned %T", msg)
	}
	if ready.Graph.NodeCount() != 3 {
		t.Errorf("node count = %d", ready.Graph.NodeCount())
	}
}

func TestWorker_MalformedDocumentIsRecoverable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	writeDoc(t, path, `{"nodes": [`)

	w, err := NewWorker(WorkerConfig{DocPath: path})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	msg := w.rebuild()
	if _, ok := msg.(GraphErrorMsg); !ok {
		t.Fatalf("malformed document returned %T", msg)
	}
	if w.LastError() == nil {
		t.Fatal("error not recorded")
	}

	// The file recovers; so does the worker.
	writeDoc(t, path, validDoc)
	if _, ok := w.rebuild().(GraphReadyMsg); !ok {
		t.Error("worker did not recover after fix")
	}
	if w.LastError() != nil {
		t.Errorf("stale error: %v", w.LastError())
	}
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	writeDoc(t, path, validDoc)

	w, err := NewWorker(WorkerConfig{DocPath: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
	if w.State() != WorkerStopped {
		t.Errorf("state = %v", w.State())
	}
}
