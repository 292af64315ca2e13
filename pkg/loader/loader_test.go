package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDocument_DropsDanglingEdges(t *testing.T) {
	data := []byte(`{
		"nodes": [{"id":"a"},{"id":"b"}],
		"edges": [
			{"source":"a","target":"b"},
			{"source":"a","target":"ghost"},
			{"source":"ghost","target":"b"}
		]
	}`)
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(doc.Edges))
	}
	if doc.Edges[0].Source != "a" || doc.Edges[0].Target != "b" {
		t.Errorf("wrong surviving edge: %+v", doc.Edges[0])
	}
}

func TestParseDocument_MalformedPayload(t *testing.T) {
	if _, err := ParseDocument([]byte(`{"nodes": [{`)); err == nil {
		t.Error("malformed payload accepted")
	}
}

func TestParseDocument_DuplicateNodeID(t *testing.T) {
	data := []byte(`{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`)
	if _, err := ParseDocument(data); err == nil {
		t.Error("duplicate node ids accepted")
	}
}

func TestLoadDocumentFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	payload := `{"nodes":[{"id":"1","label":"Node 1"}],"edges":[]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadDocumentFromFile(path)
	if err != nil {
		t.Fatalf("LoadDocumentFromFile: %v", err)
	}
	if len(doc.Nodes) != 1 || doc.Nodes[0].Attrs.Label != "Node 1" {
		t.Errorf("unexpected document: %+v", doc)
	}

	if _, err := LoadDocumentFromFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}
