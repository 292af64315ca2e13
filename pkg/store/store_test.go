package store

import (
	"path/filepath"
	"testing"

	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "layout.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := openStore(t)
	in := map[string][2]float64{"a": {1, 2}, "b": {-3.5, 4.25}}
	if err := s.SavePositions("n2-e1-a", in); err != nil {
		t.Fatalf("SavePositions: %v", err)
	}

	got, err := s.LoadPositions("n2-e1-a")
	if err != nil {
		t.Fatalf("LoadPositions: %v", err)
	}
	if len(got) != 2 || got["a"] != in["a"] || got["b"] != in["b"] {
		t.Errorf("loaded %v, want %v", got, in)
	}
}

func TestStore_MissIsEmptyNotError(t *testing.T) {
	s := openStore(t)
	got, err := s.LoadPositions("n9-e9-zzz")
	if err != nil {
		t.Fatalf("LoadPositions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("miss returned %v", got)
	}
}

func TestStore_SaveReplacesEntry(t *testing.T) {
	s := openStore(t)
	sig := "n1-e0-a"
	if err := s.SavePositions(sig, map[string][2]float64{"a": {1, 1}, "b": {2, 2}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePositions(sig, map[string][2]float64{"a": {9, 9}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadPositions(sig)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["a"] != [2]float64{9, 9} {
		t.Errorf("stale rows survived: %v", got)
	}
}

func TestStore_RoundTripThroughModel(t *testing.T) {
	build := func() *graph.Model {
		m, err := graph.Build(&model.Document{
			Nodes: []model.Node{{ID: "a"}, {ID: "b"}},
			Edges: []model.Edge{{Source: "a", Target: "b"}},
		})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return m
	}

	s := openStore(t)
	m1 := build()
	a1, _ := m1.NodeAttrs("a")
	a1.X, a1.Y = 123, -45
	if err := s.SaveLayout(m1); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}

	m2 := build()
	hit, err := s.ApplyLayout(m2)
	if err != nil {
		t.Fatalf("ApplyLayout: %v", err)
	}
	if !hit {
		t.Fatal("cache miss for identical document")
	}
	a2, _ := m2.NodeAttrs("a")
	if a2.X != 123 || a2.Y != -45 {
		t.Errorf("restored position (%v,%v)", a2.X, a2.Y)
	}
}
