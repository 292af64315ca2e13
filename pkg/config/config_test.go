package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yrangana/sigview/pkg/layout"
)

func TestDefault(t *testing.T) {
	opts := Default()
	if opts.LayoutType != layout.TypeForceAtlas2 {
		t.Errorf("default layout = %q", opts.LayoutType)
	}
	if !opts.DragNeighbors || !opts.ShowNodeLabels {
		t.Error("default toggles wrong")
	}
	if opts.EdgeType != EdgeTypeLine {
		t.Errorf("default edge type = %q", opts.EdgeType)
	}
}

func TestStyle_Ready(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  bool
	}{
		{"zero", Style{}, false},
		{"width only", Style{Width: 80}, false},
		{"height only", Style{Height: 24}, false},
		{"both", Style{Width: 80, Height: 24}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.style.Ready(); got != tt.want {
				t.Errorf("Ready() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize_UnknownValuesFallBack(t *testing.T) {
	opts := Options{LayoutType: "sugiyama", EdgeType: "dotted"}
	opts.Normalize()
	if opts.LayoutType != layout.TypeForceAtlas2 {
		t.Errorf("layout = %q, want fallback", opts.LayoutType)
	}
	if opts.EdgeType != EdgeTypeLine {
		t.Errorf("edge type = %q, want fallback", opts.EdgeType)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sigview.yaml")
	content := []byte("layout_type: circular\nshow_edge_labels: true\nstyle:\n  width: 120\n  height: 40\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.LayoutType != layout.TypeCircular {
		t.Errorf("layout = %q, want circular", opts.LayoutType)
	}
	if !opts.ShowEdgeLabels {
		t.Error("show_edge_labels not applied")
	}
	if !opts.Style.Ready() {
		t.Errorf("style = %+v, want ready", opts.Style)
	}
	// Unset keys keep their defaults.
	if !opts.DragNeighbors {
		t.Error("unset key lost its default")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
