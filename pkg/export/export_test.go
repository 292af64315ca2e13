package export

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yrangana/sigview/pkg/analysis"
	"github.com/yrangana/sigview/pkg/config"
	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/model"
)

func exportModel(t *testing.T) *graph.Model {
	t.Helper()
	m, err := graph.Build(&model.Document{
		Nodes: []model.Node{
			{ID: "a", Attrs: model.NodeAttributes{Label: "alpha", X: 0, Y: 0}, HasX: true, HasY: true},
			{ID: "b", Attrs: model.NodeAttributes{Label: "beta", X: 50, Y: 30}, HasX: true, HasY: true},
			{ID: "c", Attrs: model.NodeAttributes{Label: "gamma", X: -20, Y: 60}, HasX: true, HasY: true},
		},
		Edges: []model.Edge{
			{Source: "a", Target: "b", Attrs: model.EdgeAttributes{Weight: 0.5}},
			{Source: "b", Target: "c"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestWriteInteractiveHTML(t *testing.T) {
	m := exportModel(t)
	stats := analysis.ComputeStats(m)
	path := filepath.Join(t.TempDir(), "out.html")

	got, err := WriteInteractiveHTML(m, &stats, HTMLOptions{Title: "Test", Path: path})
	if err != nil {
		t.Fatalf("WriteInteractiveHTML: %v", err)
	}
	if got != path {
		t.Errorf("returned path %q, want %q", got, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	for _, want := range []string{
		"alpha", "beta", "gamma",
		"DRAG_THRESHOLD = 5",
		"STIFFNESS = 0.3",
		"DAMPING = 0.8",
		"INFLUENCE = [1.0, 0.6, 0.3, 0.1]",
		"force-graph",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestWriteInteractiveHTML_ExtensionEnforced(t *testing.T) {
	m := exportModel(t)
	path := filepath.Join(t.TempDir(), "out.txt")
	got, err := WriteInteractiveHTML(m, nil, HTMLOptions{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, ".html") {
		t.Errorf("output %q not .html", got)
	}
}

func TestWriteInteractiveHTML_EmptyModel(t *testing.T) {
	m, err := graph.Build(&model.Document{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := WriteInteractiveHTML(m, nil, HTMLOptions{}); err == nil {
		t.Error("expected error for empty model")
	}
}

func TestWriteSVG(t *testing.T) {
	m := exportModel(t)
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := WriteSVG(m, SVGOptions{Path: path, ShowLabels: true}); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") || !strings.Contains(string(data), "alpha") {
		t.Error("svg output incomplete")
	}
}

func TestWriteSVG_EdgeTypesAndLabels(t *testing.T) {
	m, err := graph.Build(&model.Document{
		Nodes: []model.Node{
			{ID: "a", Attrs: model.NodeAttributes{X: 0, Y: 0}, HasX: true, HasY: true},
			{ID: "b", Attrs: model.NodeAttributes{X: 50, Y: 30}, HasX: true, HasY: true},
		},
		Edges: []model.Edge{{Source: "a", Target: "b", Attrs: model.EdgeAttributes{Label: "calls"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	write := func(name string, o SVGOptions) string {
		t.Helper()
		o.Path = filepath.Join(dir, name)
		if err := WriteSVG(m, o); err != nil {
			t.Fatalf("WriteSVG(%s): %v", name, err)
		}
		data, err := os.ReadFile(o.Path)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	line := write("line.svg", SVGOptions{EdgeType: config.EdgeTypeLine})
	if strings.Contains(line, "<polygon") {
		t.Error("line edge type emitted an arrowhead")
	}
	if strings.Contains(line, "calls") {
		t.Error("edge label emitted while disabled")
	}

	arrow := write("arrow.svg", SVGOptions{EdgeType: config.EdgeTypeArrow})
	if !strings.Contains(arrow, "<polygon") {
		t.Error("arrow edge type missing arrowhead polygon")
	}

	curve := write("curve.svg", SVGOptions{EdgeType: config.EdgeTypeCurve})
	if !strings.Contains(curve, "<path") {
		t.Error("curve edge type missing path element")
	}

	labeled := write("labeled.svg", SVGOptions{EdgeType: config.EdgeTypeLine, ShowEdgeLabels: true})
	if !strings.Contains(labeled, "calls") {
		t.Error("edge label missing with ShowEdgeLabels")
	}
}

func TestWritePNG(t *testing.T) {
	m := exportModel(t)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WritePNG(m, PNGOptions{Path: path, Width: 400, Height: 300}); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	// Arrow and curve renderers must also produce decodable output.
	for _, et := range []config.EdgeType{config.EdgeTypeArrow, config.EdgeTypeCurve} {
		p := filepath.Join(t.TempDir(), string(et)+".png")
		if err := WritePNG(m, PNGOptions{Path: p, Width: 200, Height: 150, EdgeType: et, ShowEdgeLabels: true}); err != nil {
			t.Fatalf("WritePNG(%s): %v", et, err)
		}
	}
}

func TestWriteECharts(t *testing.T) {
	m := exportModel(t)
	path := filepath.Join(t.TempDir(), "out.html")
	if err := WriteECharts(m, EChartsOptions{Title: "Test", Path: path}); err != nil {
		t.Fatalf("WriteECharts: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "echarts") {
		t.Error("echarts page missing library reference")
	}
}

func TestFitViewport_DegenerateSpan(t *testing.T) {
	m, err := graph.Build(&model.Document{
		Nodes: []model.Node{{ID: "only", HasX: true, HasY: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	vp := fitViewport(m, 100, 100, 10)
	x, y := vp.project(0, 0)
	if x < 0 || x > 100 || y < 0 || y > 100 {
		t.Errorf("projected point (%v,%v) off canvas", x, y)
	}
}
