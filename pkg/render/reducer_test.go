package render

import (
	"testing"

	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/model"
)

func testModel(t *testing.T) *graph.Model {
	t.Helper()
	doc := &model.Document{
		Nodes: []model.Node{
			{ID: "a", Attrs: model.NodeAttributes{Label: "auth service", Size: 10}, HasSize: true},
			{ID: "b", Attrs: model.NodeAttributes{Label: "billing", Size: 10}, HasSize: true},
			{ID: "c", Attrs: model.NodeAttributes{Label: "cache", Size: 10}, HasSize: true},
			{ID: "d", Attrs: model.NodeAttributes{Label: "database", Size: 10}, HasSize: true},
			{ID: "e", Attrs: model.NodeAttributes{Label: "export worker", Size: 10}, HasSize: true},
		},
		Edges: []model.Edge{
			{ID: "ab", Source: "a", Target: "b"},
			{ID: "ac", Source: "a", Target: "c"},
			{ID: "cd", Source: "c", Target: "d"},
			{ID: "de", Source: "d", Target: "e"},
		},
	}
	m, err := graph.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestReducer_NormalPassesThrough(t *testing.T) {
	m := testModel(t)
	r := NewReducer(m)

	attrs, visible := r.NodeStyle("a")
	if !visible {
		t.Fatal("node hidden in normal mode")
	}
	if attrs.Label != "auth service" || attrs.Size != 10 {
		t.Errorf("attrs altered in normal mode: %+v", attrs)
	}
	if attrs.Color != DefaultNodeColor {
		t.Errorf("empty color not defaulted: %q", attrs.Color)
	}
}

func TestReducer_NormalRespectsHidden(t *testing.T) {
	m := testModel(t)
	attrs, _ := m.NodeAttrs("b")
	attrs.Hidden = true

	r := NewReducer(m)
	if _, visible := r.NodeStyle("b"); visible {
		t.Error("hidden node reported visible")
	}
}

func TestReducer_SelectionDimsAndHides(t *testing.T) {
	m := testModel(t)
	r := NewReducer(m)
	r.SetMode(Selection{NodeID: "a"})

	sel, _ := r.NodeStyle("a")
	if !sel.Highlighted {
		t.Error("selected node not highlighted")
	}
	neighbor, _ := r.NodeStyle("b")
	if neighbor.Color == DimmedColor {
		t.Error("direct neighbor dimmed")
	}
	far, _ := r.NodeStyle("e")
	if far.Color != DimmedColor {
		t.Errorf("distant node color = %q, want dimmed", far.Color)
	}

	// cd touches neighbor c, de touches nothing in the neighborhood.
	if _, visible := r.EdgeStyle("cd"); !visible {
		t.Error("edge touching neighborhood hidden")
	}
	if _, visible := r.EdgeStyle("de"); visible {
		t.Error("edge outside neighborhood still visible")
	}
}

func TestReducer_SelectionSwitchIsAtomic(t *testing.T) {
	m := testModel(t)
	r := NewReducer(m)
	r.SetMode(Selection{NodeID: "a"})
	r.SetMode(Selection{NodeID: "d"})

	// After the switch only d's neighborhood is live; a is two hops away.
	attrs, _ := r.NodeStyle("a")
	if attrs.Color != DimmedColor {
		t.Errorf("stale neighborhood survived switch: %q", attrs.Color)
	}
	if _, visible := r.EdgeStyle("de"); !visible {
		t.Error("edge of new selection hidden")
	}
}

func TestReducer_ResetRestoresNormal(t *testing.T) {
	m := testModel(t)
	r := NewReducer(m)
	r.SetMode(Selection{NodeID: "a"})
	r.Reset()

	if _, ok := r.Mode().(Normal); !ok {
		t.Fatalf("mode after reset = %T, want Normal", r.Mode())
	}
	attrs, _ := r.NodeStyle("e")
	if attrs.Color == DimmedColor {
		t.Error("dimming survived reset")
	}
}

func TestReducer_PathHidesOffPathElements(t *testing.T) {
	m := testModel(t)
	r := NewReducer(m)
	r.SetMode(Path{Start: "a", End: "d", Nodes: []string{"a", "c", "d"}})

	if _, visible := r.NodeStyle("b"); visible {
		t.Error("off-path node visible")
	}
	if _, visible := r.EdgeStyle("ab"); visible {
		t.Error("off-path edge visible")
	}

	mid, visible := r.NodeStyle("c")
	if !visible {
		t.Fatal("path node hidden")
	}
	if mid.Color != PathColor {
		t.Errorf("path node color = %q, want %q", mid.Color, PathColor)
	}
	if mid.Size != 10*PathNodeScale {
		t.Errorf("path node size = %v, want %v", mid.Size, 10*PathNodeScale)
	}

	start, _ := r.NodeStyle("a")
	if start.Color != PathStartColor {
		t.Errorf("endpoint color = %q, want %q", start.Color, PathStartColor)
	}

	edge, visible := r.EdgeStyle("ac")
	if !visible {
		t.Fatal("path edge hidden")
	}
	if edge.Color != PathColor || edge.Size < 2 {
		t.Errorf("path edge not emphasized: %+v", edge)
	}
}

func TestReducer_PathStartMarksOnlyEndpoint(t *testing.T) {
	m := testModel(t)
	r := NewReducer(m)
	r.SetMode(PathStart{NodeID: "a"})

	start, _ := r.NodeStyle("a")
	if start.Color != PathStartColor || !start.Highlighted {
		t.Errorf("pending endpoint not marked: %+v", start)
	}
	other, visible := r.NodeStyle("b")
	if !visible || other.Color == DimmedColor {
		t.Error("unrelated node altered while path pending")
	}
	if _, visible := r.EdgeStyle("de"); !visible {
		t.Error("edges should stay visible while path pending")
	}
}

func TestReducer_SearchHighlightsMatches(t *testing.T) {
	m := testModel(t)
	r := NewReducer(m)
	r.SetMode(Search{Query: "BILL"})

	hit, _ := r.NodeStyle("b")
	if !hit.Highlighted {
		t.Error("matching node not highlighted")
	}
	miss, _ := r.NodeStyle("d")
	if miss.Color != DimmedColor {
		t.Errorf("non-matching node color = %q, want dimmed", miss.Color)
	}
	if edge, _ := r.EdgeStyle("ab"); edge.Color == DimmedColor {
		t.Error("edge touching a match dimmed")
	}
	if edge, _ := r.EdgeStyle("de"); edge.Color != DimmedColor {
		t.Error("edge with no matching endpoint not dimmed")
	}
}

func TestReducer_SearchNoMatchesLeavesViewAlone(t *testing.T) {
	m := testModel(t)
	r := NewReducer(m)
	r.SetMode(Search{Query: "zzz"})

	attrs, _ := r.NodeStyle("a")
	if attrs.Color == DimmedColor {
		t.Error("empty result set dimmed the graph")
	}
}

func TestReducer_StoredAttributesUntouched(t *testing.T) {
	m := testModel(t)
	r := NewReducer(m)
	r.SetMode(Path{Start: "a", End: "d", Nodes: []string{"a", "c", "d"}})
	r.NodeStyle("c")

	stored, _ := m.NodeAttrs("c")
	if stored.Size != 10 || stored.Color != "" {
		t.Errorf("reducer mutated stored attributes: %+v", stored)
	}
}
