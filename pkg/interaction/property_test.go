package interaction

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/model"
)

func TestInfluenceFactor_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(0, 20).Draw(t, "depth")
		f := InfluenceFactor(depth)
		if f <= 0 || f > 1 {
			t.Fatalf("InfluenceFactor(%d) = %v, want in (0, 1]", depth, f)
		}
		if next := InfluenceFactor(depth + 1); next > f {
			t.Fatalf("influence grows with depth: f(%d)=%v < f(%d)=%v", depth, f, depth+1, next)
		}
	})
	if InfluenceFactor(0) != 1.0 {
		t.Error("dragged node must follow the pointer exactly")
	}
}

func TestDrag_SpringsConvergeForArbitraryDrags(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dx := rapid.Float64Range(5, 80).Draw(t, "dx")
		dy := rapid.Float64Range(-80, 80).Draw(t, "dy")

		m, err := graph.Build(&model.Document{
			Nodes: []model.Node{
				{ID: "a", HasX: true, HasY: true},
				{ID: "b", Attrs: model.NodeAttributes{X: 10}, HasX: true, HasY: true},
			},
			Edges: []model.Edge{{Source: "a", Target: "b"}},
		})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}

		d := NewDragController(m, DragConfig{DragNeighbors: true}, nil)
		d.Press("a", 0, 0)
		d.Move(dx, dy) // dx >= threshold guarantees classification

		settled := false
		for i := 0; i < 1000 && !settled; i++ {
			settled = d.Step()
		}
		if !settled {
			t.Fatalf("springs never settled for drag (%v,%v)", dx, dy)
		}

		battrs, _ := m.NodeAttrs("b")
		wantX := 10 + dx*InfluenceFactor(1)
		wantY := dy * InfluenceFactor(1)
		if math.Hypot(battrs.X-wantX, battrs.Y-wantY) > 2*ConvergenceEpsilon {
			t.Fatalf("follower at (%v,%v), want near (%v,%v)", battrs.X, battrs.Y, wantX, wantY)
		}
	})
}
