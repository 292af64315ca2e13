package export

import (
	"fmt"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/yrangana/sigview/pkg/config"
	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/render"
	"github.com/yrangana/sigview/pkg/tooltip"
)

// SVGOptions configures static SVG output.
type SVGOptions struct {
	Path           string
	Width          int
	Height         int
	ShowLabels     bool
	ShowEdgeLabels bool
	EdgeType       config.EdgeType
}

// WriteSVG renders the graph at its current positions as a static SVG.
func WriteSVG(m *graph.Model, o SVGOptions) error {
	if m.NodeCount() == 0 {
		return fmt.Errorf("no nodes to export")
	}
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 800
	}

	f, err := os.Create(o.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", o.Path, err)
	}
	defer f.Close()

	vp := fitViewport(m, float64(o.Width), float64(o.Height), 40)

	canvas := svg.New(f)
	canvas.Start(o.Width, o.Height)
	canvas.Rect(0, 0, o.Width, o.Height, "fill:#1e1f29")

	for _, eid := range m.EdgeIDs() {
		e, ok := m.Edge(eid)
		if !ok || e.Attrs.Hidden {
			continue
		}
		sa, sok := m.NodeAttrs(e.Source)
		ta, tok := m.NodeAttrs(e.Target)
		if !sok || !tok {
			continue
		}
		color := e.Attrs.Color
		if color == "" {
			color = render.DefaultEdgeColor
		}
		x1, y1 := vp.project(sa.X, sa.Y)
		x2, y2 := vp.project(ta.X, ta.Y)
		stroke := fmt.Sprintf("stroke:%s;stroke-width:1;stroke-opacity:0.6", color)
		switch o.EdgeType {
		case config.EdgeTypeCurve:
			cx, cy := bowPoint(x1, y1, x2, y2)
			canvas.Qbez(int(x1), int(y1), int(cx), int(cy), int(x2), int(y2), "fill:none;"+stroke)
		default:
			canvas.Line(int(x1), int(y1), int(x2), int(y2), stroke)
		}
		if o.EdgeType == config.EdgeTypeArrow {
			hx, hy := arrowHead(x1, y1, x2, y2)
			canvas.Polygon(hx, hy, fmt.Sprintf("fill:%s;fill-opacity:0.8", color))
		}
		if o.ShowEdgeLabels && e.Attrs.Label != "" {
			canvas.Text(int((x1+x2)/2), int((y1+y2)/2)-3, tooltip.TruncateLabel(e.Attrs.Label),
				"fill:#c8c8c2;font-size:9px;font-family:monospace;text-anchor:middle")
		}
	}

	for _, id := range m.Order() {
		attrs, ok := m.NodeAttrs(id)
		if !ok || attrs.Hidden {
			continue
		}
		color := attrs.Color
		if color == "" {
			color = render.DefaultNodeColor
		}
		x, y := vp.project(attrs.X, attrs.Y)
		r := int(attrs.Size / 2)
		if r < 2 {
			r = 2
		}
		canvas.Circle(int(x), int(y), r, fmt.Sprintf("fill:%s", color))
		if o.ShowLabels {
			label := tooltip.TruncateLabel(labelOrID(attrs.Label, id))
			canvas.Text(int(x), int(y)-r-4, label,
				"fill:#f4f4f0;font-size:10px;font-family:monospace;text-anchor:middle")
		}
	}

	canvas.End()
	return nil
}

// bowPoint is the quadratic control point for a curved edge, offset
// perpendicular to the chord.
func bowPoint(x1, y1, x2, y2 float64) (float64, float64) {
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	if dist < 1e-9 {
		return (x1 + x2) / 2, (y1 + y2) / 2
	}
	bow := math.Max(6, dist/8)
	return (x1+x2)/2 - dy/dist*bow, (y1+y2)/2 + dx/dist*bow
}

// arrowHead is a small triangle at the target end of the edge.
func arrowHead(x1, y1, x2, y2 float64) ([]int, []int) {
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	if dist < 1e-9 {
		dist, dx = 1, 1
	}
	ux, uy := dx/dist, dy/dist
	bx, by := x2-8*ux, y2-8*uy
	px, py := -uy*4, ux*4
	return []int{int(x2), int(bx + px), int(bx - px)},
		[]int{int(y2), int(by + py), int(by - py)}
}
