package export

import (
	"fmt"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/yrangana/sigview/pkg/config"
	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/render"
	"github.com/yrangana/sigview/pkg/tooltip"
)

// PNGOptions configures raster output.
type PNGOptions struct {
	Path           string
	Width          int
	Height         int
	ShowLabels     bool
	ShowEdgeLabels bool
	EdgeType       config.EdgeType
}

// WritePNG renders the graph at its current positions as a PNG.
func WritePNG(m *graph.Model, o PNGOptions) error {
	if m.NodeCount() == 0 {
		return fmt.Errorf("no nodes to export")
	}
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 800
	}

	vp := fitViewport(m, float64(o.Width), float64(o.Height), 40)

	dc := gg.NewContext(o.Width, o.Height)
	dc.SetHexColor("#1e1f29")
	dc.Clear()

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
		dc.SetHexColor(color)
		dc.SetLineWidth(1)
		if o.EdgeType == config.EdgeTypeCurve {
			cx, cy := bowPoint(x1, y1, x2, y2)
			dc.MoveTo(x1, y1)
			dc.QuadraticTo(cx, cy, x2, y2)
		} else {
			dc.DrawLine(x1, y1, x2, y2)
		}
		dc.Stroke()
		if o.EdgeType == config.EdgeTypeArrow {
			drawArrowHead(dc, x1, y1, x2, y2)
		}
	}

	dc.SetFontFace(basicfont.Face7x13)
	if o.ShowEdgeLabels {
		for _, eid := range m.EdgeIDs() {
			e, ok := m.Edge(eid)
			if !ok || e.Attrs.Hidden || e.Attrs.Label == "" {
				continue
			}
			sa, sok := m.NodeAttrs(e.Source)
			ta, tok := m.NodeAttrs(e.Target)
			if !sok || !tok {
				continue
			}
			x1, y1 := vp.project(sa.X, sa.Y)
			x2, y2 := vp.project(ta.X, ta.Y)
			dc.SetHexColor("#c8c8c2")
			dc.DrawStringAnchored(tooltip.TruncateLabel(e.Attrs.Label), (x1+x2)/2, (y1+y2)/2-4, 0.5, 0.5)
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
		r := attrs.Size / 2
		if r < 2 {
			r = 2
		}
		dc.SetHexColor(color)
		dc.DrawCircle(x, y, r)
		dc.Fill()
		if o.ShowLabels {
			label := tooltip.TruncateLabel(labelOrID(attrs.Label, id))
			dc.SetHexColor("#f4f4f0")
			dc.DrawStringAnchored(label, x, y-r-6, 0.5, 0.5)
		}
	}

	if err := dc.SavePNG(o.Path); err != nil {
		return fmt.Errorf("writing %s: %w", o.Path, err)
	}
	return nil
}

// drawArrowHead fills a small triangle at the target end, using the current
// color.
func drawArrowHead(dc *gg.Context, x1, y1, x2, y2 float64) {
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	if dist < 1e-9 {
		return
	}
	ux, uy := dx/dist, dy/dist
	bx, by := x2-8*ux, y2-8*uy
	px, py := -uy*4, ux*4
	dc.MoveTo(x2, y2)
	dc.LineTo(bx+px, by+py)
	dc.LineTo(bx-px, by-py)
	dc.ClosePath()
	dc.Fill()
}
