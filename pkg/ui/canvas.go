// Package ui provides the terminal widget for sigview: a canvas view of
// the graph driven by the interaction controllers, with search, selection,
// shortest path, node grabbing, and live reload.
package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yrangana/sigview/pkg/config"
	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/render"
	"github.com/yrangana/sigview/pkg/tooltip"
)

// cell is one character of the drawn canvas.
type cell struct {
	ch    rune
	color string
}

// canvas rasterizes the graph into a character grid. Terminal cells are
// roughly twice as tall as wide, so y is compressed by half to keep
// circles looking circular.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{ch: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, ch rune, color string) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{ch: ch, color: color}
}

// line draws with Bresenham.
func (c *canvas) line(x0, y0, x1, y1 int, ch rune, color string) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, ch, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) text(x, y int, s string, color string) {
	for i, ch := range s {
		c.set(x+i, y, ch, color)
	}
}

// String renders the grid with per-cell colors, one lipgloss style per run
// of equal color.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		x := 0
		for x < c.w {
			color := c.cells[y*c.w+x].color
			var run strings.Builder
			for x < c.w && c.cells[y*c.w+x].color == color {
				run.WriteRune(c.cells[y*c.w+x].ch)
				x++
			}
			text := run.String()
			if color == "" || strings.TrimSpace(text) == "" {
				b.WriteString(text)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text))
			}
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// drawOptions selects what drawGraph renders beyond the bare graph.
type drawOptions struct {
	showNodeLabels bool
	showEdgeLabels bool
	edgeType       config.EdgeType
}

// drawGraph rasterizes the model through the reducer. The cursor node gets
// a distinct glyph so keyboard navigation is visible without a pointer.
func drawGraph(m *graph.Model, r *render.Reducer, width, height int, cursorID string, o drawOptions) string {
	c := newCanvas(width, height)
	if m.NodeCount() == 0 {
		return c.String()
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, id := range m.Order() {
		attrs, ok := m.NodeAttrs(id)
		if !ok {
			continue
		}
		minX = math.Min(minX, attrs.X)
		minY = math.Min(minY, attrs.Y)
		maxX = math.Max(maxX, attrs.X)
		maxY = math.Max(maxY, attrs.Y)
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX < 1e-9 {
		spanX = 1
	}
	if spanY < 1e-9 {
		spanY = 1
	}

	project := func(x, y float64) (int, int) {
		px := int((x - minX) / spanX * float64(width-3))
		py := int((y - minY) / spanY * float64(height-1))
		return px + 1, py
	}

	for _, eid := range m.EdgeIDs() {
		attrs, visible := r.EdgeStyle(eid)
		if !visible {
			continue
		}
		e, ok := m.Edge(eid)
		if !ok {
			continue
		}
		sa, sok := m.NodeAttrs(e.Source)
		ta, tok := m.NodeAttrs(e.Target)
		if !sok || !tok {
			continue
		}
		x0, y0 := project(sa.X, sa.Y)
		x1, y1 := project(ta.X, ta.Y)
		if o.edgeType == config.EdgeTypeCurve {
			cx, cy := curveControl(x0, y0, x1, y1)
			c.line(x0, y0, cx, cy, '·', attrs.Color)
			c.line(cx, cy, x1, y1, '·', attrs.Color)
		} else {
			c.line(x0, y0, x1, y1, '·', attrs.Color)
		}
		if o.edgeType == config.EdgeTypeArrow {
			c.set(x1-sign(x1-x0), y1-sign(y1-y0), arrowGlyph(x1-x0, y1-y0), attrs.Color)
		}
		if o.showEdgeLabels && e.Attrs.Label != "" {
			label := tooltip.TruncateLabel(e.Attrs.Label)
			c.text((x0+x1)/2, (y0+y1)/2, label, attrs.Color)
		}
	}

	for _, id := range m.Order() {
		attrs, visible := r.NodeStyle(id)
		if !visible {
			continue
		}
		x, y := project(attrs.X, attrs.Y)
		glyph := '●'
		switch {
		case id == cursorID:
			glyph = '◎'
		case attrs.Highlighted:
			glyph = '◉'
		}
		c.set(x, y, glyph, attrs.Color)
		if o.showNodeLabels {
			label := tooltip.TruncateLabel(labelFor(m, id))
			c.text(x+2, y, label, attrs.Color)
		}
	}

	return c.String()
}

func labelFor(m *graph.Model, id string) string {
	attrs, ok := m.NodeAttrs(id)
	if !ok || attrs.Label == "" {
		return id
	}
	return attrs.Label
}

// curveControl bows the edge at its midpoint, perpendicular to the chord.
func curveControl(x0, y0, x1, y1 int) (int, int) {
	dx, dy := float64(x1-x0), float64(y1-y0)
	dist := math.Hypot(dx, dy)
	if dist < 1e-9 {
		return (x0 + x1) / 2, (y0 + y1) / 2
	}
	bow := math.Max(1, dist/8)
	cx := float64(x0+x1)/2 - dy/dist*bow
	cy := float64(y0+y1)/2 + dx/dist*bow
	return int(cx), int(cy)
}

// arrowGlyph points along the dominant direction of the edge.
func arrowGlyph(dx, dy int) rune {
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return '>'
		}
		return '<'
	}
	if dy >= 0 {
		return 'v'
	}
	return '^'
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
