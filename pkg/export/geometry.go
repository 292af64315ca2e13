package export

import (
	"math"

	"github.com/yrangana/sigview/pkg/graph"
)

// viewport maps graph coordinates onto a fixed-size canvas with padding,
// preserving aspect ratio.
type viewport struct {
	minX, minY float64
	scale      float64
	padding    float64
}

func fitViewport(m *graph.Model, width, height, padding float64) viewport {
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
	scale := math.Min((width-2*padding)/spanX, (height-2*padding)/spanY)
	return viewport{minX: minX, minY: minY, scale: scale, padding: padding}
}

func (v viewport) project(x, y float64) (float64, float64) {
	return (x-v.minX)*v.scale + v.padding, (y-v.minY)*v.scale + v.padding
}
