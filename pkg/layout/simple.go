package layout

import (
	"math"
	"math/rand"

	"github.com/yrangana/sigview/pkg/graph"
)

const (
	// circularRadiusFloor is the minimum circle radius.
	circularRadiusFloor = 100.0
	// circularRadiusPerNode grows the circle linearly with node count so
	// dense graphs do not collapse into an unreadable ring.
	circularRadiusPerNode = 10.0

	// randomExtent is the half-width of the scatter square.
	randomExtent = 100.0
)

// Circular places the nodes at equal angular increments on a circle whose
// radius grows with node count. Deterministic: the same input order yields
// the same output.
func Circular(m *graph.Model) {
	order := m.Order()
	n := len(order)
	if n == 0 {
		return
	}
	radius := math.Max(circularRadiusFloor, float64(n)*circularRadiusPerNode)
	step := 2 * math.Pi / float64(n)
	for i, id := range order {
		attrs, ok := m.NodeAttrs(id)
		if !ok {
			continue
		}
		angle := step * float64(i)
		attrs.X = radius * math.Cos(angle)
		attrs.Y = radius * math.Sin(angle)
	}
}

// Random scatters the nodes uniformly over a fixed-size square centered at
// the origin. Intentionally non-deterministic.
func Random(m *graph.Model) {
	for _, id := range m.Order() {
		attrs, ok := m.NodeAttrs(id)
		if !ok {
			continue
		}
		attrs.X = (rand.Float64()*2 - 1) * randomExtent
		attrs.Y = (rand.Float64()*2 - 1) * randomExtent
	}
}
