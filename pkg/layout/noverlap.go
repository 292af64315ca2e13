package layout

import (
	"math"

	"github.com/yrangana/sigview/pkg/graph"
)

// NoverlapConfig tunes the overlap-removal pass that follows the force
// simulation.
type NoverlapConfig struct {
	MaxIterations int
	Margin        float64 // minimum gap between node bounding circles
	Ratio         float64 // spacing ratio applied to node radii
	Speed         float64 // fraction of the overlap corrected per iteration
}

// DefaultNoverlapConfig returns the stock tuning.
func DefaultNoverlapConfig() NoverlapConfig {
	return NoverlapConfig{
		MaxIterations: 50,
		Margin:        5,
		Ratio:         1.2,
		Speed:         0.5,
	}
}

// Noverlap pushes overlapping nodes apart until no two bounding circles
// intersect beyond the margin, or the iteration bound is hit. Fixed nodes
// are never moved; their overlap partner takes the full correction.
func Noverlap(m *graph.Model, cfg NoverlapConfig) {
	if cfg.MaxIterations <= 0 {
		return
	}
	bodies, _ := snapshot(m)
	n := len(bodies)
	if n < 2 {
		return
	}

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		moved := false
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				a, b := &bodies[i], &bodies[j]
				minDist := (a.size+b.size)*cfg.Ratio/2 + cfg.Margin
				dx := b.x - a.x
				dy := b.y - a.y
				d := math.Hypot(dx, dy)
				if d >= minDist {
					continue
				}
				moved = true

				var ux, uy float64
				if d < 1e-9 {
					// Coincident nodes: separate along a fixed axis,
					// alternating by index so the pair splits apart.
					ux, uy = 1, 0
					if (i+j)%2 == 1 {
						ux = -1
					}
					d = 0
				} else {
					ux, uy = dx/d, dy/d
				}

				push := (minDist - d) * cfg.Speed
				switch {
				case a.fixed && b.fixed:
					// Leave both in place.
				case a.fixed:
					b.x += ux * push
					b.y += uy * push
				case b.fixed:
					a.x -= ux * push
					a.y -= uy * push
				default:
					a.x -= ux * push / 2
					a.y -= uy * push / 2
					b.x += ux * push / 2
					b.y += uy * push / 2
				}
			}
		}
		if !moved {
			break
		}
	}

	writeBack(m, bodies)
}
