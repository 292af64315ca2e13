package layout

import (
	"math"
	"runtime"
	"sync"

	"github.com/yrangana/sigview/pkg/graph"
)

// BarnesHutThreshold is the node count above which the quadtree
// approximation replaces exact pairwise repulsion.
const BarnesHutThreshold = 500

// ForceAtlas2Config tunes the force simulation and its overlap-removal
// post-pass.
type ForceAtlas2Config struct {
	Iterations          int
	ScalingRatio        float64 // repulsion strength
	Gravity             float64
	EdgeWeightInfluence float64
	BarnesHut           bool
	BarnesHutTheta      float64
	StepSize            float64
	MaxDisplacement     float64

	Noverlap NoverlapConfig
}

// DefaultForceAtlas2Config returns the stock tuning. Barnes-Hut switches on
// automatically above the node-count threshold.
func DefaultForceAtlas2Config(nodeCount int) ForceAtlas2Config {
	return ForceAtlas2Config{
		Iterations:          100,
		ScalingRatio:        2,
		Gravity:             1,
		EdgeWeightInfluence: 1,
		BarnesHut:           nodeCount > BarnesHutThreshold,
		BarnesHutTheta:      0.5,
		StepSize:            0.05,
		MaxDisplacement:     10,
		Noverlap:            DefaultNoverlapConfig(),
	}
}

// body is the per-node working state of the simulation.
type body struct {
	id    string
	x, y  float64
	size  float64
	mass  float64 // degree + 1
	fixed bool
	fx    float64
	fy    float64
}

// ForceAtlas2 runs the force simulation for the configured iteration count
// and then removes node overlaps. Nodes marked Fixed are read by the forces
// but never moved.
func ForceAtlas2(m *graph.Model, cfg ForceAtlas2Config) {
	bodies, index := snapshot(m)
	if len(bodies) == 0 {
		return
	}

	type link struct {
		a, b   int
		weight float64
	}
	var links []link
	for _, eid := range m.EdgeIDs() {
		e, ok := m.Edge(eid)
		if !ok || e.Source == e.Target {
			continue
		}
		w := e.Attrs.Weight
		if w <= 0 {
			w = 1
		}
		if cfg.EdgeWeightInfluence != 1 {
			w = math.Pow(w, cfg.EdgeWeightInfluence)
		}
		links = append(links, link{a: index[e.Source], b: index[e.Target], weight: w})
	}

	for iter := 0; iter < cfg.Iterations; iter++ {
		for i := range bodies {
			bodies[i].fx = 0
			bodies[i].fy = 0
		}

		if cfg.BarnesHut {
			applyBarnesHutRepulsion(bodies, cfg)
		} else {
			applyPairwiseRepulsion(bodies, cfg)
		}

		// Gravity pulls every node toward the origin, scaled by mass, so
		// disconnected components do not drift apart forever.
		for i := range bodies {
			b := &bodies[i]
			d := math.Hypot(b.x, b.y)
			if d < 1e-9 {
				continue
			}
			f := cfg.Gravity * b.mass / d
			b.fx -= b.x * f
			b.fy -= b.y * f
		}

		// Attraction along edges, proportional to distance.
		for _, l := range links {
			a, b := &bodies[l.a], &bodies[l.b]
			dx := b.x - a.x
			dy := b.y - a.y
			a.fx += dx * l.weight
			a.fy += dy * l.weight
			b.fx -= dx * l.weight
			b.fy -= dy * l.weight
		}

		for i := range bodies {
			b := &bodies[i]
			if b.fixed {
				continue
			}
			dx := b.fx * cfg.StepSize
			dy := b.fy * cfg.StepSize
			if d := math.Hypot(dx, dy); d > cfg.MaxDisplacement {
				scale := cfg.MaxDisplacement / d
				dx *= scale
				dy *= scale
			}
			b.x += dx
			b.y += dy
		}
	}

	writeBack(m, bodies)
	Noverlap(m, cfg.Noverlap)
}

// Step runs a small bounded number of simulation iterations without the
// overlap pass. The continuous layout controller calls this once per tick.
func Step(m *graph.Model, cfg ForceAtlas2Config, iterations int) {
	stepCfg := cfg
	stepCfg.Iterations = iterations
	stepCfg.Noverlap.MaxIterations = 0
	ForceAtlas2(m, stepCfg)
}

func snapshot(m *graph.Model) ([]body, map[string]int) {
	order := m.Order()
	bodies := make([]body, 0, len(order))
	index := make(map[string]int, len(order))
	for _, id := range order {
		attrs, ok := m.NodeAttrs(id)
		if !ok {
			continue
		}
		index[id] = len(bodies)
		bodies = append(bodies, body{
			id:    id,
			x:     attrs.X,
			y:     attrs.Y,
			size:  attrs.Size,
			mass:  float64(m.Degree(id)) + 1,
			fixed: attrs.Fixed,
		})
	}
	return bodies, index
}

func writeBack(m *graph.Model, bodies []body) {
	for i := range bodies {
		attrs, ok := m.NodeAttrs(bodies[i].id)
		if !ok {
			continue
		}
		attrs.X = bodies[i].x
		attrs.Y = bodies[i].y
	}
}

// applyPairwiseRepulsion computes exact O(n^2) repulsion, chunked across
// CPUs. Each worker writes only to its own slice range.
func applyPairwiseRepulsion(bodies []body, cfg ForceAtlas2Config) {
	n := len(bodies)
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				b := &bodies[i]
				for j := 0; j < n; j++ {
					if j == i {
						continue
					}
					o := &bodies[j]
					dx := b.x - o.x
					dy := b.y - o.y
					d2 := dx*dx + dy*dy
					if d2 < 1e-9 {
						d2 = 1e-9
					}
					f := cfg.ScalingRatio * b.mass * o.mass / d2
					b.fx += dx * f
					b.fy += dy * f
				}
			}
		}(lo, hi)
	}
	wg.Wait()
}

func applyBarnesHutRepulsion(bodies []body, cfg ForceAtlas2Config) {
	tree := buildQuadtree(bodies)
	if tree == nil {
		return
	}
	n := len(bodies)
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fx, fy := tree.repulsion(&bodies[i], cfg.BarnesHutTheta, cfg.ScalingRatio)
				bodies[i].fx += fx
				bodies[i].fy += fy
			}
		}(lo, hi)
	}
	wg.Wait()
}
