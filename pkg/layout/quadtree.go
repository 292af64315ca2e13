package layout

import "math"

// quadtree approximates long-range repulsion: distant regions act as a
// single point mass at their center of mass. Standard Barnes-Hut.
type quadtree struct {
	cx, cy, half float64 // square region: center and half-width

	mass       float64
	comX, comY float64 // center of mass

	bodyIdx  int // leaf body index, -1 when empty or internal
	children *[4]*quadtree

	bodies []body // backing slice, shared by the whole tree
}

const maxQuadDepth = 48

func buildQuadtree(bodies []body) *quadtree {
	if len(bodies) == 0 {
		return nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range bodies {
		minX = math.Min(minX, bodies[i].x)
		minY = math.Min(minY, bodies[i].y)
		maxX = math.Max(maxX, bodies[i].x)
		maxY = math.Max(maxY, bodies[i].y)
	}
	half := math.Max(maxX-minX, maxY-minY)/2 + 1e-6

	root := &quadtree{
		cx:      (minX + maxX) / 2,
		cy:      (minY + maxY) / 2,
		half:    half,
		bodyIdx: -1,
		bodies:  bodies,
	}
	for i := range bodies {
		root.insert(i, 0)
	}
	return root
}

func (q *quadtree) insert(idx int, depth int) {
	b := &q.bodies[idx]

	// Accumulate mass on the way down.
	total := q.mass + b.mass
	q.comX = (q.comX*q.mass + b.x*b.mass) / total
	q.comY = (q.comY*q.mass + b.y*b.mass) / total
	q.mass = total

	if q.children == nil && q.bodyIdx < 0 {
		q.bodyIdx = idx
		return
	}

	// Coincident points would recurse forever; stop splitting and let the
	// aggregate mass stand in for them.
	if depth >= maxQuadDepth {
		return
	}

	if q.children == nil {
		prev := q.bodyIdx
		q.bodyIdx = -1
		q.children = &[4]*quadtree{}
		q.childFor(prev).insert(prev, depth+1)
	}
	q.childFor(idx).insert(idx, depth+1)
}

func (q *quadtree) childFor(idx int) *quadtree {
	b := &q.bodies[idx]
	quadrant := 0
	cx, cy := q.cx-q.half/2, q.cy-q.half/2
	if b.x > q.cx {
		quadrant |= 1
		cx = q.cx + q.half/2
	}
	if b.y > q.cy {
		quadrant |= 2
		cy = q.cy + q.half/2
	}
	if q.children[quadrant] == nil {
		q.children[quadrant] = &quadtree{
			cx:      cx,
			cy:      cy,
			half:    q.half / 2,
			bodyIdx: -1,
			bodies:  q.bodies,
		}
	}
	return q.children[quadrant]
}

// repulsion computes the approximate repulsive force on b from the whole
// tree. A region is treated as a point mass when width/distance < theta.
func (q *quadtree) repulsion(b *body, theta, scaling float64) (fx, fy float64) {
	if q == nil || q.mass == 0 {
		return 0, 0
	}

	dx := b.x - q.comX
	dy := b.y - q.comY
	d2 := dx*dx + dy*dy

	if q.children == nil {
		// Leaf: skip self.
		if q.bodyIdx >= 0 && &q.bodies[q.bodyIdx] == b {
			return 0, 0
		}
		if d2 < 1e-9 {
			d2 = 1e-9
		}
		f := scaling * b.mass * q.mass / d2
		return dx * f, dy * f
	}

	width := q.half * 2
	if width*width < theta*theta*d2 {
		if d2 < 1e-9 {
			d2 = 1e-9
		}
		f := scaling * b.mass * q.mass / d2
		return dx * f, dy * f
	}

	for _, child := range q.children {
		if child == nil {
			continue
		}
		cfx, cfy := child.repulsion(b, theta, scaling)
		fx += cfx
		fy += cfy
	}
	return fx, fy
}
