package interaction

import (
	"log"
	"math"

	"github.com/yrangana/sigview/pkg/analysis"
	"github.com/yrangana/sigview/pkg/graph"
)

const (
	// DragThreshold is the pointer travel, in graph units, at which a press
	// becomes a drag. Exactly the threshold counts as a drag.
	DragThreshold = 5.0

	// Spring tuning for the ripple followers.
	SpringStiffness    = 0.3
	SpringDamping      = 0.8
	ConvergenceEpsilon = 0.1

	// PressedScale enlarges the grabbed node for the duration of the
	// gesture.
	PressedScale = 1.5

	// MaxRippleDepth bounds the affected neighborhood.
	MaxRippleDepth = 3
)

// InfluenceFactor scales how strongly a node at the given hop distance
// follows the dragged node.
func InfluenceFactor(depth int) float64 {
	switch depth {
	case 0:
		return 1.0
	case 1:
		return 0.6
	case 2:
		return 0.3
	default:
		return 0.1
	}
}

// spring tracks one follower: where it wants to be and how fast it is
// currently moving there.
type spring struct {
	targetX, targetY float64
	vx, vy           float64
}

// DragConfig tunes the drag gesture.
type DragConfig struct {
	// DragNeighbors enables the ripple: the neighborhood follows the
	// dragged node on springs, and the node is pinned where it is dropped.
	DragNeighbors bool
}

// DragController runs the press/move/release gesture. A press is a click
// until the pointer travels the threshold; after that it is a drag and no
// click fires. One gesture at a time: a second press while one is active is
// ignored.
type DragController struct {
	m       *graph.Model
	cfg     DragConfig
	onClick func(nodeID string)

	active   bool
	dragging bool
	nodeID   string
	pressX   float64
	pressY   float64
	lastX    float64
	lastY    float64

	depths  map[string]int
	springs map[string]*spring

	origSize        float64
	origHighlighted bool
	origFixed       bool
}

// NewDragController creates an idle controller. onClick fires on release of
// a press that never became a drag; it may be nil.
func NewDragController(m *graph.Model, cfg DragConfig, onClick func(nodeID string)) *DragController {
	return &DragController{m: m, cfg: cfg, onClick: onClick}
}

// Active reports whether a gesture is in progress.
func (d *DragController) Active() bool { return d.active }

// Dragging reports whether the active gesture has been classified as a
// drag.
func (d *DragController) Dragging() bool { return d.active && d.dragging }

// Press starts a gesture on a node at the given pointer position.
func (d *DragController) Press(nodeID string, x, y float64) {
	if d.active {
		log.Printf("interaction: press on %s ignored, gesture on %s already active", nodeID, d.nodeID)
		return
	}
	attrs, ok := d.m.NodeAttrs(nodeID)
	if !ok {
		log.Printf("interaction: press on unknown node %s ignored", nodeID)
		return
	}

	d.active = true
	d.dragging = false
	d.nodeID = nodeID
	d.pressX, d.pressY = x, y
	d.lastX, d.lastY = x, y

	d.origSize = attrs.Size
	d.origHighlighted = attrs.Highlighted
	d.origFixed = attrs.Fixed
	attrs.Size *= PressedScale
	attrs.Highlighted = true
	// Pin the grabbed node so a running simulation cannot fight the
	// pointer.
	attrs.Fixed = true

	d.depths = nil
	d.springs = nil
	if d.cfg.DragNeighbors {
		d.depths = analysis.DepthMap(d.m, nodeID, MaxRippleDepth)
		d.springs = make(map[string]*spring, len(d.depths))
		for id, depth := range d.depths {
			if depth == 0 {
				continue
			}
			na, ok := d.m.NodeAttrs(id)
			if !ok {
				continue
			}
			d.springs[id] = &spring{targetX: na.X, targetY: na.Y}
		}
	}
}

// Move updates the gesture with a new pointer position. Before the travel
// threshold is reached nothing moves; from the threshold on, the grabbed
// node tracks the pointer and follower targets shift by the depth-scaled
// delta.
func (d *DragController) Move(x, y float64) {
	if !d.active {
		return
	}
	if !d.dragging {
		if math.Hypot(x-d.pressX, y-d.pressY) < DragThreshold {
			d.lastX, d.lastY = x, y
			return
		}
		d.dragging = true
	}

	dx := x - d.lastX
	dy := y - d.lastY
	d.lastX, d.lastY = x, y
	if dx == 0 && dy == 0 {
		return
	}

	attrs, ok := d.m.NodeAttrs(d.nodeID)
	if !ok {
		log.Printf("interaction: dragged node %s vanished, cancelling gesture", d.nodeID)
		d.reset()
		return
	}
	attrs.X += dx
	attrs.Y += dy

	for id, s := range d.springs {
		factor := InfluenceFactor(d.depths[id])
		s.targetX += dx * factor
		s.targetY += dy * factor
	}
}

// Step advances the follower springs one frame and reports whether every
// follower has settled. The grabbed node itself never springs; it is moved
// directly by Move.
func (d *DragController) Step() bool {
	settled := true
	for id, s := range d.springs {
		attrs, ok := d.m.NodeAttrs(id)
		if !ok {
			delete(d.springs, id)
			continue
		}
		if attrs.Fixed {
			continue
		}
		s.vx = s.vx*SpringDamping + (s.targetX-attrs.X)*SpringStiffness
		s.vy = s.vy*SpringDamping + (s.targetY-attrs.Y)*SpringStiffness
		attrs.X += s.vx
		attrs.Y += s.vy
		if math.Hypot(s.vx, s.vy) >= ConvergenceEpsilon ||
			math.Hypot(s.targetX-attrs.X, s.targetY-attrs.Y) >= ConvergenceEpsilon {
			settled = false
		}
	}
	return settled
}

// Release ends the gesture. A press that never crossed the threshold is a
// click and fires the click callback; a drag leaves the node where it was
// dropped, pinned there when the ripple is enabled.
func (d *DragController) Release() {
	if !d.active {
		return
	}
	wasDrag := d.dragging
	nodeID := d.nodeID
	d.restoreVisuals(wasDrag)
	d.reset()
	if !wasDrag && d.onClick != nil {
		d.onClick(nodeID)
	}
}

// Cancel aborts the gesture without ever firing a click, for pointer-leave
// and teardown.
func (d *DragController) Cancel() {
	if !d.active {
		return
	}
	d.restoreVisuals(d.dragging)
	d.reset()
}

func (d *DragController) restoreVisuals(wasDrag bool) {
	attrs, ok := d.m.NodeAttrs(d.nodeID)
	if !ok {
		return
	}
	attrs.Size = d.origSize
	attrs.Highlighted = d.origHighlighted
	if wasDrag && d.cfg.DragNeighbors {
		attrs.Fixed = true
	} else {
		attrs.Fixed = d.origFixed
	}
}

func (d *DragController) reset() {
	d.active = false
	d.dragging = false
	d.nodeID = ""
	d.depths = nil
	d.springs = nil
}
