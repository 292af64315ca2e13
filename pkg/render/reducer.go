// Package render computes the effective drawn attributes of graph elements
// without mutating their stored state. Exactly one render mode is active at
// a time; the reducer dispatches on it, which keeps the highlight owners
// (search, selection, path) from fighting over the view.
package render

import (
	"strings"

	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/model"
)

// Colors used by the non-normal modes.
const (
	DimmedColor      = "#cccccc"
	PathColor        = "#e67e22"
	PathStartColor   = "#3498db"
	SearchHitColor   = "#f1c40f"
	DefaultNodeColor = "#5a7d9a"
	DefaultEdgeColor = "#999999"
)

// PathNodeScale enlarges nodes lying on a shown path.
const PathNodeScale = 1.25

// Mode is the active render override. The zero value of the widget uses
// Normal.
type Mode interface{ isMode() }

// Normal renders stored attributes untouched.
type Normal struct{}

// Search highlights nodes matching a query and dims the rest.
type Search struct{ Query string }

// Selection emphasizes one node and its direct neighbors and dims or hides
// everything else.
type Selection struct{ NodeID string }

// PathStart marks the first endpoint while the second click is pending.
type PathStart struct{ NodeID string }

// Path shows a computed path and hides everything off it.
type Path struct {
	Start string
	End   string
	Nodes []string
}

func (Normal) isMode()    {}
func (Search) isMode()    {}
func (Selection) isMode() {}
func (PathStart) isMode() {}
func (Path) isMode()      {}

// Reducer resolves effective attributes for the active mode. SetMode swaps
// modes atomically: the derived sets are computed before the mode becomes
// visible, so a repaint never observes a half-dimmed state.
type Reducer struct {
	m    *graph.Model
	mode Mode

	neighborhood map[string]bool // Selection: selected + direct neighbors
	pathNodes    map[string]bool
	pathEdges    map[string]bool
	searchHits   map[string]bool
}

// NewReducer creates a reducer in Normal mode.
func NewReducer(m *graph.Model) *Reducer {
	return &Reducer{m: m, mode: Normal{}}
}

// Mode returns the active mode.
func (r *Reducer) Mode() Mode { return r.mode }

// Reset restores Normal mode. Every highlight owner calls this on its own
// deactivation, including unmount, so no stale override leaks into the next
// mode.
func (r *Reducer) Reset() { r.SetMode(Normal{}) }

// SetMode activates a mode and precomputes its derived sets.
func (r *Reducer) SetMode(mode Mode) {
	r.neighborhood = nil
	r.pathNodes = nil
	r.pathEdges = nil
	r.searchHits = nil

	switch v := mode.(type) {
	case Selection:
		set := r.m.NeighborSet(v.NodeID)
		set[v.NodeID] = true
		r.neighborhood = set
	case Path:
		r.pathNodes = make(map[string]bool, len(v.Nodes))
		for _, id := range v.Nodes {
			r.pathNodes[id] = true
		}
		r.pathEdges = pathEdgeSet(r.m, v.Nodes)
	case Search:
		r.searchHits = searchMatches(r.m, v.Query)
	}
	r.mode = mode
}

// pathEdgeSet collects, for each consecutive node pair on the path, every
// edge connecting the pair in either direction.
func pathEdgeSet(m *graph.Model, nodes []string) map[string]bool {
	set := make(map[string]bool)
	for i := 0; i+1 < len(nodes); i++ {
		a, b := nodes[i], nodes[i+1]
		for _, nb := range m.Neighbors(a) {
			if nb.NodeID == b {
				set[nb.EdgeID] = true
			}
		}
	}
	return set
}

// searchMatches runs the case-insensitive substring match against label,
// category, and entity type.
func searchMatches(m *graph.Model, query string) map[string]bool {
	hits := make(map[string]bool)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return hits
	}
	for _, id := range m.Order() {
		attrs, ok := m.NodeAttrs(id)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(attrs.Label), q) ||
			strings.Contains(strings.ToLower(attrs.Category), q) ||
			strings.Contains(strings.ToLower(attrs.EntityType), q) {
			hits[id] = true
		}
	}
	return hits
}

// NodeStyle returns the attributes to draw for a node and whether it is
// visible at all. The returned value is a copy; stored state is untouched.
func (r *Reducer) NodeStyle(id string) (model.NodeAttributes, bool) {
	stored, ok := r.m.NodeAttrs(id)
	if !ok {
		return model.NodeAttributes{}, false
	}
	attrs := stored.Clone()
	if attrs.Color == "" {
		attrs.Color = DefaultNodeColor
	}
	if attrs.Hidden {
		return attrs, false
	}

	switch v := r.mode.(type) {
	case Normal:
		return attrs, true

	case Search:
		if len(r.searchHits) == 0 {
			return attrs, true
		}
		if r.searchHits[id] {
			attrs.Highlighted = true
			return attrs, true
		}
		attrs.Color = DimmedColor
		return attrs, true

	case Selection:
		if r.neighborhood[id] {
			if v.NodeID == id {
				attrs.Highlighted = true
			}
			return attrs, true
		}
		attrs.Color = DimmedColor
		attrs.Highlighted = false
		return attrs, true

	case PathStart:
		if v.NodeID == id {
			attrs.Color = PathStartColor
			attrs.Highlighted = true
		}
		return attrs, true

	case Path:
		if !r.pathNodes[id] {
			return attrs, false
		}
		attrs.Color = PathColor
		attrs.Size *= PathNodeScale
		attrs.Highlighted = true
		if id == v.Start || id == v.End {
			attrs.Color = PathStartColor
		}
		return attrs, true
	}

	return attrs, true
}

// EdgeStyle returns the attributes to draw for an edge and whether it is
// visible.
func (r *Reducer) EdgeStyle(id string) (model.EdgeAttributes, bool) {
	e, ok := r.m.Edge(id)
	if !ok {
		return model.EdgeAttributes{}, false
	}
	attrs := e.Attrs.Clone()
	if attrs.Color == "" {
		attrs.Color = DefaultEdgeColor
	}
	if attrs.Hidden {
		return attrs, false
	}

	switch r.mode.(type) {
	case Normal, PathStart:
		return attrs, true

	case Search:
		if len(r.searchHits) == 0 {
			return attrs, true
		}
		if r.searchHits[e.Source] || r.searchHits[e.Target] {
			return attrs, true
		}
		attrs.Color = DimmedColor
		return attrs, true

	case Selection:
		// Hide any edge not touching the selected node or its neighbors.
		if r.neighborhood[e.Source] || r.neighborhood[e.Target] {
			return attrs, true
		}
		return attrs, false

	case Path:
		if !r.pathEdges[id] {
			return attrs, false
		}
		attrs.Color = PathColor
		if attrs.Size < 1 {
			attrs.Size = 1
		}
		attrs.Size *= 2
		return attrs, true
	}

	return attrs, true
}
