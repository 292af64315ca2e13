package interaction

import (
	"log"
	"strings"

	"github.com/yrangana/sigview/pkg/analysis"
	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/render"
	"github.com/yrangana/sigview/pkg/tooltip"
)

// SelectionController owns the neighborhood-highlight mode. Selecting the
// already selected node is a no-op; selecting another node switches the
// highlight in one step, with no intermediate cleared frame.
type SelectionController struct {
	m        *graph.Model
	r        *render.Reducer
	selected string
	has      bool
}

func NewSelectionController(m *graph.Model, r *render.Reducer) *SelectionController {
	return &SelectionController{m: m, r: r}
}

// Selected returns the current selection, if any.
func (c *SelectionController) Selected() (string, bool) { return c.selected, c.has }

// Select highlights a node and its direct neighbors.
func (c *SelectionController) Select(nodeID string) {
	if !c.m.HasNode(nodeID) {
		log.Printf("interaction: select of unknown node %s ignored", nodeID)
		return
	}
	if c.has && c.selected == nodeID {
		return
	}
	c.selected = nodeID
	c.has = true
	c.r.SetMode(render.Selection{NodeID: nodeID})
}

// Clear drops the selection, restoring the normal view. Clicking the
// background routes here.
func (c *SelectionController) Clear() {
	if !c.has {
		return
	}
	c.selected = ""
	c.has = false
	c.r.Reset()
}

type pathState int

const (
	pathIdle pathState = iota
	pathStartSelected
	pathShown
)

// PathController runs the two-click shortest-path flow: first click picks
// the start, second click computes and shows the path, any further click
// clears it. Errors along the way clear the flow instead of wedging it.
type PathController struct {
	m     *graph.Model
	r     *render.Reducer
	state pathState
	start string
}

func NewPathController(m *graph.Model, r *render.Reducer) *PathController {
	return &PathController{m: m, r: r}
}

// Active reports whether the flow holds any state worth clearing.
func (c *PathController) Active() bool { return c.state != pathIdle }

// Click feeds a node click into the flow.
func (c *PathController) Click(nodeID string) {
	switch c.state {
	case pathIdle:
		if !c.m.HasNode(nodeID) {
			log.Printf("interaction: path start on unknown node %s ignored", nodeID)
			return
		}
		c.start = nodeID
		c.state = pathStartSelected
		c.r.SetMode(render.PathStart{NodeID: nodeID})

	case pathStartSelected:
		if !c.m.HasNode(nodeID) {
			log.Printf("interaction: path end on unknown node %s ignored", nodeID)
			c.Reset()
			return
		}
		if nodeID == c.start {
			log.Printf("interaction: path endpoints must differ, got %s twice", nodeID)
			c.Reset()
			return
		}
		nodes, ok := analysis.ShortestPath(c.m, c.start, nodeID)
		if !ok {
			log.Printf("interaction: no path between %s and %s", c.start, nodeID)
			c.Reset()
			return
		}
		c.r.SetMode(render.Path{Start: c.start, End: nodeID, Nodes: nodes})
		c.state = pathShown

	case pathShown:
		c.Reset()
	}
}

// Reset clears the flow and restores the normal view.
func (c *PathController) Reset() {
	if c.state == pathIdle {
		return
	}
	c.state = pathIdle
	c.start = ""
	c.r.Reset()
}

// SearchController owns the query-highlight mode. An empty or blank query
// clears it.
type SearchController struct {
	r     *render.Reducer
	query string
}

func NewSearchController(r *render.Reducer) *SearchController {
	return &SearchController{r: r}
}

// Query returns the active query.
func (c *SearchController) Query() string { return c.query }

// SetQuery updates the highlight to match the query.
func (c *SearchController) SetQuery(q string) {
	q = strings.TrimSpace(q)
	if q == c.query {
		return
	}
	c.query = q
	if q == "" {
		c.r.Reset()
		return
	}
	c.r.SetMode(render.Search{Query: q})
}

// HoverController formats hover and detail text. Elements can vanish
// between the pointer event and the lookup when the document is reloaded,
// so every lookup re-checks existence and degrades to a warning.
type HoverController struct {
	m *graph.Model
}

func NewHoverController(m *graph.Model) *HoverController {
	return &HoverController{m: m}
}

// NodeText returns the hover line for a node.
func (c *HoverController) NodeText(id string) (string, bool) {
	attrs, ok := c.m.NodeAttrs(id)
	if !ok {
		log.Printf("interaction: hover on missing node %s", id)
		return "", false
	}
	return tooltip.NodeHover(id, attrs), true
}

// EdgeText returns the hover line for an edge.
func (c *HoverController) EdgeText(id string) (string, bool) {
	e, ok := c.m.Edge(id)
	if !ok {
		log.Printf("interaction: hover on missing edge %s", id)
		return "", false
	}
	return tooltip.EdgeHover(e), true
}

// NodeDetail returns the multi-line detail text for a node.
func (c *HoverController) NodeDetail(id string) (string, bool) {
	attrs, ok := c.m.NodeAttrs(id)
	if !ok {
		log.Printf("interaction: detail for missing node %s", id)
		return "", false
	}
	return tooltip.NodeDetail(id, attrs), true
}

// EdgeDetail returns the modal text for an edge, with the endpoint node
// labels resolved through the model.
func (c *HoverController) EdgeDetail(id string) (string, bool) {
	e, ok := c.m.Edge(id)
	if !ok {
		log.Printf("interaction: detail for missing edge %s", id)
		return "", false
	}
	return tooltip.EdgeDetail(e, c.nodeLabel(e.Source), c.nodeLabel(e.Target)), true
}

func (c *HoverController) nodeLabel(id string) string {
	if attrs, ok := c.m.NodeAttrs(id); ok && attrs.Label != "" {
		return attrs.Label
	}
	return id
}
