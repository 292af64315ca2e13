// Package graph adapts an external graph document into the working model
// the layouts, controllers, and renderers share.
package graph

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/yrangana/sigview/pkg/model"
)

// DefaultNodeSize is assigned when the payload carries no size.
const DefaultNodeSize = 10

// defaultPositionExtent is the half-width of the square that initial random
// positions are drawn from, matching the random layout's square.
const defaultPositionExtent = 100

// Neighbor is one undirected adjacency entry: the node on the other side of
// an edge plus the edge that connects them.
type Neighbor struct {
	NodeID string
	EdgeID string
}

// Model is the working graph: stored attributes keyed by id, undirected
// adjacency for the interaction controllers, and a gonum mirror for the
// analysis routines. It is rebuilt wholesale on every document change.
type Model struct {
	sig       model.Signature
	graphType model.GraphType

	order     []string
	nodes     map[string]*model.NodeAttributes
	edgeOrder []string
	edges     map[string]*model.Edge
	adj       map[string][]Neighbor

	g        *simple.UndirectedGraph
	idToNode map[string]int64
	nodeToID map[int64]string
}

// Option configures a Build call.
type Option func(*buildOptions)

type buildOptions struct {
	rng *rand.Rand
}

// WithRand supplies the randomness source used for missing positions.
// Tests pass a seeded source; production uses the global one.
func WithRand(rng *rand.Rand) Option {
	return func(o *buildOptions) { o.rng = rng }
}

// Build constructs the working model from a sanitized document, assigning
// default size and an initial random position where the payload has none.
func Build(doc *model.Document, opts ...Option) (*Model, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	m := &Model{
		sig:       doc.Signature(),
		graphType: doc.Options.Type,
		nodes:     make(map[string]*model.NodeAttributes, len(doc.Nodes)),
		edges:     make(map[string]*model.Edge, len(doc.Edges)),
		adj:       make(map[string][]Neighbor, len(doc.Nodes)),
		g:         simple.NewUndirectedGraph(),
		idToNode:  make(map[string]int64, len(doc.Nodes)),
		nodeToID:  make(map[int64]string, len(doc.Nodes)),
	}

	for i := range doc.Nodes {
		n := doc.Nodes[i]
		if m.nodes[n.ID] != nil {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		attrs := n.Attrs.Clone()
		if !n.HasSize || attrs.Size <= 0 {
			attrs.Size = DefaultNodeSize
		}
		if !n.HasX {
			attrs.X = randomCoord(bo.rng)
		}
		if !n.HasY {
			attrs.Y = randomCoord(bo.rng)
		}
		m.order = append(m.order, n.ID)
		m.nodes[n.ID] = &attrs

		gid := int64(i)
		m.idToNode[n.ID] = gid
		m.nodeToID[gid] = n.ID
		m.g.AddNode(simple.Node(gid))
	}

	autoSeq := make(map[string]int)
	for i := range doc.Edges {
		e := doc.Edges[i]
		if m.nodes[e.Source] == nil || m.nodes[e.Target] == nil {
			return nil, fmt.Errorf("edge %s -> %s references a missing node", e.Source, e.Target)
		}
		id := e.ID
		if id == "" {
			pair := e.Source + "->" + e.Target
			id = fmt.Sprintf("%s#%d", pair, autoSeq[pair])
			autoSeq[pair]++
		}
		if m.edges[id] != nil {
			return nil, fmt.Errorf("duplicate edge id %q", id)
		}
		stored := e
		stored.ID = id
		stored.Attrs = e.Attrs.Clone()
		m.edgeOrder = append(m.edgeOrder, id)
		m.edges[id] = &stored

		if e.Source != e.Target {
			m.adj[e.Source] = append(m.adj[e.Source], Neighbor{NodeID: e.Target, EdgeID: id})
			m.adj[e.Target] = append(m.adj[e.Target], Neighbor{NodeID: e.Source, EdgeID: id})
			m.g.SetEdge(m.g.NewEdge(simple.Node(m.idToNode[e.Source]), simple.Node(m.idToNode[e.Target])))
		}
	}

	return m, nil
}

func randomCoord(rng *rand.Rand) float64 {
	if rng != nil {
		return (rng.Float64()*2 - 1) * defaultPositionExtent
	}
	return (rand.Float64()*2 - 1) * defaultPositionExtent
}

// Signature returns the identity signature of the source document.
func (m *Model) Signature() model.Signature { return m.sig }

// Type returns the document-level graph type.
func (m *Model) Type() model.GraphType { return m.graphType }

// Order returns node ids in payload order. Callers must not mutate it.
func (m *Model) Order() []string { return m.order }

// EdgeIDs returns edge ids in payload order. Callers must not mutate it.
func (m *Model) EdgeIDs() []string { return m.edgeOrder }

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.order) }

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int { return len(m.edgeOrder) }

// HasNode reports whether the node still exists in the model. Interaction
// handlers check this before reading attributes.
func (m *Model) HasNode(id string) bool { return m.nodes[id] != nil }

// NodeAttrs returns the stored attributes of a node for mutation.
func (m *Model) NodeAttrs(id string) (*model.NodeAttributes, bool) {
	a, ok := m.nodes[id]
	return a, ok
}

// Edge returns the stored edge record.
func (m *Model) Edge(id string) (*model.Edge, bool) {
	e, ok := m.edges[id]
	return e, ok
}

// EdgeAttrs returns the stored attributes of an edge for mutation.
func (m *Model) EdgeAttrs(id string) (*model.EdgeAttributes, bool) {
	e, ok := m.edges[id]
	if !ok {
		return nil, false
	}
	return &e.Attrs, true
}

// Neighbors returns the undirected adjacency of a node: both edge directions
// are treated as neighbors. Callers must not mutate the slice.
func (m *Model) Neighbors(id string) []Neighbor { return m.adj[id] }

// NeighborSet returns the ids adjacent to a node as a set.
func (m *Model) NeighborSet(id string) map[string]bool {
	set := make(map[string]bool, len(m.adj[id]))
	for _, nb := range m.adj[id] {
		set[nb.NodeID] = true
	}
	return set
}

// Degree returns the undirected degree of a node.
func (m *Model) Degree(id string) int { return len(m.adj[id]) }

// Gonum exposes the undirected mirror for analysis routines, together with
// the string<->int64 id mappings.
func (m *Model) Gonum() (*simple.UndirectedGraph, map[string]int64, map[int64]string) {
	return m.g, m.idToNode, m.nodeToID
}

// Clear drops all stored attributes and adjacency. Called on widget
// teardown so a dangling reference cannot resurrect stale state.
func (m *Model) Clear() {
	m.order = nil
	m.edgeOrder = nil
	m.nodes = map[string]*model.NodeAttributes{}
	m.edges = map[string]*model.Edge{}
	m.adj = map[string][]Neighbor{}
	m.g = simple.NewUndirectedGraph()
	m.idToNode = map[string]int64{}
	m.nodeToID = map[int64]string{}
}
