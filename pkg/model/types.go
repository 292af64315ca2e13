// Package model defines the graph document types shared by the loader,
// the graph adapter, and the exporters.
package model

import "fmt"

// GraphType describes edge directedness for the whole document.
type GraphType string

const (
	TypeDirected   GraphType = "directed"
	TypeUndirected GraphType = "undirected"
	TypeMixed      GraphType = "mixed"
)

// IsValid returns true if the graph type is a recognized value.
// An empty type is valid and means "directed" (the historical default).
func (t GraphType) IsValid() bool {
	switch t {
	case "", TypeDirected, TypeUndirected, TypeMixed:
		return true
	}
	return false
}

// NodeAttributes holds the stored visual and semantic attributes of a node.
// Interaction controllers mutate these; render reducers never do.
type NodeAttributes struct {
	Label       string  `json:"label,omitempty"`
	Category    string  `json:"category,omitempty"`
	EntityType  string  `json:"entity_type,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	Size        float64 `json:"size,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Importance  float64 `json:"importance,omitempty"`

	Highlighted bool `json:"highlighted,omitempty"`
	Hidden      bool `json:"hidden,omitempty"`
	Fixed       bool `json:"fixed,omitempty"`

	// Extra carries attribute keys that are not first-class fields so the
	// two wire forms round-trip losslessly.
	Extra map[string]any `json:"-"`
}

// Clone creates a deep copy of the attributes.
func (a NodeAttributes) Clone() NodeAttributes {
	clone := a
	if a.Extra != nil {
		clone.Extra = make(map[string]any, len(a.Extra))
		for k, v := range a.Extra {
			clone.Extra[k] = v
		}
	}
	return clone
}

// EdgeAttributes holds the stored attributes of an edge.
type EdgeAttributes struct {
	Label       string  `json:"label,omitempty"`
	Color       string  `json:"color,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Size        float64 `json:"size,omitempty"`
	Description string  `json:"description,omitempty"`
	Keyword     string  `json:"keyword,omitempty"`

	Hidden bool `json:"hidden,omitempty"`

	Extra map[string]any `json:"-"`
}

// Clone creates a deep copy of the attributes.
func (a EdgeAttributes) Clone() EdgeAttributes {
	clone := a
	if a.Extra != nil {
		clone.Extra = make(map[string]any, len(a.Extra))
		for k, v := range a.Extra {
			clone.Extra[k] = v
		}
	}
	return clone
}

// Node is one vertex of a graph document. HasX/HasY record whether the
// payload carried an explicit position; absent positions are randomized by
// the graph adapter.
type Node struct {
	ID    string
	Attrs NodeAttributes

	HasX    bool
	HasY    bool
	HasSize bool
}

// Validate checks that the node is structurally usable.
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	return nil
}

// Edge is one link of a graph document. ID may be empty in the payload; the
// graph adapter assigns a deterministic one in that case.
type Edge struct {
	ID     string
	Source string
	Target string
	Attrs  EdgeAttributes
}

// Validate checks that the edge references two endpoints. Whether those
// endpoints exist is the loader's concern, not the edge's.
func (e *Edge) Validate() error {
	if e.Source == "" {
		return fmt.Errorf("edge source cannot be empty")
	}
	if e.Target == "" {
		return fmt.Errorf("edge target cannot be empty")
	}
	return nil
}

// Options carries document-level settings.
type Options struct {
	Type GraphType `json:"type,omitempty"`
}

// Document is the external payload: a node/edge list plus options. This is
// the only structural unit of change; updates replace the whole document
// rather than patching it, so layout and rendering stay consistent.
type Document struct {
	Nodes   []Node
	Edges   []Edge
	Options Options
}

// Signature identifies a document cheaply for rebuild/dedup decisions:
// node count, edge count, and the first node id.
type Signature struct {
	NodeCount   int
	EdgeCount   int
	FirstNodeID string
}

// Signature computes the document's identity signature.
func (d *Document) Signature() Signature {
	sig := Signature{NodeCount: len(d.Nodes), EdgeCount: len(d.Edges)}
	if len(d.Nodes) > 0 {
		sig.FirstNodeID = d.Nodes[0].ID
	}
	return sig
}

// String renders the signature for logging and cache keys.
func (s Signature) String() string {
	return fmt.Sprintf("n%d-e%d-%s", s.NodeCount, s.EdgeCount, s.FirstNodeID)
}

// Validate checks the document: non-empty unique node ids and well-formed
// edges. Edges referencing unknown nodes are NOT an error here; the loader
// drops them individually with a warning.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Nodes))
	for i := range d.Nodes {
		if err := d.Nodes[i].Validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if seen[d.Nodes[i].ID] {
			return fmt.Errorf("duplicate node id %q", d.Nodes[i].ID)
		}
		seen[d.Nodes[i].ID] = true
	}
	for i := range d.Edges {
		if err := d.Edges[i].Validate(); err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return nil
}
