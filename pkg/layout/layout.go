// Package layout implements the positioning strategies a graph model can be
// laid out with: a ForceAtlas2-style force simulation with an overlap
// removal pass, a deterministic circle, and a uniform random scatter.
package layout

import (
	"log"

	"github.com/yrangana/sigview/pkg/graph"
)

// Type tags the available strategies.
type Type string

const (
	TypeForceAtlas2 Type = "forceAtlas2"
	TypeCircular    Type = "circular"
	TypeRandom      Type = "random"
)

// IsValid returns true if the tag names a known strategy.
func (t Type) IsValid() bool {
	switch t {
	case TypeForceAtlas2, TypeCircular, TypeRandom:
		return true
	}
	return false
}

// CompleteFunc observes a finished wholesale layout application. It
// receives the strategy that actually ran, which differs from the requested
// tag when an unknown tag falls back.
type CompleteFunc func(applied Type)

// Apply assigns x,y to every node of the model according to the tagged
// strategy. An unknown tag falls back to forceAtlas2 with a warning, never
// an error. Nodes marked Fixed keep their position under forceAtlas2; the
// wholesale strategies (circular, random) reposition everything.
func Apply(m *graph.Model, t Type) {
	ApplyNotify(m, t, nil)
}

// ApplyNotify is Apply with a completion callback, invoked once after the
// positions are in place. A nil callback is allowed.
func ApplyNotify(m *graph.Model, t Type, done CompleteFunc) {
	applied := t
	switch t {
	case TypeCircular:
		Circular(m)
	case TypeRandom:
		Random(m)
	case TypeForceAtlas2:
		ForceAtlas2(m, DefaultForceAtlas2Config(m.NodeCount()))
	default:
		log.Printf("layout: unknown layout type %q, falling back to %s", t, TypeForceAtlas2)
		applied = TypeForceAtlas2
		ForceAtlas2(m, DefaultForceAtlas2Config(m.NodeCount()))
	}
	if done != nil {
		done(applied)
	}
}
