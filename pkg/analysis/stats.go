package analysis

import (
	"gonum.org/v1/gonum/graph/topo"

	"github.com/yrangana/sigview/pkg/graph"
)

// GraphStats summarizes a model for the status bar and export headers.
type GraphStats struct {
	NodeCount   int
	EdgeCount   int
	Components  int
	Isolates    int
	MaxDegree   int
	MaxDegreeID string
}

// ComputeStats derives summary statistics. Connected components come from
// the gonum mirror; degree figures from the adjacency.
func ComputeStats(m *graph.Model) GraphStats {
	stats := GraphStats{
		NodeCount: m.NodeCount(),
		EdgeCount: m.EdgeCount(),
	}

	g, _, _ := m.Gonum()
	if m.NodeCount() > 0 {
		stats.Components = len(topo.ConnectedComponents(g))
	}

	for _, id := range m.Order() {
		d := m.Degree(id)
		if d == 0 {
			stats.Isolates++
		}
		if d > stats.MaxDegree {
			stats.MaxDegree = d
			stats.MaxDegreeID = id
		}
	}
	return stats
}
