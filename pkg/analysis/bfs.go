// Package analysis implements the graph traversals behind the interaction
// controllers: breadth-first depth maps for drag propagation and
// bidirectional shortest-path search for the two-click path mode.
package analysis

import (
	"sync"

	"github.com/yrangana/sigview/pkg/graph"
)

// bfsBuffers holds reusable scratch space for breadth-first traversals.
// Pooled via sync.Pool to avoid per-gesture allocations: a depth map is
// recomputed on every drag press, which can be frequent.
type bfsBuffers struct {
	queue []string
	next  []string
}

var bfsPool = sync.Pool{
	New: func() interface{} {
		return &bfsBuffers{
			queue: make([]string, 0, 256),
			next:  make([]string, 0, 256),
		}
	},
}

// DepthMap computes hop distances from origin over the undirected adjacency,
// stopping at maxDepth (inclusive). The origin maps to depth 0. A negative
// maxDepth means unbounded. The returned map is owned by the caller; the
// scratch buffers are pooled.
func DepthMap(m *graph.Model, origin string, maxDepth int) map[string]int {
	depths := make(map[string]int)
	if !m.HasNode(origin) {
		return depths
	}

	buf := bfsPool.Get().(*bfsBuffers)
	defer bfsPool.Put(buf)
	buf.queue = buf.queue[:0]
	buf.next = buf.next[:0]

	depths[origin] = 0
	buf.queue = append(buf.queue, origin)
	depth := 0

	for len(buf.queue) > 0 {
		if maxDepth >= 0 && depth >= maxDepth {
			break
		}
		buf.next = buf.next[:0]
		for _, id := range buf.queue {
			for _, nb := range m.Neighbors(id) {
				if _, seen := depths[nb.NodeID]; seen {
					continue
				}
				depths[nb.NodeID] = depth + 1
				buf.next = append(buf.next, nb.NodeID)
			}
		}
		buf.queue, buf.next = buf.next, buf.queue
		depth++
	}

	return depths
}

// ShortestPath finds a minimum-hop path between two distinct nodes using
// bidirectional BFS over undirected connectivity (edge direction ignored).
// Returns the node sequence from start to end and true, or nil and false
// when the endpoints are equal, unknown, or disconnected. Ties between
// equally short paths resolve by adjacency order; either result satisfies
// the contract.
func ShortestPath(m *graph.Model, start, end string) ([]string, bool) {
	if start == end {
		return nil, false
	}
	if !m.HasNode(start) || !m.HasNode(end) {
		return nil, false
	}

	parentFwd := map[string]string{start: ""}
	parentBwd := map[string]string{end: ""}
	frontFwd := []string{start}
	frontBwd := []string{end}

	for len(frontFwd) > 0 && len(frontBwd) > 0 {
		// Expand the smaller frontier; keeps the search balanced.
		if len(frontFwd) <= len(frontBwd) {
			next, meet := expand(m, frontFwd, parentFwd, parentBwd)
			if meet != "" {
				return join(meet, parentFwd, parentBwd), true
			}
			frontFwd = next
		} else {
			next, meet := expand(m, frontBwd, parentBwd, parentFwd)
			if meet != "" {
				return join(meet, parentFwd, parentBwd), true
			}
			frontBwd = next
		}
	}

	return nil, false
}

// expand advances one BFS layer. It returns the new frontier and, if a node
// already visited from the other side was reached, the meeting node.
func expand(m *graph.Model, frontier []string, parents, other map[string]string) ([]string, string) {
	var next []string
	for _, id := range frontier {
		for _, nb := range m.Neighbors(id) {
			if _, seen := parents[nb.NodeID]; seen {
				continue
			}
			parents[nb.NodeID] = id
			if _, hit := other[nb.NodeID]; hit {
				return nil, nb.NodeID
			}
			next = append(next, nb.NodeID)
		}
	}
	return next, ""
}

// join stitches the two half-paths together at the meeting node.
func join(meet string, parentFwd, parentBwd map[string]string) []string {
	var head []string
	for at := meet; at != ""; at = parentFwd[at] {
		head = append(head, at)
	}
	// head is meet..start; reverse it.
	for i, j := 0, len(head)-1; i < j; i, j = i+1, j-1 {
		head[i], head[j] = head[j], head[i]
	}
	for at := parentBwd[meet]; at != ""; at = parentBwd[at] {
		head = append(head, at)
	}
	return head
}
