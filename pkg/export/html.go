// Package export writes the graph to standalone artifacts: an interactive
// HTML page, an echarts page, SVG, and PNG. Exporters read the model and
// never mutate it, so they can run concurrently with the widget.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/yrangana/sigview/pkg/analysis"
	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/render"
	"github.com/yrangana/sigview/pkg/tooltip"
)

// HTMLOptions configures interactive HTML generation.
type HTMLOptions struct {
	Title   string
	Path    string // output path; auto-generated from DocName when empty
	DocName string
}

// htmlNode is the wire form of a node embedded in the page.
type htmlNode struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Hover     string   `json:"hover"`
	Color     string   `json:"color"`
	Size      float64  `json:"size"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Fixed     bool     `json:"fixed"`
	Category  string   `json:"category"`
	Fragments []string `json:"fragments"`
}

// htmlLink is the wire form of an edge embedded in the page.
type htmlLink struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Hover  string  `json:"hover"`
	Detail string  `json:"detail"`
	Color  string  `json:"color"`
	Weight float64 `json:"weight"`
}

// HTMLFilename builds an auto-generated output name from the document name
// and a timestamp.
func HTMLFilename(docName string) string {
	if docName == "" {
		docName = "graph"
	}
	safe := strings.NewReplacer(" ", "_", "/", "_").Replace(docName)
	return fmt.Sprintf("%s_%s.html", safe, time.Now().Format("20060102_150405"))
}

// WriteInteractiveHTML renders a self-contained page with the full widget
// behavior: ripple drag, neighborhood selection, two-click shortest path,
// search, and hover details. Returns the path written.
func WriteInteractiveHTML(m *graph.Model, stats *analysis.GraphStats, opts HTMLOptions) (string, error) {
	if m.NodeCount() == 0 {
		return "", fmt.Errorf("no nodes to export")
	}

	nodes := make([]htmlNode, 0, m.NodeCount())
	for _, id := range m.Order() {
		attrs, ok := m.NodeAttrs(id)
		if !ok {
			continue
		}
		color := attrs.Color
		if color == "" {
			color = render.DefaultNodeColor
		}
		nodes = append(nodes, htmlNode{
			ID:        id,
			Label:     tooltip.TruncateLabel(labelOrID(attrs.Label, id)),
			Hover:     tooltip.NodeHover(id, attrs),
			Color:     color,
			Size:      attrs.Size,
			X:         attrs.X,
			Y:         attrs.Y,
			Fixed:     attrs.Fixed,
			Category:  attrs.Category,
			Fragments: tooltip.Fragments(attrs.Description),
		})
	}

	links := make([]htmlLink, 0, m.EdgeCount())
	for _, eid := range m.EdgeIDs() {
		e, ok := m.Edge(eid)
		if !ok {
			continue
		}
		color := e.Attrs.Color
		if color == "" {
			color = render.DefaultEdgeColor
		}
		links = append(links, htmlLink{
			ID:     eid,
			Source: e.Source,
			Target: e.Target,
			Hover:  tooltip.EdgeHover(e),
			Detail: tooltip.EdgeDetail(e, nodeLabel(m, e.Source), nodeLabel(m, e.Target)),
			Color:  color,
			Weight: e.Attrs.Weight,
		})
	}

	payload, err := json.Marshal(map[string]any{"nodes": nodes, "links": links})
	if err != nil {
		return "", fmt.Errorf("marshal graph data: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = "Graph"
	}
	outputPath := opts.Path
	if outputPath == "" {
		outputPath = HTMLFilename(opts.DocName)
	}
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".html"
	}

	components := 0
	isolates := 0
	if stats != nil {
		components = stats.Components
		isolates = stats.Isolates
	}
	page := renderHTMLPage(title, string(payload), m.NodeCount(), m.EdgeCount(), components, isolates)

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(page), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

func labelOrID(label, id string) string {
	if label == "" {
		return id
	}
	return label
}

func nodeLabel(m *graph.Model, id string) string {
	if attrs, ok := m.NodeAttrs(id); ok {
		return labelOrID(attrs.Label, id)
	}
	return id
}

func renderHTMLPage(title, dataJSON string, nodeCount, edgeCount, components, isolates int) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s | sigview</title>
    <style>
        :root {
            --bg: #1e1f29;
            --bg-panel: #2a2c3a;
            --fg: #f4f4f0;
            --fg-muted: #8a8fa8;
            --accent: #e67e22;
            --endpoint: #3498db;
            --dim: #cccccc;
            --shadow: 0 4px 18px rgba(0,0,0,0.45);
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: ui-monospace, 'SF Mono', Menlo, monospace;
            background: var(--bg); color: var(--fg);
            height: 100vh; display: flex; flex-direction: column; overflow: hidden;
        }
        header {
            background: var(--bg-panel); padding: 0.55rem 1.1rem;
            display: flex; justify-content: space-between; align-items: center;
            border-bottom: 2px solid var(--accent); z-index: 100;
        }
        h1 { font-size: 1rem; font-weight: 600; }
        .toolbar { display: flex; gap: 0.5rem; align-items: center; }
        button, input {
            font-family: inherit; font-size: 0.7rem; padding: 0.35rem 0.65rem;
            border: 1px solid var(--fg-muted); border-radius: 5px;
            background: var(--bg); color: var(--fg); cursor: pointer;
        }
        button:hover { border-color: var(--accent); }
        button.active { background: var(--accent); color: var(--bg); border-color: var(--accent); }
        input { width: 170px; cursor: text; }
        input:focus { outline: none; border-color: var(--accent); }
        main { flex: 1; position: relative; overflow: hidden; }
        #graph { width: 100%%; height: 100%%; }
        .overlay {
            position: absolute; top: 0.7rem; left: 0.7rem; z-index: 10;
            background: var(--bg-panel); padding: 0.4rem 0.7rem; border-radius: 6px;
            font-size: 0.6rem; color: var(--fg-muted); display: flex; gap: 0.9rem;
            box-shadow: var(--shadow);
        }
        .overlay b { color: var(--fg); }
        #tooltip {
            position: fixed; display: none; z-index: 500; pointer-events: none;
            background: var(--bg-panel); border: 1px solid var(--accent);
            padding: 0.35rem 0.6rem; border-radius: 5px; font-size: 0.65rem;
            max-width: 360px; white-space: pre-wrap; box-shadow: var(--shadow);
        }
        #modal-backdrop {
            position: fixed; inset: 0; background: rgba(0,0,0,0.55);
            display: none; z-index: 900;
        }
        #modal {
            position: fixed; top: 50%%; left: 50%%; transform: translate(-50%%,-50%%);
            background: var(--bg-panel); border: 1px solid var(--accent);
            border-radius: 8px; padding: 1rem 1.2rem; z-index: 1000;
            max-width: 440px; max-height: 70vh; overflow-y: auto;
            font-size: 0.7rem; white-space: pre-wrap; display: none;
            box-shadow: var(--shadow);
        }
        footer {
            background: var(--bg-panel); padding: 0.35rem 1rem; font-size: 0.55rem;
            color: var(--fg-muted); display: flex; justify-content: space-between;
        }
        .toast {
            position: fixed; bottom: 60px; left: 50%%; transform: translateX(-50%%);
            background: var(--bg-panel); border: 1px solid var(--accent);
            padding: 0.5rem 1rem; border-radius: 6px; font-size: 0.65rem;
            z-index: 1100; opacity: 0; transition: opacity 0.25s ease;
        }
        .toast.visible { opacity: 1; }
    </style>
</head>
<body>
    <header>
        <h1>%s</h1>
        <div class="toolbar">
            <input type="text" id="search" placeholder="Search...">
            <button id="btn-layout">Layout</button>
            <button id="btn-path">Path</button>
            <button id="btn-fit">Fit</button>
        </div>
    </header>
    <main>
        <div id="graph"></div>
        <div class="overlay">
            <span><b>%d</b> nodes</span>
            <span><b>%d</b> edges</span>
            <span><b>%d</b> components</span>
            <span><b>%d</b> isolates</span>
        </div>
    </main>
    <footer>
        <div>Generated %s</div>
        <div>sigview</div>
    </footer>
    <div id="tooltip"></div>
    <div id="modal-backdrop"></div>
    <div id="modal"></div>
    <div class="toast" id="toast"></div>
    <script src="https://unpkg.com/force-graph@1.43.5/dist/force-graph.min.js"></script>
    <script>
const DATA = %s;

const DIM = '#cccccc';
const PATH_COLOR = '#e67e22';
const ENDPOINT_COLOR = '#3498db';
const DRAG_THRESHOLD = 5;
const PRESS_SCALE = 1.5;
const STIFFNESS = 0.3;
const DAMPING = 0.8;
const EPSILON = 0.1;
const INFLUENCE = [1.0, 0.6, 0.3, 0.1];
const MAX_RIPPLE_DEPTH = 3;

const nodeById = {};
DATA.nodes.forEach(n => { nodeById[n.id] = n; if (n.fixed) { n.fx = n.x; n.fy = n.y; } });
const adjacency = {};
DATA.nodes.forEach(n => adjacency[n.id] = []);
DATA.links.forEach(l => {
    if (l.source !== l.target) {
        adjacency[l.source].push(l.target);
        adjacency[l.target].push(l.source);
    }
});

// BFS depth map bounded by maxDepth, over undirected adjacency.
function depthMap(origin, maxDepth) {
    const depths = {}; depths[origin] = 0;
    let frontier = [origin];
    for (let d = 1; d <= maxDepth && frontier.length; d++) {
        const next = [];
        frontier.forEach(id => adjacency[id].forEach(nb => {
            if (!(nb in depths)) { depths[nb] = d; next.push(nb); }
        }));
        frontier = next;
    }
    return depths;
}

function shortestPath(start, end) {
    const parent = {}; parent[start] = null;
    let frontier = [start];
    while (frontier.length) {
        const next = [];
        for (const id of frontier) {
            for (const nb of adjacency[id]) {
                if (nb in parent) continue;
                parent[nb] = id;
                if (nb === end) {
                    const path = [nb];
                    let cur = id;
                    while (cur !== null) { path.unshift(cur); cur = parent[cur]; }
                    return path;
                }
                next.push(nb);
            }
        }
        frontier = next;
    }
    return null;
}

// Render mode: exactly one of normal, search, selection, path owns the
// highlight at a time.
let mode = { kind: 'normal' };
function setMode(next) { mode = next; graph.nodeColor(graph.nodeColor()); }
function nodeVisible(n) {
    if (mode.kind === 'path' && mode.nodes) return mode.nodes.has(n.id);
    return true;
}
function nodeColor(n) {
    switch (mode.kind) {
    case 'search':
        return mode.hits.has(n.id) ? n.color : DIM;
    case 'selection':
        return mode.hood.has(n.id) ? n.color : DIM;
    case 'pathStart':
        return n.id === mode.start ? ENDPOINT_COLOR : n.color;
    case 'path':
        if (!mode.nodes.has(n.id)) return DIM;
        return (n.id === mode.start || n.id === mode.end) ? ENDPOINT_COLOR : PATH_COLOR;
    }
    return n.color;
}
function linkVisible(l) {
    const s = l.source.id || l.source, t = l.target.id || l.target;
    switch (mode.kind) {
    case 'selection': return mode.hood.has(s) || mode.hood.has(t);
    case 'path': return mode.links.has(l.id);
    }
    return true;
}
function linkColor(l) {
    if (mode.kind === 'path' && mode.links.has(l.id)) return PATH_COLOR;
    const s = l.source.id || l.source, t = l.target.id || l.target;
    if (mode.kind === 'search' && !(mode.hits.has(s) || mode.hits.has(t))) return DIM;
    return l.color;
}
function linkWidth(l) {
    return (mode.kind === 'path' && mode.links.has(l.id)) ? 3 : 1;
}

const tooltipEl = document.getElementById('tooltip');
const toastEl = document.getElementById('toast');
let toastTimer = null;
function toast(msg) {
    toastEl.textContent = msg;
    toastEl.classList.add('visible');
    clearTimeout(toastTimer);
    toastTimer = setTimeout(() => toastEl.classList.remove('visible'), 2200);
}

// Drag gesture: press is a click until the pointer travels the threshold;
// past it, the neighborhood follows on springs scaled by hop distance.
let gesture = null;
function beginGesture(node) {
    if (gesture) return;
    gesture = {
        node, drag: false,
        startX: node.x, startY: node.y,
        lastX: node.x, lastY: node.y,
        depths: depthMap(node.id, MAX_RIPPLE_DEPTH),
        springs: {},
        origSize: node.size,
    };
    for (const [id, d] of Object.entries(gesture.depths)) {
        if (d === 0) continue;
        const f = nodeById[id];
        gesture.springs[id] = { tx: f.x, ty: f.y, vx: 0, vy: 0 };
    }
    node.size = node.size * PRESS_SCALE;
}
function moveGesture(node) {
    if (!gesture || gesture.node !== node) return;
    if (!gesture.drag) {
        if (Math.hypot(node.x - gesture.startX, node.y - gesture.startY) < DRAG_THRESHOLD) {
            gesture.lastX = node.x; gesture.lastY = node.y;
            return;
        }
        gesture.drag = true;
    }
    const dx = node.x - gesture.lastX, dy = node.y - gesture.lastY;
    gesture.lastX = node.x; gesture.lastY = node.y;
    for (const [id, s] of Object.entries(gesture.springs)) {
        const f = INFLUENCE[Math.min(gesture.depths[id], INFLUENCE.length - 1)];
        s.tx += dx * f; s.ty += dy * f;
    }
}
function stepSprings() {
    if (!gesture) return;
    for (const [id, s] of Object.entries(gesture.springs)) {
        const n = nodeById[id];
        if (n.fx !== undefined && n.fx !== null) continue;
        s.vx = s.vx * DAMPING + (s.tx - n.x) * STIFFNESS;
        s.vy = s.vy * DAMPING + (s.ty - n.y) * STIFFNESS;
        if (Math.hypot(s.vx, s.vy) < EPSILON && Math.hypot(s.tx - n.x, s.ty - n.y) < EPSILON) continue;
        n.x += s.vx; n.y += s.vy;
    }
}
setInterval(stepSprings, 16);
function endGesture(node) {
    if (!gesture || gesture.node !== node) return;
    const wasDrag = gesture.drag;
    node.size = gesture.origSize;
    if (wasDrag) { node.fx = node.x; node.fy = node.y; }
    gesture = null;
    if (!wasDrag) handleClick(node);
}

// Two-click shortest path.
let pathMode = false;
document.getElementById('btn-path').addEventListener('click', ev => {
    pathMode = !pathMode;
    ev.target.classList.toggle('active', pathMode);
    setMode({ kind: 'normal' });
});

function handleClick(node) {
    if (pathMode) {
        if (mode.kind === 'pathStart') {
            if (node.id === mode.start) { toast('Pick two different nodes'); setMode({ kind: 'normal' }); return; }
            const path = shortestPath(mode.start, node.id);
            if (!path) { toast('No path between ' + mode.start + ' and ' + node.id); setMode({ kind: 'normal' }); return; }
            const links = new Set();
            for (let i = 0; i + 1 < path.length; i++) {
                DATA.links.forEach(l => {
                    const s = l.source.id || l.source, t = l.target.id || l.target;
                    if ((s === path[i] && t === path[i+1]) || (t === path[i] && s === path[i+1])) links.add(l.id);
                });
            }
            setMode({ kind: 'path', start: mode.start, end: node.id, nodes: new Set(path), links });
        } else if (mode.kind === 'path') {
            setMode({ kind: 'normal' });
        } else {
            setMode({ kind: 'pathStart', start: node.id });
        }
        return;
    }
    if (mode.kind === 'selection' && mode.id === node.id) return;
    const hood = new Set(adjacency[node.id]); hood.add(node.id);
    setMode({ kind: 'selection', id: node.id, hood });
}

const graph = ForceGraph()(document.getElementById('graph'))
    .graphData(DATA)
    .nodeId('id')
    .nodeLabel(n => n.hover)
    .nodeColor(nodeColor)
    .nodeVal(n => n.size)
    .nodeVisibility(nodeVisible)
    .linkColor(linkColor)
    .linkWidth(linkWidth)
    .linkVisibility(linkVisible)
    .linkLabel(l => l.hover)
    .cooldownTicks(0)
    .onNodeDrag(n => { if (!gesture) beginGesture(n); moveGesture(n); })
    .onNodeDragEnd(endGesture)
    .onNodeClick(() => {})
    .onLinkClick(l => showModal(l.detail))
    .onBackgroundClick(() => setMode({ kind: 'normal' }));

document.getElementById('btn-layout').addEventListener('click', ev => {
    const running = ev.target.classList.toggle('active');
    graph.cooldownTicks(running ? Infinity : 0);
    if (running) graph.d3ReheatSimulation();
});
document.getElementById('btn-fit').addEventListener('click', () => graph.zoomToFit(400, 40));

document.getElementById('search').addEventListener('input', ev => {
    const q = ev.target.value.trim().toLowerCase();
    if (!q) { setMode({ kind: 'normal' }); return; }
    const hits = new Set();
    DATA.nodes.forEach(n => {
        if (n.label.toLowerCase().includes(q) || (n.category || '').toLowerCase().includes(q)) hits.add(n.id);
    });
    if (hits.size) setMode({ kind: 'search', hits });
    else setMode({ kind: 'normal' });
});

const modalEl = document.getElementById('modal');
const backdropEl = document.getElementById('modal-backdrop');
function showModal(text) {
    modalEl.textContent = text;
    modalEl.style.display = 'block';
    backdropEl.style.display = 'block';
}
function hideModal() {
    modalEl.style.display = 'none';
    backdropEl.style.display = 'none';
}
backdropEl.addEventListener('click', hideModal);
document.addEventListener('keydown', ev => {
    if (ev.key === 'Escape') { hideModal(); setMode({ kind: 'normal' }); }
});
    </script>
</body>
</html>`, title, title, nodeCount, edgeCount, components, isolates, timestamp, dataJSON)
}
