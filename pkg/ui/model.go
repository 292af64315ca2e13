package ui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/yrangana/sigview/pkg/analysis"
	"github.com/yrangana/sigview/pkg/config"
	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/interaction"
	"github.com/yrangana/sigview/pkg/layout"
	"github.com/yrangana/sigview/pkg/render"
)

const tickInterval = 50 * time.Millisecond

// grabStep is how far one arrow press moves a grabbed node, in graph
// units. Two presses cross the drag threshold.
const grabStep = 4.0

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// palette is the chrome styling for one theme. Node and edge colors come
// from the graph attributes, not the palette.
type palette struct {
	header lipgloss.Style
	status lipgloss.Style
	errMsg lipgloss.Style
	modal  lipgloss.Style
}

func paletteFor(theme string) palette {
	accent, muted, bad := "#e67e22", "#8a8fa8", "#ff5555"
	if theme == "light" {
		accent, muted, bad = "#b35418", "#5a5f73", "#c0392b"
	}
	return palette{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		errMsg: lipgloss.NewStyle().Foreground(lipgloss.Color(bad)),
		modal: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accent)).Padding(0, 1),
	}
}

// Model is the terminal widget. It owns the graph, the render reducer, and
// the interaction controllers, and coordinates which controller holds the
// highlight.
type Model struct {
	title  string
	opts   config.Options
	styles palette

	graph   *graph.Model
	stats   analysis.GraphStats
	reducer *render.Reducer

	selection *interaction.SelectionController
	path      *interaction.PathController
	search    *interaction.SearchController
	hover     *interaction.HoverController
	drag      *interaction.DragController
	runner    *interaction.ForceRunner

	cursor    int
	nodeOrder []string

	searchInput textinput.Model
	searching   bool

	detail     viewport.Model
	renderer   *glamour.TermRenderer
	showDetail bool

	modalText  string
	edgeCursor int

	pathMode bool
	grabbing bool
	grabX    float64
	grabY    float64

	ready  bool
	width  int
	height int

	status string
	err    error

	onLayoutComplete layout.CompleteFunc

	closed bool
}

// Hook configures optional widget callbacks at construction.
type Hook func(*Model)

// WithLayoutComplete registers fn to run after every wholesale layout
// application: the initial build, live reloads, and unknown-tag fallbacks.
func WithLayoutComplete(fn layout.CompleteFunc) Hook {
	return func(w *Model) { w.onLayoutComplete = fn }
}

// NewModel creates the widget around a built graph.
func NewModel(title string, m *graph.Model, stats analysis.GraphStats, opts config.Options, hooks ...Hook) Model {
	reducer := render.NewReducer(m)

	ti := textinput.New()
	ti.Placeholder = "search nodes"
	ti.CharLimit = 80

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(60),
	)

	w := Model{
		title:       title,
		opts:        opts,
		styles:      paletteFor(opts.Theme),
		graph:       m,
		stats:       stats,
		reducer:     reducer,
		selection:   interaction.NewSelectionController(m, reducer),
		path:        interaction.NewPathController(m, reducer),
		search:      interaction.NewSearchController(reducer),
		hover:       interaction.NewHoverController(m),
		runner:      interaction.NewForceRunner(m, layout.DefaultForceAtlas2Config(m.NodeCount())),
		nodeOrder:   m.Order(),
		searchInput: ti,
		renderer:    renderer,
	}
	w.drag = interaction.NewDragController(m, interaction.DragConfig{DragNeighbors: opts.DragNeighbors}, nil)
	for _, h := range hooks {
		h(&w)
	}

	// Configured dimensions allow painting before the first WindowSizeMsg;
	// real terminal dimensions still win once they arrive.
	if opts.Style.Ready() {
		w.width = opts.Style.Width
		w.height = opts.Style.Height
		w.ready = true
		w.detail = viewport.New(min(60, w.width-4), w.height-6)
	}

	layout.ApplyNotify(m, opts.LayoutType, w.onLayoutComplete)
	if opts.LayoutRunning {
		w.runner.Start()
	}
	if opts.SearchQuery != "" {
		w.search.SetQuery(opts.SearchQuery)
	}
	return w
}

// Close tears the widget down: the animation loop and any active gesture
// stop for good, and the highlight state is cleared.
func (w *Model) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.drag.Cancel()
	w.runner.Close()
	w.reducer.Reset()
}

func (w Model) Init() tea.Cmd {
	return tick()
}

func (w Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		// Defer the first paint until real dimensions arrive.
		w.ready = msg.Width > 0 && msg.Height > 0
		w.detail = viewport.New(min(60, msg.Width-4), msg.Height-6)
		return w, nil

	case tickMsg:
		if w.closed {
			return w, nil
		}
		w.runner.Step()
		if w.drag.Active() {
			w.drag.Step()
		}
		return w, tick()

	case GraphReadyMsg:
		w.swapGraph(msg.Graph, msg.Stats)
		w.status = fmt.Sprintf("reloaded: %d nodes, %d edges", msg.Graph.NodeCount(), msg.Graph.EdgeCount())
		return w, nil

	case GraphErrorMsg:
		w.err = msg.Err
		return w, nil

	case tea.KeyMsg:
		return w.handleKey(msg)
	}

	return w, nil
}

// swapGraph replaces the model after a live reload. Controllers are rebuilt
// against the new graph; stale highlights must not survive the swap.
func (w *Model) swapGraph(m *graph.Model, stats analysis.GraphStats) {
	w.drag.Cancel()
	w.runner.Close()

	w.graph = m
	w.stats = stats
	w.reducer = render.NewReducer(m)
	w.selection = interaction.NewSelectionController(m, w.reducer)
	w.path = interaction.NewPathController(m, w.reducer)
	w.search = interaction.NewSearchController(w.reducer)
	w.hover = interaction.NewHoverController(m)
	w.drag = interaction.NewDragController(m, interaction.DragConfig{DragNeighbors: w.opts.DragNeighbors}, nil)
	w.runner = interaction.NewForceRunner(m, layout.DefaultForceAtlas2Config(m.NodeCount()))
	w.nodeOrder = m.Order()
	if w.cursor >= len(w.nodeOrder) {
		w.cursor = 0
	}
	w.pathMode = false
	w.grabbing = false

	layout.ApplyNotify(m, w.opts.LayoutType, w.onLayoutComplete)
	if w.opts.LayoutRunning {
		w.runner.Start()
	}
	if q := w.search.Query(); q != "" {
		w.search.SetQuery(q)
	}
}

func (w Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if w.searching {
		switch msg.String() {
		case "enter":
			w.searching = false
			w.searchInput.Blur()
			w.search.SetQuery(w.searchInput.Value())
			return w, nil
		case "esc":
			w.searching = false
			w.searchInput.Blur()
			w.searchInput.SetValue("")
			w.search.SetQuery("")
			return w, nil
		}
		var cmd tea.Cmd
		w.searchInput, cmd = w.searchInput.Update(msg)
		return w, cmd
	}

	if w.modalText != "" {
		switch msg.String() {
		case "esc", "enter", "q":
			w.modalText = ""
		}
		return w, nil
	}

	if w.grabbing {
		return w.handleGrabKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		w.Close()
		return w, tea.Quit

	case "left", "h":
		w.moveCursor(-1)
	case "right", "l":
		w.moveCursor(1)
	case "up", "k":
		w.moveCursor(-5)
	case "down", "j":
		w.moveCursor(5)

	case "enter":
		if id, ok := w.cursorNode(); ok {
			if w.pathMode {
				w.path.Click(id)
			} else {
				w.path.Reset()
				w.selection.Select(id)
			}
		}

	case "esc":
		w.clearModes()

	case "p":
		w.pathMode = !w.pathMode
		w.clearModes()
		if w.pathMode {
			w.status = "path mode: pick two nodes"
		}

	case "/":
		w.searching = true
		w.searchInput.Focus()
		return w, textinput.Blink

	case " ":
		if w.runner.Running() {
			w.runner.Stop()
			w.status = "layout paused"
		} else {
			w.runner.Start()
			w.status = "layout running"
		}

	case "g":
		if id, ok := w.cursorNode(); ok {
			attrs, found := w.graph.NodeAttrs(id)
			if found {
				w.grabbing = true
				w.grabX, w.grabY = attrs.X, attrs.Y
				w.drag.Press(id, attrs.X, attrs.Y)
				w.status = "grabbed " + id + ": arrows move, g drops"
			}
		}

	case "d":
		w.toggleDetail()

	case "m":
		w.openEdgeModal()

	case "y":
		if id, ok := w.cursorNode(); ok {
			if err := clipboard.WriteAll(id); err != nil {
				w.status = "copy failed: " + err.Error()
			} else {
				w.status = "copied " + id
			}
		}

	case "n":
		w.opts.ShowNodeLabels = !w.opts.ShowNodeLabels
	}

	return w, nil
}

func (w Model) handleGrabKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dx, dy := 0.0, 0.0
	switch msg.String() {
	case "left", "h":
		dx = -grabStep
	case "right", "l":
		dx = grabStep
	case "up", "k":
		dy = -grabStep
	case "down", "j":
		dy = grabStep
	case "g", "enter":
		w.grabbing = false
		w.drag.Release()
		w.status = "dropped"
		return w, nil
	case "esc":
		w.grabbing = false
		w.drag.Cancel()
		w.status = "grab cancelled"
		return w, nil
	default:
		return w, nil
	}
	w.grabX += dx
	w.grabY += dy
	w.drag.Move(w.grabX, w.grabY)
	return w, nil
}

// clearModes restores the normal view whichever controller holds the
// highlight.
func (w *Model) clearModes() {
	w.path.Reset()
	w.selection.Clear()
	w.search.SetQuery("")
	w.searchInput.SetValue("")
	w.showDetail = false
	w.status = ""
}

func (w *Model) moveCursor(delta int) {
	if len(w.nodeOrder) == 0 {
		return
	}
	w.cursor = (w.cursor + delta + len(w.nodeOrder)) % len(w.nodeOrder)
	w.edgeCursor = 0
}

func (w Model) cursorNode() (string, bool) {
	if w.cursor < 0 || w.cursor >= len(w.nodeOrder) {
		return "", false
	}
	return w.nodeOrder[w.cursor], true
}

func (w *Model) toggleDetail() {
	if w.showDetail {
		w.showDetail = false
		return
	}
	id, ok := w.cursorNode()
	if !ok {
		return
	}
	text, ok := w.hover.NodeDetail(id)
	if !ok {
		return
	}
	if w.renderer != nil {
		if out, err := w.renderer.Render("```\n" + text + "\n```"); err == nil {
			text = out
		}
	}
	w.detail.SetContent(text)
	w.showDetail = true
}

// openEdgeModal shows the detail modal for an edge incident to the cursor
// node, cycling through them on repeated presses.
func (w *Model) openEdgeModal() {
	id, ok := w.cursorNode()
	if !ok {
		return
	}
	neighbors := w.graph.Neighbors(id)
	if len(neighbors) == 0 {
		w.status = "no edges at " + id
		return
	}
	nb := neighbors[w.edgeCursor%len(neighbors)]
	w.edgeCursor++
	if text, ok := w.hover.EdgeDetail(nb.EdgeID); ok {
		w.modalText = text
	}
}

func (w Model) View() string {
	if !w.ready {
		return "initializing..."
	}

	header := w.styles.header.Render(w.title) + w.styles.status.Render(
		fmt.Sprintf("  %d nodes · %d edges · %d components", w.stats.NodeCount, w.stats.EdgeCount, w.stats.Components))

	canvasHeight := w.height - 4
	canvasWidth := w.width
	if w.showDetail {
		canvasWidth = w.width - w.detail.Width - 3
	}
	if canvasHeight < 3 || canvasWidth < 10 {
		return header
	}

	cursorID, _ := w.cursorNode()
	body := drawGraph(w.graph, w.reducer, canvasWidth, canvasHeight, cursorID, drawOptions{
		showNodeLabels: w.opts.ShowNodeLabels,
		showEdgeLabels: w.opts.ShowEdgeLabels,
		edgeType:       w.opts.EdgeType,
	})
	if w.showDetail {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", w.detail.View())
	}

	footer := w.footerLine(cursorID)

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	if w.modalText != "" {
		modal := w.styles.modal.Width(min(60, w.width-4)).Render(w.modalText)
		view = lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return view
}

func (w Model) footerLine(cursorID string) string {
	if w.err != nil {
		return w.styles.errMsg.Render("error: "+w.err.Error()) + w.styles.status.Render("  (previous graph shown)")
	}
	if w.searching {
		return w.searchInput.View()
	}
	line := ""
	if cursorID != "" {
		if text, ok := w.hover.NodeText(cursorID); ok {
			line = text
		}
	}
	if w.status != "" {
		line += "  " + w.status
	}
	help := "enter select · p path · / search · space layout · g grab · d detail · m edge · y copy · q quit"
	return w.styles.status.Render(line + "\n" + help)
}
