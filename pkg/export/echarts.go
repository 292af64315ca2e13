package export

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/render"
	"github.com/yrangana/sigview/pkg/tooltip"
)

// EChartsOptions configures the echarts page.
type EChartsOptions struct {
	Title  string
	Path   string
	Width  string // CSS size, e.g. "1200px"
	Height string
}

// WriteECharts renders the graph as an echarts page using the precomputed
// positions. Useful when the force-graph page is too heavy for the target
// browser.
func WriteECharts(m *graph.Model, o EChartsOptions) error {
	if m.NodeCount() == 0 {
		return fmt.Errorf("no nodes to export")
	}
	if o.Width == "" {
		o.Width = "1200px"
	}
	if o.Height == "" {
		o.Height = "800px"
	}
	title := o.Title
	if title == "" {
		title = "Graph"
	}

	chart := charts.NewGraph()
	chart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  o.Width,
			Height: o.Height,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make(map[string]string, m.NodeCount())
	seen := make(map[string]bool, m.NodeCount())
	nodes := make([]opts.GraphNode, 0, m.NodeCount())
	for _, id := range m.Order() {
		attrs, ok := m.NodeAttrs(id)
		if !ok {
			continue
		}
		color := attrs.Color
		if color == "" {
			color = render.DefaultNodeColor
		}
		// Series nodes are keyed by name, so duplicate labels must be
		// disambiguated or their links cross-wire.
		name := tooltip.TruncateLabel(labelOrID(attrs.Label, id))
		if seen[name] {
			name = fmt.Sprintf("%s (%s)", name, id)
		}
		seen[name] = true
		names[id] = name
		nodes = append(nodes, opts.GraphNode{
			Name:       name,
			X:          float32(attrs.X),
			Y:          float32(attrs.Y),
			SymbolSize: attrs.Size,
			ItemStyle:  &opts.ItemStyle{Color: color},
		})
	}

	links := make([]opts.GraphLink, 0, m.EdgeCount())
	for _, eid := range m.EdgeIDs() {
		e, ok := m.Edge(eid)
		if !ok {
			continue
		}
		links = append(links, opts.GraphLink{
			Source: names[e.Source],
			Target: names[e.Target],
			Value:  float32(e.Attrs.Weight),
		})
	}

	chart.AddSeries("graph", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout: "none",
			Roam:   opts.Bool(true),
		}),
	)

	f, err := os.Create(o.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", o.Path, err)
	}
	defer f.Close()
	return chart.Render(f)
}
