// Package config holds the widget options and their YAML file form.
// Unknown enum values are normalized with a logged warning rather than
// rejected; a bad option never prevents the graph from showing.
package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yrangana/sigview/pkg/layout"
)

// EdgeType selects how edges are drawn.
type EdgeType string

const (
	EdgeTypeLine  EdgeType = "line"
	EdgeTypeArrow EdgeType = "arrow"
	EdgeTypeCurve EdgeType = "curve"
)

// IsValid reports whether the edge type is one of the known renderers.
func (e EdgeType) IsValid() bool {
	switch e {
	case EdgeTypeLine, EdgeTypeArrow, EdgeTypeCurve:
		return true
	}
	return false
}

// Style carries the widget dimensions. Rendering is deferred until both
// are known, so a zero-size first paint never happens.
type Style struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Ready reports whether both dimensions are usable.
func (s Style) Ready() bool { return s.Width > 0 && s.Height > 0 }

// Options is the full widget configuration.
type Options struct {
	LayoutType     layout.Type `yaml:"layout_type"`
	LayoutRunning  bool        `yaml:"layout_running"`
	DragNeighbors  bool        `yaml:"drag_neighbors"`
	ShowNodeLabels bool        `yaml:"show_node_labels"`
	ShowEdgeLabels bool        `yaml:"show_edge_labels"`
	SearchQuery    string      `yaml:"search_query"`
	EdgeType       EdgeType    `yaml:"edge_type"`
	Style          Style       `yaml:"style"`
	Theme          string      `yaml:"theme"`
}

// Default returns the stock options.
func Default() Options {
	return Options{
		LayoutType:     layout.TypeForceAtlas2,
		LayoutRunning:  false,
		DragNeighbors:  true,
		ShowNodeLabels: true,
		ShowEdgeLabels: false,
		EdgeType:       EdgeTypeLine,
		Theme:          "dark",
	}
}

// Normalize replaces unknown enum values with their defaults, logging each
// replacement. Layout fallback is handled again at apply time; normalizing
// here keeps the stored options clean.
func (o *Options) Normalize() {
	if o.LayoutType != "" && !o.LayoutType.IsValid() {
		log.Printf("config: unknown layout_type %q, using %s", o.LayoutType, layout.TypeForceAtlas2)
		o.LayoutType = layout.TypeForceAtlas2
	}
	if o.LayoutType == "" {
		o.LayoutType = layout.TypeForceAtlas2
	}
	if o.EdgeType != "" && !o.EdgeType.IsValid() {
		log.Printf("config: unknown edge_type %q, using %s", o.EdgeType, EdgeTypeLine)
		o.EdgeType = EdgeTypeLine
	}
	if o.EdgeType == "" {
		o.EdgeType = EdgeTypeLine
	}
	switch o.Theme {
	case "":
		o.Theme = "dark"
	case "dark", "light":
	default:
		log.Printf("config: unknown theme %q, using dark", o.Theme)
		o.Theme = "dark"
	}
}

// Load reads options from a YAML file, layered over the defaults.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing config %s: %w", path, err)
	}
	opts.Normalize()
	return opts, nil
}
