// Command sv is an interactive graph viewer for the terminal. It loads a
// graph document, lays it out, and either opens the widget or writes
// static exports.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/yrangana/sigview/pkg/analysis"
	"github.com/yrangana/sigview/pkg/config"
	"github.com/yrangana/sigview/pkg/export"
	"github.com/yrangana/sigview/pkg/graph"
	"github.com/yrangana/sigview/pkg/layout"
	"github.com/yrangana/sigview/pkg/loader"
	"github.com/yrangana/sigview/pkg/store"
	"github.com/yrangana/sigview/pkg/ui"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		layoutName = flag.String("layout", "", "layout: forceatlas2, circular, random")
		title      = flag.String("title", "", "widget title")
		cachePath  = flag.String("cache", "", "sqlite layout cache path")
		noWatch    = flag.Bool("no-watch", false, "disable live reload")

		exportHTML    = flag.String("export-html", "", "write interactive HTML and exit")
		exportSVG     = flag.String("export-svg", "", "write SVG and exit")
		exportPNG     = flag.String("export-png", "", "write PNG and exit")
		exportECharts = flag.String("export-echarts", "", "write echarts HTML and exit")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sv [flags] <graph.json>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	docPath := flag.Arg(0)

	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("sv: %v", err)
		}
		opts = loaded
	}
	if *layoutName != "" {
		opts.LayoutType = layout.Type(*layoutName)
		opts.Normalize()
	}

	doc, err := loader.LoadDocumentFromFile(docPath)
	if err != nil {
		log.Fatalf("sv: %v", err)
	}
	m, err := graph.Build(doc)
	if err != nil {
		log.Fatalf("sv: %v", err)
	}
	stats := analysis.ComputeStats(m)

	applyLayout(m, opts.LayoutType, *cachePath)

	if *exportHTML != "" || *exportSVG != "" || *exportPNG != "" || *exportECharts != "" {
		if err := runExports(m, &stats, opts, *title, *exportHTML, *exportSVG, *exportPNG, *exportECharts); err != nil {
			log.Fatalf("sv: %v", err)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "sv: stdout is not a terminal; use an -export flag for non-interactive output")
		os.Exit(1)
	}

	if os.Getenv("SIGVIEW_DEBUG") != "" {
		f, err := tea.LogToFile("sigview-debug.log", "sv")
		if err == nil {
			defer f.Close()
		}
	} else {
		// The widget owns the terminal; default logging would corrupt it.
		log.SetOutput(io.Discard)
	}

	widgetTitle := *title
	if widgetTitle == "" {
		widgetTitle = docPath
	}
	widget := ui.NewModel(widgetTitle, m, stats, opts)
	program := tea.NewProgram(widget, tea.WithAltScreen())

	var worker *ui.Worker
	if !*noWatch {
		worker, err = ui.NewWorker(ui.WorkerConfig{DocPath: docPath, Program: program})
		if err != nil {
			log.Fatalf("sv: %v", err)
		}
		if err := worker.Start(); err != nil {
			log.Fatalf("sv: %v", err)
		}
	}

	final, err := program.Run()
	if worker != nil {
		worker.Stop()
	}
	if fm, ok := final.(ui.Model); ok {
		fm.Close()
	}
	if err != nil {
		log.Fatalf("sv: %v", err)
	}

	if *cachePath != "" {
		saveLayout(m, *cachePath)
	}
}

// applyLayout restores cached positions when available, otherwise runs the
// configured layout and caches the result. Cache failures are logged and
// the layout runs anyway.
func applyLayout(m *graph.Model, t layout.Type, cachePath string) {
	if cachePath != "" {
		s, err := store.Open(cachePath)
		if err != nil {
			log.Printf("sv: layout cache unavailable: %v", err)
		} else {
			defer s.Close()
			hit, err := s.ApplyLayout(m)
			if err != nil {
				log.Printf("sv: layout cache read: %v", err)
			} else if hit {
				return
			}
		}
	}
	layout.ApplyNotify(m, t, func(applied layout.Type) {
		log.Printf("sv: layout complete (%s)", applied)
	})
	if cachePath != "" {
		saveLayout(m, cachePath)
	}
}

func saveLayout(m *graph.Model, cachePath string) {
	s, err := store.Open(cachePath)
	if err != nil {
		log.Printf("sv: layout cache unavailable: %v", err)
		return
	}
	defer s.Close()
	if err := s.SaveLayout(m); err != nil {
		log.Printf("sv: layout cache write: %v", err)
	}
}

// runExports writes all requested outputs concurrently.
func runExports(m *graph.Model, stats *analysis.GraphStats, cfg config.Options, title, html, svg, png, echarts string) error {
	var g errgroup.Group
	if html != "" {
		g.Go(func() error {
			path, err := export.WriteInteractiveHTML(m, stats, export.HTMLOptions{Title: title, Path: html})
			if err == nil {
				fmt.Println(path)
			}
			return err
		})
	}
	if svg != "" {
		g.Go(func() error {
			if err := export.WriteSVG(m, export.SVGOptions{
				Path:           svg,
				ShowLabels:     cfg.ShowNodeLabels,
				ShowEdgeLabels: cfg.ShowEdgeLabels,
				EdgeType:       cfg.EdgeType,
			}); err != nil {
				return err
			}
			fmt.Println(svg)
			return nil
		})
	}
	if png != "" {
		g.Go(func() error {
			if err := export.WritePNG(m, export.PNGOptions{
				Path:           png,
				ShowLabels:     cfg.ShowNodeLabels,
				ShowEdgeLabels: cfg.ShowEdgeLabels,
				EdgeType:       cfg.EdgeType,
			}); err != nil {
				return err
			}
			fmt.Println(png)
			return nil
		})
	}
	if echarts != "" {
		g.Go(func() error {
			if err := export.WriteECharts(m, export.EChartsOptions{Title: title, Path: echarts}); err != nil {
				return err
			}
			fmt.Println(echarts)
			return nil
		})
	}
	return g.Wait()
}
