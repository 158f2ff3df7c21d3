// Package pkg provides the core libraries for figquilt figure composition.
//
// # Overview
//
// Figquilt turns a declarative layout document into a composed multi-panel
// figure. The pkg directory is organized along the pipeline:
//
//  1. [config] - Parse and validate YAML/TOML layout documents
//  2. [layout] - Resolve the layout tree into concrete panel geometry
//  3. [source] - Measure the intrinsic dimensions of panel sources
//  4. [compose] - Render resolved panels to SVG, PNG, PDF, and JSON
//  5. [pipeline] - Orchestration (parse → resolve → render)
//
// # Architecture
//
// The typical data flow through figquilt:
//
//	Layout Document (YAML/TOML)
//	         ↓
//	    [config] package (validate, convert units, resolve assets)
//	         ↓
//	    [layout] package (recursive geometry + auto-flow packing)
//	         ↓
//	    [compose] package (place sources, draw labels)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Compose a figure from a document:
//
//	import (
//	    "context"
//	    "github.com/figquilt/figquilt/pkg/compose"
//	    "github.com/figquilt/figquilt/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    LayoutPath: "figure.yaml",
//	    Formats:    []compose.Format{compose.FormatSVG},
//	})
//	svg := result.Artifacts[compose.FormatSVG]
//
// Or drive the stages directly:
//
//	fig, _ := config.Parse("figure.yaml")
//	panels, _ := layout.Resolve(fig.Page, fig.Root, source.NewFileMeasurer())
//	svg, _ := compose.RenderSVG(fig.Page, panels, source.NewFileMeasurer())
//
// # Main Packages
//
// [config] - Document parsing and validation. Turns the loose on-disk node
// shape into the closed container/leaf tree of the layout package, converts
// every linear quantity from page units to points, and resolves asset paths
// relative to the document.
//
// [layout] - The geometry core. Pure resolution from a layout tree (or an
// explicit panel list) to a flat list of positioned panels, including the
// dynamic-programming row packer behind auto containers. Depends on nothing
// but the measurer interface.
//
// [source] - Measurers for PNG/JPEG/GIF (image headers), SVG (width/height
// attributes or viewBox), and PDF (MediaBox). [source.CachedMeasurer] adds
// mtime-keyed caching on top of any [cache.Cache].
//
// [compose] - Render sinks. SVG embeds sources as data URIs; PNG rasterizes
// with gg and imaging; PDF shells out to rsvg-convert; JSON emits the
// resolved geometry for downstream tooling.
//
// [cache] - Measurement cache backends: file-based for the CLI, Redis for
// shared deployments, and a null cache for tests and --no-cache.
//
// [units] - Page unit conversion (mm, cm, in, pt) to points.
//
// [errors] - Structured errors with machine-readable codes shared by every
// package and surfaced by the CLI.
//
// [pipeline] - The parse → resolve → render pipeline used by the CLI, kept
// separate so other entry points behave identically.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//	go test -run Example         # Examples only
//
// [config]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/config
// [layout]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/layout
// [source]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/source
// [compose]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/compose
// [cache]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/cache
// [units]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/units
// [errors]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/pipeline
// [source.CachedMeasurer]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/source#CachedMeasurer
// [cache.Cache]: https://pkg.go.dev/github.com/figquilt/figquilt/pkg/cache#Cache
package pkg
