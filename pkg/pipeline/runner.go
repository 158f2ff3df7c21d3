package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/figquilt/figquilt/pkg/compose"
	"github.com/figquilt/figquilt/pkg/config"
	"github.com/figquilt/figquilt/pkg/errors"
	"github.com/figquilt/figquilt/pkg/layout"
	"github.com/figquilt/figquilt/pkg/source"
)

// Runner executes the composition pipeline.
//
// The Runner is stateless except for the measurer and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Measurer layout.Measurer
	Logger   *log.Logger
}

// NewRunner creates a runner with the given measurer.
// If measurer is nil, a plain filesystem measurer is used (no caching).
func NewRunner(m layout.Measurer, logger *log.Logger) *Runner {
	if m == nil {
		m = source.NewFileMeasurer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Measurer: m, Logger: logger}
}

// Execute runs the complete parse → resolve → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[compose.Format][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	fig, err := r.Parse(opts.LayoutPath)
	if err != nil {
		return nil, err
	}
	result.Figure = fig
	result.Stats.ParseTime = time.Since(parseStart)

	opts.Logger.Info("parsed layout",
		"path", opts.LayoutPath,
		"duration", result.Stats.ParseTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Resolve
	resolveStart := time.Now()
	panels, err := r.Resolve(fig)
	if err != nil {
		return nil, err
	}
	result.Panels = panels
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.PanelCount = len(panels)

	opts.Logger.Info("resolved geometry",
		"panels", len(panels),
		"duration", result.Stats.ResolveTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(fig, panels, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse reads and validates a layout document.
func (r *Runner) Parse(path string) (*config.Figure, error) {
	return config.Parse(path)
}

// Resolve turns the parsed document into concrete panel geometry.
func (r *Runner) Resolve(fig *config.Figure) ([]layout.Panel, error) {
	var panels []layout.Panel
	var err error
	if fig.Root != nil {
		panels, err = layout.Resolve(fig.Page, fig.Root, r.Measurer)
	} else {
		panels, err = layout.ResolvePanels(fig.Page, fig.Panels, r.Measurer)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGeometry, err, "resolve layout")
	}
	return panels, nil
}

// Render generates every requested format from the resolved geometry.
func (r *Runner) Render(fig *config.Figure, panels []layout.Panel, opts Options) (map[compose.Format][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	page := fig.Page
	if opts.DPI > 0 {
		page.DPI = opts.DPI
	}
	docSize := compose.WithDocumentSize(fig.UnitWidth, fig.UnitHeight, fig.Units)

	artifacts := make(map[compose.Format][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case compose.FormatSVG:
			data, err = compose.RenderSVG(page, panels, r.Measurer, docSize)
		case compose.FormatPNG:
			data, err = compose.RenderPNG(page, panels, r.Measurer)
		case compose.FormatPDF:
			data, err = compose.RenderPDF(page, panels, r.Measurer, compose.WithPDFSVGOptions(docSize))
		case compose.FormatJSON:
			data, err = compose.RenderJSON(page, panels)
		default:
			err = errors.New(errors.ErrCodeInvalidFormat, "%s", string(format))
		}
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
		opts.Logger.Debug("rendered artifact", "format", format, "bytes", len(data))
	}
	return artifacts, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
