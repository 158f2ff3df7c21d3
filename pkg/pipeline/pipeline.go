// Package pipeline provides the figure composition pipeline.
//
// This package implements the complete parse → resolve → render pipeline
// shared by every entry point, so CLI commands stay thin and behavior stays
// consistent.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read and validate the layout document
//  2. Resolve: turn the layout tree (or explicit panel list) into concrete
//     panel geometry
//  3. Render: generate output in the requested formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(measurer, logger)
//	opts := pipeline.Options{
//	    LayoutPath: "figure.yaml",
//	    Formats:    []compose.Format{compose.FormatSVG},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[compose.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/figquilt/figquilt/pkg/compose"
	"github.com/figquilt/figquilt/pkg/config"
	"github.com/figquilt/figquilt/pkg/errors"
	"github.com/figquilt/figquilt/pkg/layout"
)

// DefaultFormat is rendered when no formats are requested.
const DefaultFormat = compose.FormatSVG

// Options contains all configuration for a pipeline run.
type Options struct {
	// LayoutPath is the layout document to compose. Required.
	LayoutPath string `json:"layout_path"`

	// Formats selects the output formats. Defaults to SVG.
	Formats []compose.Format `json:"formats,omitempty"`

	// DPI overrides the document's page DPI for raster output.
	DPI int `json:"dpi,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.LayoutPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "layout path is required")
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive")
	}
	if len(o.Formats) == 0 {
		o.Formats = []compose.Format{DefaultFormat}
	}
	for _, f := range o.Formats {
		if !compose.ValidFormat(f) {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %q (must be one of: svg, png, pdf, json)", f)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Figure is the parsed and validated layout document.
	Figure *config.Figure

	// Panels is the resolved geometry, one entry per source.
	Panels []layout.Panel

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[compose.Format][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PanelCount  int
	ParseTime   time.Duration
	ResolveTime time.Duration
	RenderTime  time.Duration
}
