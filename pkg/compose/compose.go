// Package compose turns resolved panel geometry into output artifacts.
//
// A sink transforms a resolved page (a [layout.Page] plus its flat
// []layout.Panel) into one final output format. This package provides
// renderers for:
//
//   - SVG: vector output with sources embedded as data URIs
//   - PNG: raster output drawn natively at the page DPI
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: resolved geometry export for external tools
//
// All sinks share the same placement arithmetic: a panel's cell is offset
// by the page margin, and the source content is positioned inside the cell
// by [layout.Fit] using the source aspect ratio reported by the measurer.
package compose

import (
	"github.com/figquilt/figquilt/pkg/errors"
	"github.com/figquilt/figquilt/pkg/layout"
)

// Format identifies an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// ValidFormat reports whether f names a known sink.
func ValidFormat(f Format) bool {
	switch f {
	case FormatSVG, FormatPNG, FormatPDF, FormatJSON:
		return true
	}
	return false
}

// placement is a panel's content rectangle on the page, in points. The
// cell is the panel rectangle shifted by the page margin; the content is
// where the source is actually drawn inside it.
type placement struct {
	cellX, cellY       float64
	cellW, cellH       float64
	contentW, contentH float64
	offsetX, offsetY   float64
}

// place computes the placement for one panel, consulting the measurer for
// the source aspect ratio.
func place(page layout.Page, p layout.Panel, m layout.Measurer) (placement, error) {
	w, h, err := m.Measure(p.Source)
	if err != nil {
		return placement{}, errors.Wrap(errors.ErrCodeMeasureFailed, err, "measure source for panel %q", p.ID)
	}
	if w <= 0 || h <= 0 {
		return placement{}, errors.New(errors.ErrCodeMeasureFailed, "source for panel %q has non-positive dimensions", p.ID)
	}

	contentW, contentH, offsetX, offsetY := layout.Fit(h/w, p.Width, p.Height, p.Fit, p.Align)
	return placement{
		cellX:    page.Margin + p.X,
		cellY:    page.Margin + p.Y,
		cellW:    p.Width,
		cellH:    p.Height,
		contentW: contentW,
		contentH: contentH,
		offsetX:  offsetX,
		offsetY:  offsetY,
	}, nil
}
