package compose

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/figquilt/figquilt/pkg/errors"
	"github.com/figquilt/figquilt/pkg/layout"
	"github.com/figquilt/figquilt/pkg/units"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	docW, docH float64
	docUnit    units.Unit
}

// WithDocumentSize sets the outer width/height attributes in the document's
// own units (e.g. 180mm x 120mm). The viewBox stays in points either way,
// so coordinates inside the file are unaffected.
func WithDocumentSize(w, h float64, unit units.Unit) SVGOption {
	return func(r *svgRenderer) { r.docW, r.docH, r.docUnit = w, h, unit }
}

// RenderSVG renders the resolved page as an SVG document with every source
// embedded as a data URI, so the output is a single self-contained file.
// PDF sources are rasterized at the page DPI first.
func RenderSVG(page layout.Page, panels []layout.Panel, m layout.Measurer, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{docW: page.Width, docH: page.Height, docUnit: units.Points}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%s%s" height="%s%s" viewBox="0 0 %s %s" version="1.1">`+"\n",
		ftoa(r.docW), units.SVGUnit(r.docUnit), ftoa(r.docH), units.SVGUnit(r.docUnit),
		ftoa(page.Width), ftoa(page.Height))

	if page.Background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", xmlEscape(page.Background))
	}

	for i, p := range panels {
		if err := renderSVGPanel(&buf, page, p, i, m); err != nil {
			return nil, err
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderSVGPanel(buf *bytes.Buffer, page layout.Page, p layout.Panel, index int, m layout.Measurer) error {
	pl, err := place(page, p, m)
	if err != nil {
		return err
	}

	uri, err := dataURI(p.Source, page.DPI)
	if err != nil {
		return err
	}

	fmt.Fprintf(buf, `  <g transform="translate(%s, %s)">`+"\n", ftoa(pl.cellX), ftoa(pl.cellY))

	clipID := ""
	if p.Fit == layout.FitCover {
		clipID = fmt.Sprintf("clip-%s-%s", p.ID, uuid.NewString()[:8])
		fmt.Fprintf(buf, `    <defs><clipPath id="%s"><rect x="0" y="0" width="%s" height="%s"/></clipPath></defs>`+"\n",
			clipID, ftoa(pl.cellW), ftoa(pl.cellH))
	}

	fmt.Fprintf(buf, `    <image x="%s" y="%s" width="%s" height="%s" xlink:href="%s"`,
		ftoa(pl.offsetX), ftoa(pl.offsetY), ftoa(pl.contentW), ftoa(pl.contentH), uri)
	if clipID != "" {
		fmt.Fprintf(buf, ` clip-path="url(#%s)"`, clipID)
	}
	buf.WriteString("/>\n")

	if text := labelText(page, p, index); text != "" {
		style := labelStyle(page, p)
		x := pl.offsetX + style.OffsetX
		y := pl.offsetY + style.OffsetY
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="%spt"`,
			ftoa(x), ftoa(y), xmlEscape(style.FontFamily), ftoa(style.FontSizePt))
		if style.Bold {
			buf.WriteString(` font-weight="bold"`)
		}
		// Hanging baseline makes (x, y) the top-left of the text.
		fmt.Fprintf(buf, ` dominant-baseline="hanging">%s</text>`+"\n", xmlEscape(text))
	}

	buf.WriteString("  </g>\n")
	return nil
}

// dataURI reads a source file and encodes it as a data URI. PDF sources
// are rasterized to PNG first since SVG cannot embed them directly.
func dataURI(path string, dpi int) (string, error) {
	var data []byte
	var mime string
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		mime = "image/svg+xml"
		data, err = os.ReadFile(path)
	case ".png":
		mime = "image/png"
		data, err = os.ReadFile(path)
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
		data, err = os.ReadFile(path)
	case ".gif":
		mime = "image/gif"
		data, err = os.ReadFile(path)
	case ".pdf":
		mime = "image/png"
		data, err = pdfFileToPNG(path, dpi)
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported source type: %s", ext)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeAssetMissing, "source not found: %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeRenderFailed, err, "embed %s", path)
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

// ftoa formats a coordinate with the shortest exact representation.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
