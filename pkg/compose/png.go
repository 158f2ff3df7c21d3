package compose

import (
	"bytes"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/figquilt/figquilt/pkg/errors"
	"github.com/figquilt/figquilt/pkg/layout"
	"github.com/figquilt/figquilt/pkg/units"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	dpi int
}

// WithDPI overrides the page DPI for this render.
func WithDPI(dpi int) PNGOption {
	return func(r *pngRenderer) { r.dpi = dpi }
}

// RenderPNG draws the resolved page natively onto a raster canvas at the
// page DPI. SVG and PDF sources are rasterized by the external converters;
// raster sources are resampled with Lanczos filtering.
func RenderPNG(page layout.Page, panels []layout.Panel, m layout.Measurer, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{dpi: page.DPI}
	for _, opt := range opts {
		opt(&r)
	}
	if r.dpi <= 0 {
		r.dpi = 300
	}
	scale := float64(r.dpi) / units.PointsPerInch

	dc := gg.NewContext(px(page.Width*scale), px(page.Height*scale))

	if page.Background != "" {
		c, err := ParseColor(page.Background)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse page background")
		}
		dc.SetColor(c)
		dc.Clear()
	}

	for i, p := range panels {
		if err := renderPNGPanel(dc, page, p, i, m, scale, r.dpi); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode PNG")
	}
	return buf.Bytes(), nil
}

func renderPNGPanel(dc *gg.Context, page layout.Page, p layout.Panel, index int, m layout.Measurer, scale float64, dpi int) error {
	pl, err := place(page, p, m)
	if err != nil {
		return err
	}

	img, err := loadSourceImage(p.Source, dpi)
	if err != nil {
		return err
	}

	cellX, cellY := pl.cellX*scale, pl.cellY*scale

	if p.Fit == layout.FitCover {
		// Fill crops the overflow, keeping the region the anchor selects.
		filled := imaging.Fill(img, px(pl.cellW*scale), px(pl.cellH*scale), anchorFor(p.Align), imaging.Lanczos)
		dc.DrawImage(filled, px(cellX), px(cellY))
	} else {
		resized := imaging.Resize(img, px(pl.contentW*scale), px(pl.contentH*scale), imaging.Lanczos)
		dc.DrawImage(resized, px(cellX+pl.offsetX*scale), px(cellY+pl.offsetY*scale))
	}

	if text := labelText(page, p, index); text != "" {
		style := labelStyle(page, p)
		face, err := loadFace(style.FontFamily, style.Bold, style.FontSizePt, dpi)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetRGB(0, 0, 0)

		x := cellX + (pl.offsetX+style.OffsetX)*scale
		top := cellY + (pl.offsetY+style.OffsetY)*scale
		// DrawString positions the baseline; shift down by the ascent so
		// (x, top) is the top-left of the text like the SVG sink.
		ascent := float64(face.Metrics().Ascent) / 64.0
		dc.DrawString(text, x, top+ascent)
	}
	return nil
}

// loadSourceImage decodes a source into a raster image at the given DPI.
func loadSourceImage(path string, dpi int) (image.Image, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".jpg", ".jpeg", ".gif":
		img, err := imaging.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "open %s", path)
		}
		return img, nil
	case ".svg":
		data, err := svgFileToPNG(path, float64(dpi)/units.PointsPerInch)
		if err != nil {
			return nil, err
		}
		return decodePNGBytes(data, path)
	case ".pdf":
		data, err := pdfFileToPNG(path, dpi)
		if err != nil {
			return nil, err
		}
		return decodePNGBytes(data, path)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported source type: %s", filepath.Ext(path))
}

func decodePNGBytes(data []byte, path string) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "decode rasterized %s", path)
	}
	return img, nil
}

// anchorFor maps a cell alignment to the imaging crop anchor for cover fit.
func anchorFor(a layout.Alignment) imaging.Anchor {
	switch a {
	case layout.AlignTop:
		return imaging.Top
	case layout.AlignBottom:
		return imaging.Bottom
	case layout.AlignLeft:
		return imaging.Left
	case layout.AlignRight:
		return imaging.Right
	case layout.AlignTopLeft:
		return imaging.TopLeft
	case layout.AlignTopRight:
		return imaging.TopRight
	case layout.AlignBottomLeft:
		return imaging.BottomLeft
	case layout.AlignBottomRight:
		return imaging.BottomRight
	}
	return imaging.Center
}

func px(v float64) int {
	return int(math.Round(v))
}
