// Package source measures the native dimensions of panel sources: raster
// images, SVG documents, and PDF pages. The layout engine only ever sees
// the resulting width/height pair; it never opens the files itself.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/figquilt/figquilt/pkg/errors"
)

// FileMeasurer measures sources on the local filesystem, dispatching on
// the file extension.
type FileMeasurer struct{}

// NewFileMeasurer creates a filesystem-backed measurer.
func NewFileMeasurer() *FileMeasurer {
	return &FileMeasurer{}
}

// Measure returns the native width and height of the source file. Raster
// dimensions are in pixels, SVG and PDF dimensions in points; the layout
// engine only consumes the aspect ratio, so the two never mix.
func (m *FileMeasurer) Measure(source string) (float64, float64, error) {
	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return 0, 0, errors.New(errors.ErrCodeAssetMissing, "source not found: %s", source)
		}
		return 0, 0, errors.Wrap(errors.ErrCodeMeasureFailed, err, "stat %s", source)
	}

	ext := strings.ToLower(filepath.Ext(source))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif":
		return measureRaster(source)
	case ".svg":
		return measureSVG(source)
	case ".pdf":
		return measurePDF(source)
	}
	return 0, 0, errors.New(errors.ErrCodeUnsupported, "unsupported source type: %s", ext)
}
