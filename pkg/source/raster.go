package source

import (
	"image"
	"os"

	// Registered decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/figquilt/figquilt/pkg/errors"
)

// measureRaster reads just the image header; the pixel data is never decoded.
func measureRaster(path string) (float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeMeasureFailed, err, "open %s", path)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeMeasureFailed, err, "decode image header of %s", path)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, errors.New(errors.ErrCodeMeasureFailed, "image %s has non-positive dimensions", path)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}
