package source

import (
	"os"
	"regexp"
	"strconv"

	"github.com/figquilt/figquilt/pkg/errors"
)

// mediaBoxRe matches the first /MediaBox entry, e.g. "/MediaBox [0 0 612 792]".
var mediaBoxRe = regexp.MustCompile(`/MediaBox\s*\[\s*(-?[\d.]+)\s+(-?[\d.]+)\s+(-?[\d.]+)\s+(-?[\d.]+)\s*\]`)

// measurePDF returns the first MediaBox extent in points. This is a plain
// byte scan, which covers uncompressed page dictionaries as written by the
// usual figure producers; object streams that compress the page tree are
// reported as unmeasurable rather than guessed at.
func measurePDF(path string) (float64, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeMeasureFailed, err, "read %s", path)
	}

	m := mediaBoxRe.FindSubmatch(data)
	if m == nil {
		return 0, 0, errors.New(errors.ErrCodeMeasureFailed, "%s has no readable /MediaBox", path)
	}

	var box [4]float64
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(string(m[i+1]), 64)
		if err != nil {
			return 0, 0, errors.New(errors.ErrCodeMeasureFailed, "%s has a malformed /MediaBox", path)
		}
		box[i] = v
	}

	w := box[2] - box[0]
	h := box[3] - box[1]
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New(errors.ErrCodeMeasureFailed, "%s MediaBox has non-positive extent", path)
	}
	return w, h, nil
}
