package source

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/figquilt/figquilt/pkg/errors"
)

// cssPoints maps CSS length units to points (1 css px = 0.75 pt).
var cssPoints = map[string]float64{
	"":   1,
	"pt": 1,
	"px": 0.75,
	"pc": 12,
	"in": 72,
	"mm": 72.0 / 25.4,
	"cm": 72.0 / 2.54,
}

// measureSVG reads the root <svg> element and returns its size in points.
// Explicit width/height attributes win; otherwise the viewBox extent is used.
func measureSVG(path string) (float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeMeasureFailed, err, "open %s", path)
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return 0, 0, errors.New(errors.ErrCodeMeasureFailed, "%s has no <svg> root element", path)
		}
		if err != nil {
			return 0, 0, errors.Wrap(errors.ErrCodeMeasureFailed, err, "parse %s", path)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return 0, 0, errors.New(errors.ErrCodeMeasureFailed, "%s root element is <%s>, not <svg>", path, start.Name.Local)
		}
		return svgSize(path, start)
	}
}

func svgSize(path string, start xml.StartElement) (float64, float64, error) {
	var widthAttr, heightAttr, viewBox string
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "width":
			widthAttr = a.Value
		case "height":
			heightAttr = a.Value
		case "viewBox":
			viewBox = a.Value
		}
	}

	if widthAttr != "" && heightAttr != "" {
		w, werr := parseLength(widthAttr)
		h, herr := parseLength(heightAttr)
		// Percentage sizes fall through to the viewBox.
		if werr == nil && herr == nil && w > 0 && h > 0 {
			return w, h, nil
		}
	}

	if viewBox != "" {
		fields := strings.Fields(strings.ReplaceAll(viewBox, ",", " "))
		if len(fields) == 4 {
			w, werr := strconv.ParseFloat(fields[2], 64)
			h, herr := strconv.ParseFloat(fields[3], 64)
			if werr == nil && herr == nil && w > 0 && h > 0 {
				return w, h, nil
			}
		}
	}

	return 0, 0, errors.New(errors.ErrCodeMeasureFailed, "%s declares no usable width/height or viewBox", path)
}

// parseLength converts a CSS length like "120", "40mm" or "2in" to points.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("percentage length %q has no absolute size", s)
	}
	num := s
	unit := ""
	for u := range cssPoints {
		if u != "" && strings.HasSuffix(s, u) {
			num = strings.TrimSuffix(s, u)
			unit = u
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v * cssPoints[unit], nil
}
