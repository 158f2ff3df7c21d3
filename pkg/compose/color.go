package compose

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/figquilt/figquilt/pkg/errors"
)

// ParseColor parses a background color: "#rgb", "#rrggbb", or an SVG 1.1
// color name such as "white" or "lightsteelblue".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidInput, "empty color")
	}

	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return color.RGBA{}, errors.New(errors.ErrCodeInvalidInput, "unknown color %q", s)
}

func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	var r, g, b uint64
	var err error
	switch len(hex) {
	case 3:
		r, g, b, err = parseHexChannels(hex, 1)
		r, g, b = r*17, g*17, b*17
	case 6:
		r, g, b, err = parseHexChannels(hex, 2)
	default:
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidInput, "invalid hex color %q", s)
	}
	if err != nil {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidInput, "invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, nil
}

func parseHexChannels(hex string, width int) (r, g, b uint64, err error) {
	if r, err = strconv.ParseUint(hex[0:width], 16, 8); err != nil {
		return
	}
	if g, err = strconv.ParseUint(hex[width:2*width], 16, 8); err != nil {
		return
	}
	b, err = strconv.ParseUint(hex[2*width:3*width], 16, 8)
	return
}
