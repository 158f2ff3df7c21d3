// Package units converts page-unit measurements to points, the single
// internal linear unit used for all layout arithmetic.
package units

import "fmt"

// Unit is a page measurement unit.
type Unit string

const (
	Millimeters Unit = "mm"
	Inches      Unit = "inches"
	Points      Unit = "pt"
)

// PointsPerInch is the PostScript point density (1 inch = 72 pt).
const PointsPerInch = 72.0

// MillimetersPerInch relates metric page sizes to points (1 inch = 25.4 mm).
const MillimetersPerInch = 25.4

// Valid reports whether u is a recognized unit.
func Valid(u Unit) bool {
	switch u {
	case Millimeters, Inches, Points:
		return true
	}
	return false
}

// ToPoints converts a value from the given unit to points.
// Unknown units are a configuration error.
func ToPoints(value float64, u Unit) (float64, error) {
	switch u {
	case Millimeters:
		return value * PointsPerInch / MillimetersPerInch, nil
	case Inches:
		return value * PointsPerInch, nil
	case Points, "":
		return value, nil
	}
	return 0, fmt.Errorf("unknown unit: %q", u)
}

// SVGUnit returns the CSS unit suffix used for SVG width/height attributes.
func SVGUnit(u Unit) string {
	if u == Inches {
		return "in"
	}
	if u == "" {
		return string(Points)
	}
	return string(u)
}
