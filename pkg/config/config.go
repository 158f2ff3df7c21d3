// Package config parses and validates figquilt layout documents.
//
// Documents are YAML or TOML, selected by file extension. Validation turns
// the loose on-disk shape (where a node may carry any mix of fields) into
// the closed tree of the layout package, converts every linear quantity
// from page units to points, and resolves asset paths relative to the
// document.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/figquilt/figquilt/pkg/errors"
	"github.com/figquilt/figquilt/pkg/layout"
	"github.com/figquilt/figquilt/pkg/units"
)

// Figure is a validated layout document, ready for resolution. Exactly one
// of Root and Panels is set.
type Figure struct {
	Page   layout.Page
	Root   layout.Node
	Panels []layout.PanelSpec

	// Document-unit page size, kept so sinks can emit outer dimensions in
	// the units the document was written in (the page itself is in points).
	Units      units.Unit
	UnitWidth  float64
	UnitHeight float64

	// BaseDir is the directory of the layout document; asset paths have
	// already been resolved against it.
	BaseDir string
}

// document is the on-disk shape before validation.
type document struct {
	Page   *pageDoc   `yaml:"page" toml:"page"`
	Panels []panelDoc `yaml:"panels" toml:"panels"`
	Layout *nodeDoc   `yaml:"layout" toml:"layout"`
}

type pageDoc struct {
	Width      float64   `yaml:"width" toml:"width"`
	Height     float64   `yaml:"height" toml:"height"`
	Units      string    `yaml:"units" toml:"units"`
	DPI        int       `yaml:"dpi" toml:"dpi"`
	Background *string   `yaml:"background" toml:"background"`
	Margin     float64   `yaml:"margin" toml:"margin"`
	AutoScale  bool      `yaml:"auto_scale" toml:"auto_scale"`
	Label      *labelDoc `yaml:"label" toml:"label"`
}

type labelDoc struct {
	Enabled      *bool    `yaml:"enabled" toml:"enabled"`
	AutoSequence *bool    `yaml:"auto_sequence" toml:"auto_sequence"`
	FontFamily   *string  `yaml:"font_family" toml:"font_family"`
	FontSizePt   *float64 `yaml:"font_size_pt" toml:"font_size_pt"`
	OffsetX      *float64 `yaml:"offset_x" toml:"offset_x"`
	OffsetY      *float64 `yaml:"offset_y" toml:"offset_y"`
	Bold         *bool    `yaml:"bold" toml:"bold"`
	Uppercase    *bool    `yaml:"uppercase" toml:"uppercase"`
}

type panelDoc struct {
	ID         string    `yaml:"id" toml:"id"`
	File       string    `yaml:"file" toml:"file"`
	X          float64   `yaml:"x" toml:"x"`
	Y          float64   `yaml:"y" toml:"y"`
	Width      float64   `yaml:"width" toml:"width"`
	Height     *float64  `yaml:"height" toml:"height"`
	Fit        string    `yaml:"fit" toml:"fit"`
	Align      string    `yaml:"align" toml:"align"`
	Label      *string   `yaml:"label" toml:"label"`
	LabelStyle *labelDoc `yaml:"label_style" toml:"label_style"`
}

// nodeDoc carries both container and leaf fields; validation decides which
// shape each node is.
type nodeDoc struct {
	Type       string    `yaml:"type" toml:"type"`
	Children   []nodeDoc `yaml:"children" toml:"children"`
	Ratios     []float64 `yaml:"ratios" toml:"ratios"`
	Gap        float64   `yaml:"gap" toml:"gap"`
	Margin     float64   `yaml:"margin" toml:"margin"`
	Uniformity float64   `yaml:"uniformity" toml:"uniformity"`
	Flow       string    `yaml:"flow" toml:"flow"`
	MainScale  float64   `yaml:"main_scale" toml:"main_scale"`

	ID         string    `yaml:"id" toml:"id"`
	File       string    `yaml:"file" toml:"file"`
	Fit        string    `yaml:"fit" toml:"fit"`
	Align      string    `yaml:"align" toml:"align"`
	Label      *string   `yaml:"label" toml:"label"`
	LabelStyle *labelDoc `yaml:"label_style" toml:"label_style"`
	Weight     float64   `yaml:"weight" toml:"weight"`
	Main       bool      `yaml:"main" toml:"main"`
}

// Parse reads, decodes, and validates a layout document.
func Parse(path string) (*Figure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "layout file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read layout file %s", path)
	}

	var doc document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse YAML layout")
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse TOML layout")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported layout format %q (want .yaml, .yml, or .toml)", ext)
	}

	return validate(&doc, filepath.Dir(path))
}
