package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/figquilt/figquilt/pkg/errors"
	"github.com/figquilt/figquilt/pkg/layout"
	"github.com/figquilt/figquilt/pkg/units"
)

func invalidf(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidLayout, format, args...)
}

// validate turns a decoded document into a Figure, converting page units to
// points throughout.
func validate(doc *document, baseDir string) (*Figure, error) {
	if doc.Page == nil {
		return nil, invalidf("page: required")
	}
	if doc.Panels != nil && doc.Layout != nil {
		return nil, invalidf("cannot specify both 'panels' and 'layout'")
	}
	if doc.Panels == nil && doc.Layout == nil {
		return nil, invalidf("must specify either 'panels' or 'layout'")
	}

	page, unit, scale, err := validatePage(doc.Page)
	if err != nil {
		return nil, err
	}

	fig := &Figure{
		Page:       page,
		Units:      unit,
		UnitWidth:  doc.Page.Width,
		UnitHeight: doc.Page.Height,
		BaseDir:    baseDir,
	}
	ids := make(map[string]bool)

	if doc.Layout != nil {
		root, err := buildNode(doc.Layout, "layout", baseDir, scale, ids)
		if err != nil {
			return nil, err
		}
		fig.Root = root
		return fig, nil
	}

	if len(doc.Panels) == 0 {
		return nil, invalidf("panels: must not be empty")
	}
	for i := range doc.Panels {
		spec, err := buildPanel(&doc.Panels[i], fmt.Sprintf("panels[%d]", i), baseDir, scale, ids)
		if err != nil {
			return nil, err
		}
		fig.Panels = append(fig.Panels, spec)
	}
	return fig, nil
}

// validatePage builds the layout.Page and returns the page-unit-to-points
// scale factor applied to every other linear field in the document.
func validatePage(p *pageDoc) (layout.Page, units.Unit, float64, error) {
	unit := units.Unit(p.Units)
	if p.Units == "" {
		unit = units.Millimeters
	}
	if !units.Valid(unit) {
		return layout.Page{}, "", 0, errors.New(errors.ErrCodeInvalidUnit, "page.units: unknown unit %q (want mm, inches, or pt)", p.Units)
	}
	scale, err := units.ToPoints(1, unit)
	if err != nil {
		return layout.Page{}, "", 0, err
	}

	if p.Width <= 0 || p.Height <= 0 {
		return layout.Page{}, "", 0, invalidf("page: width and height must be positive")
	}
	if p.Margin < 0 {
		return layout.Page{}, "", 0, invalidf("page.margin: must not be negative")
	}

	dpi := p.DPI
	if dpi == 0 {
		dpi = 300
	}
	if dpi < 0 {
		return layout.Page{}, "", 0, invalidf("page.dpi: must be positive")
	}

	background := "white"
	if p.Background != nil {
		background = *p.Background
	}

	page := layout.Page{
		Width:      p.Width * scale,
		Height:     p.Height * scale,
		Margin:     p.Margin * scale,
		DPI:        dpi,
		Background: background,
		AutoScale:  p.AutoScale,
		Label:      mergeLabel(layout.DefaultLabelStyle(), p.Label, scale),
	}
	return page, unit, scale, nil
}

func buildPanel(p *panelDoc, path, baseDir string, scale float64, ids map[string]bool) (layout.PanelSpec, error) {
	if err := errors.ValidatePanelID(p.ID); err != nil {
		return layout.PanelSpec{}, invalidf("%s.id: %v", path, errors.UserMessage(err))
	}
	if ids[p.ID] {
		return layout.PanelSpec{}, invalidf("%s.id: duplicate panel id %q", path, p.ID)
	}
	ids[p.ID] = true

	if p.Width <= 0 {
		return layout.PanelSpec{}, invalidf("%s.width: must be positive", path)
	}
	if p.Height != nil && *p.Height <= 0 {
		return layout.PanelSpec{}, invalidf("%s.height: must be positive when given", path)
	}

	fit, err := parseFit(p.Fit, path)
	if err != nil {
		return layout.PanelSpec{}, err
	}
	align, err := parseAlign(p.Align, path)
	if err != nil {
		return layout.PanelSpec{}, err
	}

	file, err := resolveAsset(p.File, p.ID, path, baseDir)
	if err != nil {
		return layout.PanelSpec{}, err
	}

	spec := layout.PanelSpec{
		ID:     p.ID,
		Source: file,
		X:      p.X * scale,
		Y:      p.Y * scale,
		Width:  p.Width * scale,
		Fit:    fit,
		Align:  align,
	}
	if p.Height != nil {
		h := *p.Height * scale
		spec.Height = &h
	}
	if p.Label != nil {
		spec.Label = *p.Label
	}
	if p.LabelStyle != nil {
		ls := mergeLabel(layout.DefaultLabelStyle(), p.LabelStyle, scale)
		spec.LabelStyle = &ls
	}
	return spec, nil
}

// buildNode decides the shape of each document node and produces the
// corresponding closed-tree value.
func buildNode(n *nodeDoc, path, baseDir string, scale float64, ids map[string]bool) (layout.Node, error) {
	isContainer := n.Type != ""
	isLeaf := n.ID != "" || n.File != ""

	switch {
	case isContainer && isLeaf:
		return nil, invalidf("%s: node cannot be both container and leaf", path)
	case isContainer:
		return buildContainer(n, path, baseDir, scale, ids)
	case isLeaf:
		return buildLeaf(n, path, baseDir, scale, ids)
	}
	return nil, invalidf("%s: node must be either a container (type) or a leaf (id, file)", path)
}

func buildContainer(n *nodeDoc, path, baseDir string, scale float64, ids map[string]bool) (layout.Node, error) {
	kind := layout.ContainerKind(n.Type)
	switch kind {
	case layout.KindRow, layout.KindCol, layout.KindAuto:
	default:
		return nil, invalidf("%s.type: unknown container type %q (want row, col, or auto)", path, n.Type)
	}

	if len(n.Children) == 0 {
		return nil, invalidf("%s: container must have children", path)
	}
	if n.Gap < 0 {
		return nil, invalidf("%s.gap: must not be negative", path)
	}
	if n.Margin < 0 {
		return nil, invalidf("%s.margin: must not be negative", path)
	}

	c := &layout.Container{
		Kind:   kind,
		Gap:    n.Gap * scale,
		Margin: n.Margin * scale,
	}

	if kind == layout.KindAuto {
		if n.Ratios != nil {
			return nil, invalidf("%s.ratios: not applicable to auto containers", path)
		}
		if n.Uniformity < 0 {
			return nil, invalidf("%s.uniformity: must not be negative", path)
		}
		if n.MainScale < 0 {
			return nil, invalidf("%s.main_scale: must not be negative", path)
		}
		flow, err := parseFlow(n.Flow, path)
		if err != nil {
			return nil, err
		}
		c.Uniformity = n.Uniformity
		c.Flow = flow
		c.MainScale = n.MainScale
	} else {
		if n.Flow != "" {
			return nil, invalidf("%s.flow: only applicable to auto containers", path)
		}
		if n.Uniformity != 0 || n.MainScale != 0 {
			return nil, invalidf("%s: uniformity and main_scale are only applicable to auto containers", path)
		}
		if n.Ratios != nil {
			if len(n.Ratios) != len(n.Children) {
				return nil, invalidf("%s.ratios: length (%d) must match children length (%d)", path, len(n.Ratios), len(n.Children))
			}
			for i, r := range n.Ratios {
				if r <= 0 {
					return nil, invalidf("%s.ratios[%d]: must be positive", path, i)
				}
			}
			c.Ratios = append([]float64(nil), n.Ratios...)
		}
	}

	for i := range n.Children {
		child, err := buildNode(&n.Children[i], fmt.Sprintf("%s.children[%d]", path, i), baseDir, scale, ids)
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, child)
	}
	return c, nil
}

func buildLeaf(n *nodeDoc, path, baseDir string, scale float64, ids map[string]bool) (layout.Node, error) {
	if n.ID == "" {
		return nil, invalidf("%s: leaf node must have id", path)
	}
	if n.File == "" {
		return nil, invalidf("%s: leaf node must have file", path)
	}
	if err := errors.ValidatePanelID(n.ID); err != nil {
		return nil, invalidf("%s.id: %v", path, errors.UserMessage(err))
	}
	if ids[n.ID] {
		return nil, invalidf("%s.id: duplicate panel id %q", path, n.ID)
	}
	ids[n.ID] = true

	if n.Weight < 0 {
		return nil, invalidf("%s.weight: must not be negative", path)
	}

	fit, err := parseFit(n.Fit, path)
	if err != nil {
		return nil, err
	}
	align, err := parseAlign(n.Align, path)
	if err != nil {
		return nil, err
	}

	file, err := resolveAsset(n.File, n.ID, path, baseDir)
	if err != nil {
		return nil, err
	}

	leaf := &layout.Leaf{
		ID:     n.ID,
		Source: file,
		Fit:    fit,
		Align:  align,
		Weight: n.Weight,
		Main:   n.Main,
	}
	if n.Label != nil {
		leaf.Label = *n.Label
	}
	if n.LabelStyle != nil {
		ls := mergeLabel(layout.DefaultLabelStyle(), n.LabelStyle, scale)
		leaf.LabelStyle = &ls
	}
	return leaf, nil
}

func parseFit(s, path string) (layout.FitMode, error) {
	switch layout.FitMode(s) {
	case "":
		return layout.FitContain, nil
	case layout.FitContain, layout.FitCover:
		return layout.FitMode(s), nil
	}
	return "", invalidf("%s.fit: unknown fit mode %q (want contain or cover)", path, s)
}

func parseAlign(s, path string) (layout.Alignment, error) {
	switch layout.Alignment(s) {
	case "":
		return layout.AlignCenter, nil
	case layout.AlignCenter, layout.AlignTop, layout.AlignBottom,
		layout.AlignLeft, layout.AlignRight,
		layout.AlignTopLeft, layout.AlignTopRight,
		layout.AlignBottomLeft, layout.AlignBottomRight:
		return layout.Alignment(s), nil
	}
	return "", invalidf("%s.align: unknown alignment %q", path, s)
}

func parseFlow(s, path string) (layout.FlowMode, error) {
	switch layout.FlowMode(s) {
	case "":
		return layout.FlowBest, nil
	case layout.FlowBest, layout.FlowOneColumn, layout.FlowTwoColumn:
		return layout.FlowMode(s), nil
	}
	return "", invalidf("%s.flow: unknown flow mode %q (want best, one-column, or two-column)", path, s)
}

// resolveAsset makes the asset path absolute relative to the layout
// document and verifies it exists.
func resolveAsset(file, id, path, baseDir string) (string, error) {
	if !filepath.IsAbs(file) {
		file = filepath.Join(baseDir, file)
	}
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeAssetMissing, "asset for panel %q not found: %s", id, file)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.file: stat %s", path, file)
	}
	return file, nil
}

// mergeLabel overlays the optional document fields on a base style. Offsets
// arrive in page units and leave in points; font size is already points.
func mergeLabel(base layout.LabelStyle, d *labelDoc, scale float64) layout.LabelStyle {
	out := base
	out.OffsetX *= scale
	out.OffsetY *= scale
	if d == nil {
		return out
	}
	if d.Enabled != nil {
		out.Enabled = *d.Enabled
	}
	if d.AutoSequence != nil {
		out.AutoSequence = *d.AutoSequence
	}
	if d.FontFamily != nil {
		out.FontFamily = *d.FontFamily
	}
	if d.FontSizePt != nil {
		out.FontSizePt = *d.FontSizePt
	}
	if d.OffsetX != nil {
		out.OffsetX = *d.OffsetX * scale
	}
	if d.OffsetY != nil {
		out.OffsetY = *d.OffsetY * scale
	}
	if d.Bold != nil {
		out.Bold = *d.Bold
	}
	if d.Uppercase != nil {
		out.Uppercase = *d.Uppercase
	}
	return out
}
