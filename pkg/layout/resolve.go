package layout

// rect is an axis-aligned rectangle in content-space points.
type rect struct {
	x, y, w, h float64
}

// Resolve walks the layout tree and returns the flat panel sequence in
// emission order. The tree is read-only; a failure anywhere aborts the
// whole resolution with a single *GeometryError.
func Resolve(page Page, root Node, m Measurer) ([]Panel, error) {
	contentW, contentH, err := page.ContentArea()
	if err != nil {
		return nil, err
	}

	r := &resolver{m: m}
	if err := r.node(root, rect{0, 0, contentW, contentH}, nil); err != nil {
		return nil, err
	}
	return r.panels, nil
}

// ResolvePanels resolves an explicit panel list: every height becomes
// concrete, and when page.AutoScale is set the whole arrangement is
// normalized to fit the content area.
func ResolvePanels(page Page, specs []PanelSpec, m Measurer) ([]Panel, error) {
	contentW, contentH, err := page.ContentArea()
	if err != nil {
		return nil, err
	}

	panels := make([]Panel, len(specs))
	for i, s := range specs {
		h, err := specHeight(s, m)
		if err != nil {
			return nil, err
		}
		panels[i] = Panel{
			ID:         s.ID,
			Source:     s.Source,
			X:          s.X,
			Y:          s.Y,
			Width:      s.Width,
			Height:     h,
			Fit:        s.Fit,
			Align:      s.Align,
			Label:      s.Label,
			LabelStyle: s.LabelStyle,
		}
	}

	if !page.AutoScale || len(panels) == 0 {
		return panels, nil
	}
	return autoScale(panels, contentW, contentH)
}

// specHeight returns the concrete height for a panel spec, consulting the
// measurer when the height was omitted.
func specHeight(s PanelSpec, m Measurer) (float64, error) {
	if s.Height != nil {
		return *s.Height, nil
	}
	srcW, srcH, err := m.Measure(s.Source)
	if err != nil {
		return 0, &GeometryError{Message: "panel '" + s.ID + "': " + err.Error()}
	}
	if srcW <= 0 || srcH <= 0 {
		return 0, geomErrf(nil, "panel '%s' has non-positive source size %gx%g", s.ID, srcW, srcH)
	}
	return s.Width * (srcH / srcW), nil
}

// autoScale maps the bounding box of the panels into the content area with
// a single uniform scale and translation. Panels already inside the
// content area are returned unchanged so enabling auto-scale is a no-op
// for layouts that fit.
func autoScale(panels []Panel, contentW, contentH float64) ([]Panel, error) {
	left, top := panels[0].X, panels[0].Y
	right, bottom := left, top
	for _, p := range panels {
		left = min(left, p.X)
		top = min(top, p.Y)
		right = max(right, p.X+p.Width)
		bottom = max(bottom, p.Y+p.Height)
	}

	if left >= 0 && top >= 0 && right <= contentW && bottom <= contentH {
		return panels, nil
	}

	bboxW := right - left
	bboxH := bottom - top
	if bboxW <= 0 || bboxH <= 0 {
		return nil, &GeometryError{Message: "panel bounding box must have positive width and height"}
	}
	scale := min(contentW/bboxW, contentH/bboxH)
	if scale <= 0 {
		return nil, &GeometryError{Message: "computed auto-scale factor must be positive"}
	}

	scaled := make([]Panel, len(panels))
	for i, p := range panels {
		p.X = (p.X - left) * scale
		p.Y = (p.Y - top) * scale
		p.Width *= scale
		p.Height *= scale
		scaled[i] = p
	}
	return scaled, nil
}

// resolver accumulates panels during recursive descent. The path slice is
// maintained purely for error attribution.
type resolver struct {
	m      Measurer
	panels []Panel
}

func (r *resolver) node(n Node, cell rect, path []int) error {
	switch n := n.(type) {
	case *Leaf:
		return r.leaf(n, cell, path)
	case *Container:
		if n.Kind == KindAuto {
			return r.flow(n, cell, path)
		}
		return r.split(n, cell, path)
	default:
		return geomErrf(path, "unknown node type %T", n)
	}
}

// leaf turns a leaf node into a panel at the cell it was given.
func (r *resolver) leaf(n *Leaf, cell rect, path []int) error {
	if cell.w <= 0 || cell.h <= 0 {
		return geomErrf(path, "leaf '%s' has non-positive size %gx%g", n.ID, cell.w, cell.h)
	}
	r.panels = append(r.panels, Panel{
		ID:         n.ID,
		Source:     n.Source,
		X:          cell.x,
		Y:          cell.y,
		Width:      cell.w,
		Height:     cell.h,
		Fit:        n.Fit,
		Align:      n.Align,
		Label:      n.Label,
		LabelStyle: n.LabelStyle,
	})
	return nil
}

// split partitions a row or col container's cell among its children using
// ratio weights and fixed gaps, then recurses in order along the cursor.
func (r *resolver) split(n *Container, cell rect, path []int) error {
	inner, err := innerRect(n, cell, path)
	if err != nil {
		return err
	}

	children := n.Children
	count := len(children)

	ratios := n.Ratios
	if len(ratios) == 0 {
		ratios = make([]float64, count)
		for i := range ratios {
			ratios[i] = 1.0
		}
	}
	if len(ratios) != count {
		return geomErrf(path, "ratios length (%d) must match children length (%d)", len(ratios), count)
	}
	var totalRatio float64
	for _, v := range ratios {
		totalRatio += v
	}
	if totalRatio <= 0 {
		return geomErrf(path, "container has non-positive ratio sum")
	}

	totalGap := n.Gap * float64(count-1)
	isRow := n.Kind == KindRow
	extent := inner.h
	if isRow {
		extent = inner.w
	}
	available := extent - totalGap
	if available <= 0 {
		axis := "height"
		if isRow {
			axis = "width"
		}
		return geomErrf(path, "container has non-positive available %s after gaps", axis)
	}

	cursor := inner.y
	if isRow {
		cursor = inner.x
	}
	for i, child := range children {
		size := (ratios[i] / totalRatio) * available

		sub := rect{inner.x, cursor, inner.w, size}
		if isRow {
			sub = rect{cursor, inner.y, size, inner.h}
		}
		if err := r.node(child, sub, append(path, i)); err != nil {
			return err
		}
		cursor += size + n.Gap
	}
	return nil
}

// innerRect applies a container's own margin symmetrically.
func innerRect(n *Container, cell rect, path []int) (rect, error) {
	inner := rect{
		x: cell.x + n.Margin,
		y: cell.y + n.Margin,
		w: cell.w - 2*n.Margin,
		h: cell.h - 2*n.Margin,
	}
	if inner.w <= 0 || inner.h <= 0 {
		return rect{}, geomErrf(path, "container has non-positive inner size after margin; reduce container margin")
	}
	return inner, nil
}
