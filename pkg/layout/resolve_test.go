package layout

import (
	"errors"
	"fmt"
	"testing"
)

// stubMeasurer reports fixed source dimensions keyed by source reference.
type stubMeasurer map[string][2]float64

func (m stubMeasurer) Measure(source string) (float64, float64, error) {
	dims, ok := m[source]
	if !ok {
		return 0, 0, fmt.Errorf("unknown source %q", source)
	}
	return dims[0], dims[1], nil
}

func leafNode(id string) *Leaf {
	return &Leaf{ID: id, Source: id + ".png", Fit: FitContain, Align: AlignCenter}
}

func squareMeasurer(leaves ...*Leaf) stubMeasurer {
	m := stubMeasurer{}
	for _, l := range leaves {
		m[l.Source] = [2]float64{100, 100}
	}
	return m
}

func TestResolveRowEqualSplit(t *testing.T) {
	// Page content 100x50, row with two equal leaves, no gap or margin.
	page := Page{Width: 100, Height: 50}
	a, b := leafNode("a"), leafNode("b")
	root := &Container{Kind: KindRow, Children: []Node{a, b}}

	panels, err := Resolve(page, root, squareMeasurer(a, b))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(panels) != 2 {
		t.Fatalf("got %d panels, want 2", len(panels))
	}

	want := []Panel{
		{ID: "a", X: 0, Y: 0, Width: 50, Height: 50},
		{ID: "b", X: 50, Y: 0, Width: 50, Height: 50},
	}
	for i, w := range want {
		p := panels[i]
		if !approx(p.X, w.X) || !approx(p.Y, w.Y) || !approx(p.Width, w.Width) || !approx(p.Height, w.Height) {
			t.Errorf("panel %s = (%g, %g, %g, %g), want (%g, %g, %g, %g)",
				p.ID, p.X, p.Y, p.Width, p.Height, w.X, w.Y, w.Width, w.Height)
		}
	}
}

func TestResolveRowRatios(t *testing.T) {
	// Ratios [3, 2] over inner width 100: widths 60 and 40, second at x=60.
	page := Page{Width: 100, Height: 50}
	a, b := leafNode("a"), leafNode("b")
	root := &Container{Kind: KindRow, Children: []Node{a, b}, Ratios: []float64{3, 2}}

	panels, err := Resolve(page, root, squareMeasurer(a, b))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !approx(panels[0].Width, 60) || !approx(panels[1].Width, 40) {
		t.Errorf("widths = %g, %g, want 60, 40", panels[0].Width, panels[1].Width)
	}
	if !approx(panels[1].X, 60) {
		t.Errorf("second panel x = %g, want 60", panels[1].X)
	}
}

func TestResolveRowGap(t *testing.T) {
	// Gap 10, two equal children, inner width 100: available 90, widths 45,
	// second child at x=55.
	page := Page{Width: 100, Height: 50}
	a, b := leafNode("a"), leafNode("b")
	root := &Container{Kind: KindRow, Children: []Node{a, b}, Gap: 10}

	panels, err := Resolve(page, root, squareMeasurer(a, b))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !approx(panels[0].Width, 45) || !approx(panels[1].Width, 45) {
		t.Errorf("widths = %g, %g, want 45, 45", panels[0].Width, panels[1].Width)
	}
	if !approx(panels[1].X, 55) {
		t.Errorf("second panel x = %g, want 55", panels[1].X)
	}
}

func TestResolveColSumInvariant(t *testing.T) {
	// Child heights plus gaps must equal the inner height exactly.
	page := Page{Width: 80, Height: 200, Margin: 5}
	a, b, c := leafNode("a"), leafNode("b"), leafNode("c")
	root := &Container{
		Kind:     KindCol,
		Children: []Node{a, b, c},
		Ratios:   []float64{1, 2, 3},
		Gap:      4,
		Margin:   3,
	}

	panels, err := Resolve(page, root, squareMeasurer(a, b, c))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	innerH := (200 - 2*5.0) - 2*3.0
	sum := 4.0 * float64(len(panels)-1)
	for _, p := range panels {
		sum += p.Height
	}
	if !approx(sum, innerH) {
		t.Errorf("heights+gaps = %g, want inner height %g", sum, innerH)
	}
}

func TestResolveNestedContainment(t *testing.T) {
	page := Page{Width: 120, Height: 90, Margin: 5}
	a, b, c, d := leafNode("a"), leafNode("b"), leafNode("c"), leafNode("d")
	root := &Container{
		Kind: KindRow,
		Gap:  4,
		Children: []Node{
			a,
			&Container{Kind: KindCol, Gap: 2, Margin: 1, Children: []Node{b, c, d}},
		},
	}

	panels, err := Resolve(page, root, squareMeasurer(a, b, c, d))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(panels) != 4 {
		t.Fatalf("got %d panels, want 4", len(panels))
	}

	contentW, contentH := 110.0, 80.0
	for _, p := range panels {
		if p.X < -tol || p.Y < -tol || p.X+p.Width > contentW+tol || p.Y+p.Height > contentH+tol {
			t.Errorf("panel %s (%g, %g, %g, %g) escapes content area %gx%g",
				p.ID, p.X, p.Y, p.Width, p.Height, contentW, contentH)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	a, b := leafNode("a"), leafNode("b")
	m := squareMeasurer(a, b)

	tests := []struct {
		name string
		page Page
		root Node
	}{
		{
			name: "margin eats page",
			page: Page{Width: 100, Height: 50, Margin: 30},
			root: &Container{Kind: KindRow, Children: []Node{a}},
		},
		{
			name: "container margin eats cell",
			page: Page{Width: 100, Height: 50},
			root: &Container{Kind: KindRow, Margin: 40, Children: []Node{a}},
		},
		{
			name: "gaps eat available width",
			page: Page{Width: 100, Height: 50},
			root: &Container{Kind: KindRow, Gap: 120, Children: []Node{a, b}},
		},
		{
			name: "ratio count mismatch",
			page: Page{Width: 100, Height: 50},
			root: &Container{Kind: KindRow, Ratios: []float64{1, 2, 3}, Children: []Node{a, b}},
		},
		{
			name: "non-positive ratio sum",
			page: Page{Width: 100, Height: 50},
			root: &Container{Kind: KindRow, Ratios: []float64{1, -1}, Children: []Node{a, b}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.page, tt.root, m)
			if err == nil {
				t.Fatal("Resolve should fail")
			}
			var gerr *GeometryError
			if !errors.As(err, &gerr) {
				t.Errorf("error %T is not a *GeometryError", err)
			}
		})
	}
}

func TestGeometryErrorPath(t *testing.T) {
	// The failing node sits at children[1].children[0]; the error message
	// must carry that chain for diagnostics.
	page := Page{Width: 100, Height: 50}
	a, b := leafNode("a"), leafNode("b")
	root := &Container{
		Kind: KindRow,
		Children: []Node{
			a,
			&Container{Kind: KindCol, Margin: 40, Children: []Node{b}},
		},
	}

	_, err := Resolve(page, root, squareMeasurer(a, b))
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *GeometryError, got %v", err)
	}
	if len(gerr.Path) != 1 || gerr.Path[0] != 1 {
		t.Errorf("error path = %v, want [1]", gerr.Path)
	}
}

func TestResolvePanelsHeightInference(t *testing.T) {
	page := Page{Width: 100, Height: 100}
	m := stubMeasurer{"wide.png": {200, 100}}

	panels, err := ResolvePanels(page, []PanelSpec{
		{ID: "a", Source: "wide.png", X: 0, Y: 0, Width: 80},
	}, m)
	if err != nil {
		t.Fatalf("ResolvePanels error: %v", err)
	}
	if !approx(panels[0].Height, 40) {
		t.Errorf("inferred height = %g, want 40", panels[0].Height)
	}
}

func TestResolvePanelsAutoScale(t *testing.T) {
	// Panels at (0,0,80,50) and (90,60,30,40) on a 100x100 content area:
	// bounding box is 120x100, so scale = 100/120.
	h1, h2 := 50.0, 40.0
	page := Page{Width: 100, Height: 100, AutoScale: true}
	specs := []PanelSpec{
		{ID: "a", Source: "a.png", X: 0, Y: 0, Width: 80, Height: &h1},
		{ID: "b", Source: "b.png", X: 90, Y: 60, Width: 30, Height: &h2},
	}

	panels, err := ResolvePanels(page, specs, stubMeasurer{})
	if err != nil {
		t.Fatalf("ResolvePanels error: %v", err)
	}

	a := panels[0]
	if !approx(a.X, 0) || !approx(a.Y, 0) || !approx(a.Width, 66.666667) || !approx(a.Height, 41.666667) {
		t.Errorf("panel a = (%g, %g, %g, %g), want (0, 0, 66.667, 41.667)", a.X, a.Y, a.Width, a.Height)
	}

	contentW, contentH := 100.0, 100.0
	for _, p := range panels {
		if p.X < -tol || p.Y < -tol || p.X+p.Width > contentW+tol || p.Y+p.Height > contentH+tol {
			t.Errorf("panel %s escapes content area after auto-scale", p.ID)
		}
	}
}

func TestResolvePanelsAutoScaleNoop(t *testing.T) {
	// Panels already inside the content area come back bit-identical.
	h := 30.0
	page := Page{Width: 100, Height: 100, AutoScale: true}
	specs := []PanelSpec{
		{ID: "a", Source: "a.png", X: 10, Y: 10, Width: 40, Height: &h},
		{ID: "b", Source: "b.png", X: 55, Y: 50, Width: 40, Height: &h},
	}

	panels, err := ResolvePanels(page, specs, stubMeasurer{})
	if err != nil {
		t.Fatalf("ResolvePanels error: %v", err)
	}
	for i, p := range panels {
		s := specs[i]
		if p.X != s.X || p.Y != s.Y || p.Width != s.Width || p.Height != *s.Height {
			t.Errorf("panel %s geometry changed: (%g, %g, %g, %g)", p.ID, p.X, p.Y, p.Width, p.Height)
		}
	}
}

func TestResolvePanelsBadSource(t *testing.T) {
	page := Page{Width: 100, Height: 100}
	_, err := ResolvePanels(page, []PanelSpec{
		{ID: "a", Source: "missing.png", X: 0, Y: 0, Width: 50},
	}, stubMeasurer{})
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *GeometryError for unreadable source, got %v", err)
	}
}

func TestResolveDeterministic(t *testing.T) {
	page := Page{Width: 200, Height: 100, Margin: 4}
	a, b, c := leafNode("a"), leafNode("b"), leafNode("c")
	root := &Container{Kind: KindRow, Gap: 3, Children: []Node{a, b, c}}
	m := squareMeasurer(a, b, c)

	first, err := Resolve(page, root, m)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	for range 5 {
		again, err := Resolve(page, root, m)
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("resolution is not deterministic at panel %d", i)
			}
		}
	}
}
