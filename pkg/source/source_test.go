package source

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/figquilt/figquilt/pkg/cache"
	"github.com/figquilt/figquilt/pkg/errors"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

func TestMeasureRaster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.png")
	writeTestPNG(t, path, 640, 480)

	w, h, err := NewFileMeasurer().Measure(path)
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}
	if w != 640 || h != 480 {
		t.Errorf("Measure = %gx%g, want 640x480", w, h)
	}
}

func TestMeasureSVG(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantW   float64
		wantH   float64
		wantErr bool
	}{
		{
			name:    "explicit pt dimensions",
			content: `<svg xmlns="http://www.w3.org/2000/svg" width="120pt" height="80pt"></svg>`,
			wantW:   120, wantH: 80,
		},
		{
			name:    "unitless dimensions",
			content: `<svg width="300" height="150"/>`,
			wantW:   300, wantH: 150,
		},
		{
			name:    "millimeter dimensions",
			content: `<svg width="25.4mm" height="50.8mm"/>`,
			wantW:   72, wantH: 144,
		},
		{
			name:    "viewBox fallback",
			content: `<svg viewBox="0 0 400 200"></svg>`,
			wantW:   400, wantH: 200,
		},
		{
			name:    "percentage size falls back to viewBox",
			content: `<svg width="100%" height="100%" viewBox="0 0 640 480"/>`,
			wantW:   640, wantH: 480,
		},
		{
			name:    "no usable size",
			content: `<svg></svg>`,
			wantErr: true,
		},
		{
			name:    "not an svg document",
			content: `<html><body/></html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fig.svg")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			w, h, err := measureSVG(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %gx%g", w, h)
				}
				return
			}
			if err != nil {
				t.Fatalf("measureSVG error: %v", err)
			}
			if !approx(w, tt.wantW) || !approx(h, tt.wantH) {
				t.Errorf("measureSVG = %gx%g, want %gx%g", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestMeasurePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fig.pdf")
	content := "%PDF-1.4\n1 0 obj\n<< /Type /Page /MediaBox [0 0 612 792] >>\nendobj\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	w, h, err := measurePDF(path)
	if err != nil {
		t.Fatalf("measurePDF error: %v", err)
	}
	if w != 612 || h != 792 {
		t.Errorf("measurePDF = %gx%g, want 612x792", w, h)
	}

	// No MediaBox at all
	bad := filepath.Join(t.TempDir(), "bad.pdf")
	if err := os.WriteFile(bad, []byte("%PDF-1.4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := measurePDF(bad); err == nil {
		t.Error("expected error for PDF without MediaBox")
	}
}

func TestMeasureDispatch(t *testing.T) {
	m := NewFileMeasurer()

	// Missing file
	_, _, err := m.Measure(filepath.Join(t.TempDir(), "nope.png"))
	if errors.GetCode(err) != errors.ErrCodeAssetMissing {
		t.Errorf("missing file code = %v, want ASSET_MISSING", errors.GetCode(err))
	}

	// Unsupported extension
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err = m.Measure(path)
	if errors.GetCode(err) != errors.ErrCodeUnsupported {
		t.Errorf("unsupported ext code = %v, want UNSUPPORTED", errors.GetCode(err))
	}
}

// countingMeasurer counts how many times the inner oracle is consulted.
type countingMeasurer struct {
	calls int
	w, h  float64
}

func (c *countingMeasurer) Measure(string) (float64, float64, error) {
	c.calls++
	return c.w, c.h, nil
}

func TestCachedMeasurer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.png")
	writeTestPNG(t, path, 10, 10)

	fileCache, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	inner := &countingMeasurer{w: 800, h: 600}
	m := NewCachedMeasurer(inner, fileCache)

	for i := 0; i < 3; i++ {
		w, h, err := m.Measure(path)
		if err != nil {
			t.Fatalf("Measure error: %v", err)
		}
		if w != 800 || h != 600 {
			t.Errorf("Measure = %gx%g, want 800x600", w, h)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner measurer called %d times, want 1 (cache hits after first)", inner.calls)
	}

	// Rewriting the file changes size, which must invalidate the key.
	writeTestPNG(t, path, 20, 20)
	if _, _, err := m.Measure(path); err != nil {
		t.Fatalf("Measure after rewrite: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner measurer called %d times after rewrite, want 2", inner.calls)
	}
}

func TestCachedMeasurerNullCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.png")
	writeTestPNG(t, path, 10, 10)

	inner := &countingMeasurer{w: 100, h: 50}
	m := NewCachedMeasurer(inner, cache.NewNullCache())

	for i := 0; i < 2; i++ {
		if _, _, err := m.Measure(path); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("null cache should never serve hits, inner calls = %d", inner.calls)
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "72", want: 72},
		{in: "72pt", want: 72},
		{in: "96px", want: 72},
		{in: "1in", want: 72},
		{in: "25.4mm", want: 72},
		{in: "2.54cm", want: 72},
		{in: "6pc", want: 72},
		{in: "100%", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseLength(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLength(%q) = %g, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLength(%q) error: %v", tt.in, err)
			continue
		}
		if !approx(got, tt.want) {
			t.Errorf("parseLength(%q) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
