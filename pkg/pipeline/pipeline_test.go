package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/figquilt/figquilt/pkg/compose"
	"github.com/figquilt/figquilt/pkg/errors"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// writeFixture writes a layout document and PNG assets into a temp dir.
func writeFixture(t *testing.T, doc string, assets ...string) string {
	t.Helper()
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 2))); err != nil {
		t.Fatal(err)
	}
	for _, a := range assets {
		if err := os.WriteFile(filepath.Join(dir, a), buf.Bytes(), 0644); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(dir, "figure.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	t.Run("layout path required", func(t *testing.T) {
		var o Options
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Error("expected error for missing layout path")
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		o := Options{LayoutPath: "figure.yaml"}
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		if len(o.Formats) != 1 || o.Formats[0] != compose.FormatSVG {
			t.Errorf("Formats = %v, want [svg]", o.Formats)
		}
		if o.Logger == nil {
			t.Error("Logger should default to a discard logger")
		}
	})

	t.Run("invalid format rejected", func(t *testing.T) {
		o := Options{LayoutPath: "figure.yaml", Formats: []compose.Format{"bmp"}}
		err := o.ValidateAndSetDefaults()
		if errors.GetCode(err) != errors.ErrCodeInvalidFormat {
			t.Errorf("code = %v, want INVALID_FORMAT", errors.GetCode(err))
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		o := Options{LayoutPath: "figure.yaml"}
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		before := len(o.Formats)
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		if len(o.Formats) != before {
			t.Error("second validation changed the options")
		}
	})
}

func TestExecuteGridLayout(t *testing.T) {
	doc := `
page:
  width: 200
  height: 100
  units: pt
layout:
  type: row
  children:
    - id: a
      file: a.png
    - id: b
      file: b.png
`
	path := writeFixture(t, doc, "a.png", "b.png")

	runner := NewRunner(nil, discardLogger())
	result, err := runner.Execute(context.Background(), Options{
		LayoutPath: path,
		Formats:    []compose.Format{compose.FormatSVG, compose.FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.Stats.PanelCount != 2 || len(result.Panels) != 2 {
		t.Errorf("panel count = %d, want 2", result.Stats.PanelCount)
	}
	if result.Panels[0].ID != "a" || result.Panels[1].ID != "b" {
		t.Errorf("panel order = %q, %q", result.Panels[0].ID, result.Panels[1].ID)
	}

	svg := string(result.Artifacts[compose.FormatSVG])
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "data:image/png;base64,") {
		t.Error("SVG artifact missing expected content")
	}
	if len(result.Artifacts[compose.FormatJSON]) == 0 {
		t.Error("JSON artifact is empty")
	}
}

func TestExecutePanelsLayout(t *testing.T) {
	doc := `
page:
  width: 100
  height: 100
  units: pt
panels:
  - id: main
    file: a.png
    x: 10
    y: 10
    width: 60
`
	path := writeFixture(t, doc, "a.png")

	runner := NewRunner(nil, discardLogger())
	result, err := runner.Execute(context.Background(), Options{
		LayoutPath: path,
		Formats:    []compose.Format{compose.FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(result.Panels) != 1 {
		t.Fatalf("got %d panels", len(result.Panels))
	}
	// Height inferred from the 4x2 source: 60 wide -> 30 tall.
	if result.Panels[0].Height != 30 {
		t.Errorf("inferred height = %g, want 30", result.Panels[0].Height)
	}
}

func TestExecuteGeometryErrorCode(t *testing.T) {
	doc := `
page:
  width: 100
  height: 100
  units: pt
  margin: 60
layout:
  id: a
  file: a.png
`
	path := writeFixture(t, doc, "a.png")

	runner := NewRunner(nil, discardLogger())
	_, err := runner.Execute(context.Background(), Options{LayoutPath: path})
	if errors.GetCode(err) != errors.ErrCodeGeometry {
		t.Errorf("code = %v, want GEOMETRY", errors.GetCode(err))
	}
}

func TestExecuteCancelled(t *testing.T) {
	doc := `
page:
  width: 100
  height: 100
  units: pt
layout:
  id: a
  file: a.png
`
	path := writeFixture(t, doc, "a.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(nil, discardLogger())
	if _, err := runner.Execute(ctx, Options{LayoutPath: path}); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestExecuteMissingLayoutFile(t *testing.T) {
	runner := NewRunner(nil, discardLogger())
	_, err := runner.Execute(context.Background(), Options{
		LayoutPath: filepath.Join(t.TempDir(), "missing.yaml"),
	})
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}
