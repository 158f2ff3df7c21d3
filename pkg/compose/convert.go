package compose

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/figquilt/figquilt/pkg/errors"
)

// toPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func toPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}

// svgFileToPNG rasterizes an SVG file at the given zoom using rsvg-convert.
func svgFileToPNG(path string, zoom float64) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"rasterizing SVG sources requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}

	cmd := exec.Command("rsvg-convert", "-f", "png", "-z", fmt.Sprintf("%.4f", zoom), path)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "rsvg-convert %s: %s", path, errBuf.String())
	}
	return out.Bytes(), nil
}

// pdfFileToPNG rasterizes the first page of a PDF using pdftocairo.
// Requires poppler: brew install poppler (macOS), apt install poppler-utils (Linux).
func pdfFileToPNG(path string, dpi int) ([]byte, error) {
	if _, err := exec.LookPath("pdftocairo"); err != nil {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"rasterizing PDF sources requires poppler. Install with:\n  macOS:  brew install poppler\n  Linux:  apt install poppler-utils")
	}

	cmd := exec.Command("pdftocairo", "-png", "-singlefile", "-f", "1", "-l", "1", "-r", fmt.Sprintf("%d", dpi), path, "-")
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "pdftocairo %s: %s", path, errBuf.String())
	}
	return out.Bytes(), nil
}
