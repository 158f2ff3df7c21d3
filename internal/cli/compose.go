package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/figquilt/figquilt/pkg/compose"
	"github.com/figquilt/figquilt/pkg/pipeline"
)

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	output  string // output file path (or base path for multiple formats)
	formats []compose.Format
	dpi     int  // raster resolution override
	noCache bool // disable the measurement cache
}

// newComposeCmd creates the compose command for rendering layout documents.
// It resolves the layout geometry and renders it to the requested formats.
//
// When invoked without arguments in a terminal, an interactive picker lists
// the layout documents in the current directory.
func newComposeCmd() *cobra.Command {
	var formatsStr string
	opts := composeOpts{}

	cmd := &cobra.Command{
		Use:   "compose [layout.yaml]",
		Short: "Compose a figure from a layout document",
		Long: `Compose a figure from a layout document.

The compose command parses a YAML or TOML layout document, resolves the
layout tree (or explicit panel list) into concrete panel geometry, and
renders the result to SVG, PNG, PDF, or JSON.

Source measurements are cached locally for faster subsequent runs.

PDF output requires librsvg (rsvg-convert). PDF sources additionally
require poppler (pdftocairo).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			} else {
				picked, err := pickLayoutFile(".")
				if err != nil {
					return err
				}
				input = picked
			}
			opts.formats = parseFormatList(formatsStr)
			return runCompose(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "raster resolution override for PNG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the measurement cache")

	return cmd
}

// parseFormatList parses the --format flag into a slice of output formats.
// If empty, defaults to [svg].
func parseFormatList(s string) []compose.Format {
	if s == "" {
		return []compose.Format{compose.FormatSVG}
	}
	parts := strings.Split(s, ",")
	formats := make([]compose.Format, 0, len(parts))
	for _, p := range parts {
		formats = append(formats, compose.Format(strings.TrimSpace(p)))
	}
	return formats
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
// This is used when generating multiple files (e.g., figure.svg, figure.png).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if compose.ValidFormat(compose.Format(strings.TrimPrefix(ext, "."))) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runCompose executes the full pipeline and writes each artifact to disk.
func runCompose(ctx context.Context, input string, opts *composeOpts) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Composing %s", input)

	if opts.dpi > 0 && !slices.Contains(opts.formats, compose.FormatPNG) {
		printWarning("--dpi only affects PNG output")
	}

	runner, c := newRunner(ctx, opts.noCache)
	defer c.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %s...", filepath.Base(input)))
	spinner.Start()

	start := time.Now()
	result, err := runner.Execute(ctx, pipeline.Options{
		LayoutPath: input,
		Formats:    opts.formats,
		DPI:        opts.dpi,
		Logger:     logger,
	})
	if err != nil {
		spinner.StopWithError("Composition failed")
		return err
	}
	spinner.Stop()

	printSuccess("Composed %d panels", result.Stats.PanelCount)

	if err := writeArtifacts(result.Artifacts, opts.formats, input, opts.output); err != nil {
		return err
	}

	printStats(result.Stats.PanelCount, len(opts.formats), time.Since(start))
	return nil
}

// writeArtifacts writes each rendered artifact next to the input document
// (or at the requested output path), one file per format.
func writeArtifacts(artifacts map[compose.Format][]byte, formats []compose.Format, input, output string) error {
	// Single format with an explicit output path: write exactly there.
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		if err := writeFile(output, artifacts[formats[0]]); err != nil {
			return err
		}
		printFile(output)
		return nil
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := writeFile(path, artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// writeFile writes data to path, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
