package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/figquilt/figquilt/pkg/source"
)

// newMeasureCmd creates the measure command for inspecting source files.
// It prints the intrinsic dimensions the layout engine would use for each
// file, which helps when a panel comes out with a surprising aspect ratio.
func newMeasureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "measure [file...]",
		Short: "Print the intrinsic dimensions of source files",
		Long: `Print the intrinsic dimensions of source files.

Raster dimensions are reported in pixels, SVG and PDF dimensions in points.
Only the ratio of the two values affects layout resolution.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := source.NewFileMeasurer()

			var failed int
			for _, path := range args {
				w, h, err := m.Measure(path)
				if err != nil {
					printError("%s: %v", path, err)
					failed++
					continue
				}
				printKeyValue(path, fmt.Sprintf("%g × %g (aspect %.4g)", w, h, w/h))
			}

			if failed > 0 {
				return fmt.Errorf("failed to measure %d of %d files", failed, len(args))
			}
			return nil
		},
	}
}
