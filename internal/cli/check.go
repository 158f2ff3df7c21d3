package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/figquilt/figquilt/pkg/compose"
)

// newCheckCmd creates the check command for validating layout documents.
// It runs the parse and resolve stages without rendering anything, so a
// document can be verified quickly before a full composition.
func newCheckCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "check [layout.yaml]",
		Short: "Validate a layout document and print the resolved panels",
		Long: `Validate a layout document and print the resolved panels.

The check command parses the document and resolves the full panel geometry,
reporting every validation and geometry error, but renders nothing. All
positions are printed in points, relative to the page content area.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the measurement cache")

	return cmd
}

// runCheck parses and resolves the document, then prints a panel summary.
func runCheck(ctx context.Context, input string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, c := newRunner(ctx, noCache)
	defer c.Close()

	prog := newProgress(logger)
	fig, err := runner.Parse(input)
	if err != nil {
		printError("Invalid layout: %v", err)
		return err
	}

	panels, err := runner.Resolve(fig)
	if err != nil {
		printError("Geometry resolution failed: %v", err)
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d panels", len(panels)))

	printSuccess("Layout is valid")
	printKeyValue("Page", fmt.Sprintf("%.4g × %.4g %s (%.4g × %.4g pt)",
		fig.UnitWidth, fig.UnitHeight, fig.Units, fig.Page.Width, fig.Page.Height))
	if fig.Page.Margin > 0 {
		printKeyValue("Margin", fmt.Sprintf("%.4g pt", fig.Page.Margin))
	}
	printNewline()

	rows := make([][]string, 0, len(panels))
	for i, p := range panels {
		label := p.Label
		if label == "" {
			label = compose.IndexLabel(i)
		}
		rows = append(rows, []string{
			p.ID,
			fmt.Sprintf("%.1f", p.X),
			fmt.Sprintf("%.1f", p.Y),
			fmt.Sprintf("%.1f", p.Width),
			fmt.Sprintf("%.1f", p.Height),
			string(p.Fit),
			label,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("ID", "X", "Y", "WIDTH", "HEIGHT", "FIT", "LABEL").
		Rows(rows...)
	fmt.Println(t)

	printNewline()
	printNextStep("Render it", fmt.Sprintf("figquilt compose %s", input))
	return nil
}
