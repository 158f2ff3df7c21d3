package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/figquilt/figquilt/pkg/config"
	"github.com/figquilt/figquilt/pkg/layout"
)

// newTreeCmd creates the tree command for visualizing layout structure.
// It draws the container/leaf tree of a layout document as a Graphviz
// diagram, which helps when debugging nesting and ratio mistakes.
func newTreeCmd() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "tree [layout.yaml]",
		Short: "Visualize the layout tree structure",
		Long: `Visualize the layout tree structure.

The tree command parses a layout document and draws its container/leaf tree
as a diagram. Containers appear as grey boxes labeled with their kind, leaves
as white boxes labeled with their panel id and source file.

Documents using an explicit panel list are drawn as a flat tree under a
single page node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.Context(), args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), png, dot")

	return cmd
}

// runTree parses the document and writes the tree diagram.
func runTree(ctx context.Context, input, output, format string) error {
	logger := loggerFromContext(ctx)

	fig, err := config.Parse(input)
	if err != nil {
		return err
	}

	dot := layoutDOT(fig)
	logger.Debugf("Generated DOT: %d bytes", len(dot))

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = renderDOT(ctx, dot, graphviz.SVG)
	case "png":
		data, err = renderDOT(ctx, dot, graphviz.PNG)
	default:
		return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'dot')", format)
	}
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := writeFile(path, data); err != nil {
		return err
	}

	printSuccess("Drew layout tree")
	printFile(path)
	return nil
}

// layoutDOT converts a parsed figure to Graphviz DOT format.
// Explicit panel lists become a flat tree under a synthetic page node.
func layoutDOT(fig *config.Figure) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if fig.Root != nil {
		writeTreeNode(&buf, fig.Root, "n")
	} else {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightgrey];\n", "n", "page")
		for i, p := range fig.Panels {
			id := fmt.Sprintf("n_%d", i)
			fmt.Fprintf(&buf, "  %q [label=%q];\n", id, leafLabel(p.ID, p.Source))
			fmt.Fprintf(&buf, "  %q -> %q;\n", "n", id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeTreeNode emits DOT for one node and, for containers, its subtree.
// Node identifiers encode the child path (n, n_0, n_0_1, ...).
func writeTreeNode(buf *bytes.Buffer, n layout.Node, id string) {
	switch n := n.(type) {
	case *layout.Container:
		fmt.Fprintf(buf, "  %q [label=%q, fillcolor=lightgrey];\n", id, containerLabel(n))
		for i, child := range n.Children {
			childID := fmt.Sprintf("%s_%d", id, i)
			writeTreeNode(buf, child, childID)
			fmt.Fprintf(buf, "  %q -> %q;\n", id, childID)
		}
	case *layout.Leaf:
		fmt.Fprintf(buf, "  %q [label=%q];\n", id, leafLabel(n.ID, n.Source))
	}
}

// containerLabel formats a container's kind plus its layout knobs.
func containerLabel(n *layout.Container) string {
	label := string(n.Kind)
	if len(n.Ratios) > 0 {
		parts := make([]string, len(n.Ratios))
		for i, r := range n.Ratios {
			parts[i] = fmt.Sprintf("%g", r)
		}
		label += "\nratios: " + strings.Join(parts, ":")
	}
	if n.Gap > 0 {
		label += fmt.Sprintf("\ngap: %g", n.Gap)
	}
	return label
}

// leafLabel formats a leaf's panel id plus its source file name.
func leafLabel(id, source string) string {
	return id + "\n" + filepath.Base(source)
}

// renderDOT renders a DOT graph to the given format using Graphviz.
func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
