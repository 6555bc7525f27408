package breakgraph

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/linebreak/pkg/knuth"
)

// Options controls the DOT output.
type Options struct {
	// Detailed adds the ratio and demerits to node labels.
	Detailed bool

	// SelectedOnly drops nodes that are not on the selected path.
	SelectedOnly bool
}

const selectedColor = "#d62728"

// ToDOT returns a Graphviz DOT digraph of g. Nodes on the same line share a
// rank; edges point from a break to the break that ends the next line and are
// labelled with the line demerits. The selected path is drawn in red and
// deactivated nodes are dashed.
func ToDOT(g *Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph BreakGraph {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"filled,rounded\", fillcolor=white];\n")
	buf.WriteString("  edge [fontname=\"SF Mono, Menlo, monospace\", fontsize=10];\n\n")

	ranks := make(map[int][]string)
	for _, n := range g.Nodes {
		if opts.SelectedOnly && !n.Selected {
			continue
		}
		id := nodeID(n.ID)
		ranks[n.Line] = append(ranks[n.Line], id)

		var attrs []string
		attrs = append(attrs, fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)))
		if n.Selected {
			attrs = append(attrs, fmt.Sprintf("color=%q", selectedColor), "penwidth=2")
		}
		if n.Deactivated && !n.Selected {
			attrs = append(attrs, "style=\"filled,rounded,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(attrs, ", "))
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		if n.Prev == knuth.NoNode {
			continue
		}
		prev, ok := g.Node(n.Prev)
		if !ok || (opts.SelectedOnly && !(n.Selected && prev.Selected)) {
			continue
		}
		attrs := []string{fmt.Sprintf("label=\"%.0f\"", n.LineDemerits)}
		if n.Selected && prev.Selected {
			attrs = append(attrs, fmt.Sprintf("color=%q", selectedColor), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", nodeID(prev.ID), nodeID(n.ID), strings.Join(attrs, ", "))
	}

	lines := make([]int, 0, len(ranks))
	for l := range ranks {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	for _, l := range lines {
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ranks[l], "; "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id knuth.NodeID) string {
	return fmt.Sprintf("n%d", id)
}

func fmtLabel(n Node, detailed bool) string {
	if n.Line == 0 {
		return "start"
	}
	label := fmt.Sprintf("@%d line %d", n.Position, n.Line)
	if detailed {
		label += fmt.Sprintf("\nr=%.3f %s\ndemerits %.1f", n.Ratio, n.Fitness, n.TotalDemerits)
	}
	return label
}

// Render renders DOT source with Graphviz in the given format ("svg" or
// "png").
func Render(ctx context.Context, dot string, format string) ([]byte, error) {
	var f graphviz.Format
	switch format {
	case "svg":
		f = graphviz.SVG
	case "png":
		f = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

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
	if err := gv.Render(ctx, g, f, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSVG renders g as an SVG document.
func RenderSVG(ctx context.Context, g *Graph, opts Options) ([]byte, error) {
	return Render(ctx, ToDOT(g, opts), "svg")
}
