package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/reflow/pkg/render"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

// Options configures tree rendering.
type Options struct {
	// Detailed adds slot, row and target to item labels.
	// When false, only the label is shown.
	Detailed bool
}

// ToDOT converts a frame to Graphviz DOT format.
// Items are ranked left to right by slot index.
func ToDOT(f snapshot.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	root := "scene"
	name := f.Scene
	if name == "" {
		name = root
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse];\n", root, name)

	for _, c := range f.Containers {
		cid := "container:" + c.Name
		fmt.Fprintf(&buf, "  %q [%s];\n", cid, strings.Join(containerAttrs(c), ", "))
		fmt.Fprintf(&buf, "  %q -> %q;\n", root, cid)

		var chain []string
		for _, it := range c.Items {
			id := "item:" + it.ID
			fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(itemAttrs(it, opts.Detailed), ", "))
			fmt.Fprintf(&buf, "  %q -> %q;\n", cid, id)
			chain = append(chain, strconv.Quote(id))
		}
		for i, label := range c.Fixed {
			id := fmt.Sprintf("fixed:%s:%d", c.Name, i)
			fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", id, label)
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", cid, id)
		}
		if len(chain) > 1 {
			fmt.Fprintf(&buf, "  { rank=same; %s [style=invis]; }\n", strings.Join(chain, " -> "))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func containerAttrs(c snapshot.Container) []string {
	label := fmt.Sprintf("%s\n%s, %d rows", c.Name, c.Config.Axis, c.Rows)
	attrs := []string{fmt.Sprintf("label=%q", label), "fillcolor=\"#f6f8fa\""}
	if c.Warning != "" {
		attrs = append(attrs, "color=\"#d29922\"", "penwidth=2")
	}
	return attrs
}

func itemAttrs(it snapshot.Item, detailed bool) []string {
	label := it.Label
	if detailed {
		label = fmt.Sprintf("%s\nslot: %d\nrow: %d\ntarget: %.0f,%.0f", it.Label, it.Index, it.Row, it.TargetX, it.TargetY)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if it.Dragged {
		attrs = append(attrs, "fillcolor=\"#fff8c5\"", "color=\"#bf8700\"", "penwidth=2")
	}
	return attrs
}

// RenderSVG lays out a DOT graph and renders it to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg header with a plain
// viewBox so the output scales like the frame renderer's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
