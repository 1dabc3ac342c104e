package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

const frameCSS = `
    .container { fill: #f6f8fa; stroke: #8c959f; stroke-width: 1; }
    .container.warning { stroke: #d29922; stroke-dasharray: 6 3; }
    .row { fill: #ddf4ff; opacity: 0.5; }
    .target { fill: none; stroke: #8c959f; stroke-dasharray: 3 3; }
    .item { fill: #ffffff; stroke: #24292f; stroke-width: 1.5; }
    .item.dragged { fill: #fff8c5; stroke: #bf8700; stroke-width: 2.5; }
    .label { font-family: ui-monospace, monospace; fill: #24292f; text-anchor: middle; dominant-baseline: central; }
    .name { font-family: ui-monospace, monospace; fill: #57606a; font-size: 11px; }
    .pointer { stroke: #cf222e; stroke-width: 1.5; }`

// handdrawnCSS overrides frameCSS for the handdrawn style. The font is not
// embedded; viewers without it fall back along the list.
const handdrawnCSS = `
    .container, .item { stroke-linejoin: round; stroke-linecap: round; }
    .item { stroke-width: 2; }
    .label, .name { font-family: 'xkcd Script', 'Comic Sans MS', 'Bradley Hand', 'Segoe Script', sans-serif; }`

// Visual styles.
const (
	StyleSimple    = "simple"
	StyleHanddrawn = "handdrawn"
)

// ValidStyle reports whether s names a style.
func ValidStyle(s string) bool {
	return s == StyleSimple || s == StyleHanddrawn
}

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	targets bool
	rows    bool
	names   bool
	style   string
	pointer *layout.Vec2
}

// WithTargets outlines every item's target position.
func WithTargets() SVGOption { return func(r *svgRenderer) { r.targets = true } }

// WithRows shades each row band.
func WithRows() SVGOption { return func(r *svgRenderer) { r.rows = true } }

// WithNames labels each container with its name.
func WithNames() SVGOption { return func(r *svgRenderer) { r.names = true } }

// WithStyle selects a visual style. Unknown styles draw as simple.
func WithStyle(style string) SVGOption { return func(r *svgRenderer) { r.style = style } }

// WithPointer marks the pointer at p in scene coordinates.
func WithPointer(p layout.Vec2) SVGOption {
	return func(r *svgRenderer) { r.pointer = &p }
}

// RenderSVG draws f. Dragged items are drawn last so they stay on top.
func RenderSVG(f snapshot.Frame, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	css := frameCSS
	if r.style == StyleHanddrawn {
		css += handdrawnCSS
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", css)

	for _, c := range f.Containers {
		r.renderContainer(&buf, c)
	}
	if r.pointer != nil {
		p := *r.pointer
		fmt.Fprintf(&buf, `  <path class="pointer" d="M %.1f %.1f h 10 M %.1f %.1f v 10"/>`+"\n",
			p.X-5, p.Y, p.X, p.Y-5)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderContainer(buf *bytes.Buffer, c snapshot.Container) {
	class := "container"
	if c.Warning != "" {
		class += " warning"
	}
	fmt.Fprintf(buf, `  <g id="container-%s" transform="translate(%.1f %.1f)">`+"\n", escapeXML(c.Name), c.X, c.Y)
	fmt.Fprintf(buf, `    <rect class="%s" width="%.1f" height="%.1f"%s/>`+"\n", class, c.Width, c.Height, r.corner())
	if r.names {
		fmt.Fprintf(buf, `    <text class="name" x="2" y="-4">%s</text>`+"\n", escapeXML(c.Name))
	}
	if r.rows {
		renderRows(buf, c)
	}
	if r.targets {
		for _, it := range c.Items {
			fmt.Fprintf(buf, `    <rect class="target" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
				it.TargetX, it.TargetY, it.Width, it.Height)
		}
	}
	for _, it := range c.Items {
		if !it.Dragged {
			r.renderItem(buf, it)
		}
	}
	for _, it := range c.Items {
		if it.Dragged {
			r.renderItem(buf, it)
		}
	}
	buf.WriteString("  </g>\n")
}

// renderRows shades the band spanned by each row's targets.
func renderRows(buf *bytes.Buffer, c snapshot.Container) {
	horizontal := c.Config.Axis == layout.Horizontal
	type band struct{ lo, hi float64 }
	bands := make(map[int]*band)
	var order []int
	for _, it := range c.Items {
		lo, hi := it.TargetY, it.TargetY+it.Height
		if !horizontal {
			lo, hi = it.TargetX, it.TargetX+it.Width
		}
		b, ok := bands[it.Row]
		if !ok {
			bands[it.Row] = &band{lo, hi}
			order = append(order, it.Row)
			continue
		}
		b.lo, b.hi = min(b.lo, lo), max(b.hi, hi)
	}
	for _, row := range order {
		b := bands[row]
		if horizontal {
			fmt.Fprintf(buf, `    <rect class="row" x="0" y="%.1f" width="%.1f" height="%.1f"/>`+"\n", b.lo, c.Width, b.hi-b.lo)
		} else {
			fmt.Fprintf(buf, `    <rect class="row" x="%.1f" y="0" width="%.1f" height="%.1f"/>`+"\n", b.lo, b.hi-b.lo, c.Height)
		}
	}
}

// corner returns the container corner radius attribute for the style.
func (r *svgRenderer) corner() string {
	if r.style == StyleHanddrawn {
		return ` rx="8"`
	}
	return ""
}

func (r *svgRenderer) renderItem(buf *bytes.Buffer, it snapshot.Item) {
	rx := 3
	if r.style == StyleHanddrawn {
		rx = 8
	}
	class := "item"
	if it.Dragged {
		class += " dragged"
	}
	fmt.Fprintf(buf, `    <rect id="item-%s" class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%d"/>`+"\n",
		escapeXML(it.ID), class, it.X, it.Y, it.Width, it.Height, rx)

	size := fontSize(it.Width, it.Height, len(it.Label))
	label := truncate(it.Label, it.Width, size)
	fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.1f">%s</text>`+"\n",
		it.X+it.Width/2, it.Y+it.Height/2, size, escapeXML(label))
}
