// Package render draws scene snapshots.
//
// # Overview
//
// [RenderSVG] draws one [snapshot.Frame]: container outlines, items at their
// current positions, and optionally row bands, target ghosts and the pointer.
// The [tree] subpackage draws the scene as a node-link hierarchy using
// Graphviz.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := render.RenderSVG(frame, render.WithTargets(), render.WithRows())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [tree]: github.com/matzehuels/reflow/pkg/render/tree
package render
