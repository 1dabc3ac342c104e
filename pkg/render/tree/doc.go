// Package tree renders a scene snapshot as a node-link hierarchy.
//
// The scene is the root, each container hangs below it, and each container's
// children follow in slot order. Fixed (non-organizable) children are drawn
// dashed, the dragged item is highlighted, and containers carrying a warning
// get an amber outline.
//
// [ToDOT] produces Graphviz DOT text; [RenderSVG] lays it out with the
// embedded Graphviz library. [RenderPDF] and [RenderPNG] chain through
// [render.ToPDF] and [render.ToPNG].
//
//	dot := tree.ToDOT(frame, tree.Options{Detailed: true})
//	svg, err := tree.RenderSVG(ctx, dot)
package tree
