// Package pkg holds the reflow libraries.
//
// # Overview
//
// Reflow arranges the children of a container along an axis, wraps them into
// rows, and keeps them animating toward their slots while one of them is
// dragged to a new position. The engine is host-driven: the host owns the
// frame clock, the animation primitive and the pointer, and calls into the
// containers once per tick.
//
// # Architecture
//
//	scene / script files ([config])
//	         ↓
//	    [scene] host (pointer, tweener, coordinator)
//	         ↓
//	    [reflow] containers ← [layout] passes
//	         ↓
//	    [snapshot] frames
//	         ↓
//	    [render] SVG/PDF/PNG, [render/tree] Graphviz
//
// [pipeline] chains parse, settle and render with [cache] in front of the
// settle and render stages.
//
// # Main Packages
//
// [layout] - Pure layout computation: rows, target positions, hover slots and
// the convergence check, memoized per [layout.Pass].
//
// [reflow] - The per-container controller: children, drag state, per-tick
// reorder and settle passes, warnings.
//
// [anim] - The interpolation primitive containers use to move items.
//
// [pointer] - The process-wide drag coordinator.
//
// [scene] - A reference host driving containers headless.
//
// [observability] - Hooks for drag, reorder, settle and HTTP events.
//
// [errors] - Error codes shared by the CLI and the preview service.
package pkg
