// Package layout computes where the items of an auto-arranging container
// belong.
//
// A [Pass] is built from a [Config], the container's size and the sizes of its
// items in index order. It memoizes row boundaries once and then answers every
// positional query of a layout pass:
//
//   - [Pass.Target] returns the top-left position an item converges toward
//   - [Pass.MaxItemCountForRow], [Pass.RowOf], [Pass.FirstInRow] and
//     [Pass.LastInRow] describe wrapping
//   - [Pass.HoverIndex] maps a pointer position to an insertion slot
//   - [Pass.IsSortDone] decides whether the arrangement has settled
//
// A Pass never mutates its inputs. Rebuild it whenever the order, the sizes,
// the container size or the configuration change.
//
// # Coordinates
//
// All coordinates are container-local with the origin at the top-left corner.
// The main axis is X for [Horizontal] containers and Y for [Vertical] ones; the
// other axis is the cross axis. Rows stack along the cross axis.
//
// # Example
//
//	cfg := layout.DefaultConfig()
//	cfg.Wrap = false
//	p := layout.NewPass(cfg, layout.Size{W: 300, H: 60}, sizes)
//	for i := range sizes {
//	    fmt.Println(i, p.Target(i))
//	}
package layout
