package layout

// IsSortDone reports whether the arrangement has settled.
//
// current holds each item's present position in index order. dragged holds
// each item's dragged flag (nil means none are dragged) and tracked is the
// index of the drag the container already knows about, or None.
//
// The tracked item is skipped. Every other item must be within the configured
// tolerance of its target on both axes, and must not report itself dragged: an
// untracked dragged item means the container has not adopted that drag yet.
// The check stops at the first failure.
func (p *Pass) IsSortDone(current []Vec2, dragged []bool, tracked int) bool {
	if len(current) != len(p.sizes) {
		return false
	}
	for i, pos := range current {
		if i == tracked {
			continue
		}
		if i < len(dragged) && dragged[i] {
			return false
		}
		if !pos.Near(p.Target(i), p.cfg.Tolerance) {
			return false
		}
	}
	return true
}
