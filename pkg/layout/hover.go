package layout

import "sort"

// Threshold returns the main-axis coordinate the pointer must pass for the
// hover slot to advance beyond item i. Moving forward it sits at the item's far
// edge plus 0, half the spacing or the full spacing (End, Middle, Start);
// moving backward it sits the same distance before the item's near edge.
func (p *Pass) Threshold(i int) float64 {
	var off float64
	switch p.cfg.SwitchThreshold {
	case SwitchMiddle:
		off = p.cfg.Spacing / 2
	case SwitchStart:
		off = p.cfg.Spacing
	}
	pos := p.mainPos(i)
	if p.cfg.Direction == Backward {
		return pos - off
	}
	return pos + p.extent(i) + off
}

// crossed reports whether the pointer has travelled past item i.
// With several rows an item is passed once the pointer is below (beyond) its
// row band; above the band it is not, regardless of the main-axis position.
func (p *Pass) crossed(i int, ptr Vec2) bool {
	if len(p.rows) > 1 {
		r := p.rowOf[i]
		c := crossOf(ptr, p.cfg.Axis)
		start := p.bands[r]
		if r < len(p.rows)-1 && c >= start+p.thickness[r]+p.cfg.Spacing {
			return true
		}
		if r > 0 && c < start {
			return false
		}
	}
	m := mainOf(ptr, p.cfg.Axis)
	if p.cfg.Direction == Backward {
		return m < p.Threshold(i)
	}
	return m > p.Threshold(i)
}

// HoverIndex returns the slot a dragged item would take if dropped at ptr.
//
// Items are scanned in index order, skipping dragged (pass None when nothing
// is being dragged). The slot is the number of scanned items whose threshold
// the pointer has crossed, which is the splice insertion index once the
// dragged item is removed. When every threshold has been crossed the slot is
// the last index. An empty pass returns None.
//
// Crossing is monotonic in index, so the scan is a binary search over the
// precomputed targets.
func (p *Pass) HoverIndex(ptr Vec2, dragged int) int {
	n := len(p.sizes)
	if n == 0 {
		return None
	}

	scanned := n
	if dragged >= 0 && dragged < n {
		scanned--
	}
	index := func(j int) int {
		if dragged >= 0 && j >= dragged {
			return j + 1
		}
		return j
	}

	slot := sort.Search(scanned, func(j int) bool {
		return !p.crossed(index(j), ptr)
	})
	return min(slot, n-1)
}
