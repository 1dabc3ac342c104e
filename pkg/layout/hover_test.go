package layout

import "testing"

func hoverPass(dir Direction, threshold SwitchThreshold) *Pass {
	cfg := DefaultConfig()
	cfg.Wrap = false
	cfg.Spacing = 10
	cfg.Direction = dir
	cfg.SwitchThreshold = threshold
	// Targets (forward): 0, 60, 120, 180, 240.
	return NewPass(cfg, Size{W: 300, H: 50}, uniform(5, 50, 50))
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		name      string
		dir       Direction
		threshold SwitchThreshold
		item      int
		want      float64
	}{
		{"forward end", Forward, SwitchEnd, 1, 110},
		{"forward middle", Forward, SwitchMiddle, 1, 115},
		{"forward start", Forward, SwitchStart, 1, 120},
		// Backward targets mirror: item 1 sits at 180.
		{"backward end", Backward, SwitchEnd, 1, 180},
		{"backward middle", Backward, SwitchMiddle, 1, 175},
		{"backward start", Backward, SwitchStart, 1, 170},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := hoverPass(tt.dir, tt.threshold)
			if got := p.Threshold(tt.item); got != tt.want {
				t.Errorf("Threshold(%d) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}

func TestHoverIndexDragBackward(t *testing.T) {
	p := hoverPass(Forward, SwitchMiddle)

	// Dragging item 3 onto slot 1's threshold selects slot 1.
	if got := p.HoverIndex(Vec2{X: 115, Y: 10}, 3); got != 1 {
		t.Errorf("HoverIndex(x=115) = %d, want 1", got)
	}
	if got := p.HoverIndex(Vec2{X: 116, Y: 10}, 3); got != 2 {
		t.Errorf("HoverIndex(x=116) = %d, want 2", got)
	}
}

func TestHoverIndexStableInOwnSlot(t *testing.T) {
	p := hoverPass(Forward, SwitchMiddle)

	// The pointer sits over the dragged item's own slot (180..230).
	for _, x := range []float64{176, 200, 235} {
		if got := p.HoverIndex(Vec2{X: x, Y: 10}, 3); got != 3 {
			t.Errorf("HoverIndex(x=%v) = %d, want 3", x, got)
		}
	}
}

func TestHoverIndexEnds(t *testing.T) {
	p := hoverPass(Forward, SwitchMiddle)

	if got := p.HoverIndex(Vec2{X: -20, Y: 10}, 2); got != 0 {
		t.Errorf("HoverIndex(before first) = %d, want 0", got)
	}
	if got := p.HoverIndex(Vec2{X: 1000, Y: 10}, 2); got != 4 {
		t.Errorf("HoverIndex(past last) = %d, want 4", got)
	}
	if got := p.HoverIndex(Vec2{X: 1000, Y: 10}, None); got != 4 {
		t.Errorf("HoverIndex(past last, no drag) = %d, want 4", got)
	}
}

func TestHoverIndexBackward(t *testing.T) {
	p := hoverPass(Backward, SwitchMiddle)

	// Backward targets: 240, 180, 120, 60, 0. Travel is toward smaller x.
	if got := p.HoverIndex(Vec2{X: 290, Y: 10}, 4); got != 0 {
		t.Errorf("HoverIndex(x=290) = %d, want 0", got)
	}
	if got := p.HoverIndex(Vec2{X: 170, Y: 10}, 4); got != 2 {
		t.Errorf("HoverIndex(x=170) = %d, want 2", got)
	}
}

func TestHoverIndexWrapUsesRowBands(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wrap = true
	cfg.Spacing = 10
	// Two rows of two: row 0 band y 0..50, row 1 band y 50..
	p := NewPass(cfg, Size{W: 300, H: 200}, uniform(4, 100, 40))

	tests := []struct {
		name string
		ptr  Vec2
		want int
	}{
		{"row 0 left", Vec2{X: 10, Y: 10}, 0},
		{"row 0 right", Vec2{X: 200, Y: 10}, 1},
		{"row 1 left", Vec2{X: 10, Y: 60}, 2},
		{"row 1 right edge", Vec2{X: 280, Y: 60}, 3},
		{"below everything", Vec2{X: 10, Y: 190}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.HoverIndex(tt.ptr, 3); got != tt.want {
				t.Errorf("HoverIndex(%v) = %d, want %d", tt.ptr, got, tt.want)
			}
		})
	}
}
