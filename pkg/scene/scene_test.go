package scene

import (
	"testing"
	"time"

	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/reflow"
)

const frame = 16 * time.Millisecond

// newRowScene places a 300x50 row container at (10, 20) holding five 50x50
// items a..e.
func newRowScene(t *testing.T) (*Scene, *reflow.Container, []*reflow.Item) {
	t.Helper()
	s := New()
	cfg := layout.DefaultConfig()
	cfg.Wrap = false
	cfg.Spacing = 10
	c := s.NewContainer("row", layout.Rect{X: 10, Y: 20, W: 300, H: 50}, cfg)
	var items []*reflow.Item
	for _, l := range []string{"a", "b", "c", "d", "e"} {
		it := reflow.NewItem(l, layout.Size{W: 50, H: 50})
		c.AddChild(it)
		items = append(items, it)
	}
	if _, ok := s.RunUntilSettled(frame, 200); !ok {
		t.Fatal("scene did not settle")
	}
	return s, c, items
}

func order(c *reflow.Container) string {
	var s string
	for _, it := range c.Items() {
		s += it.Label
	}
	return s
}

func TestSceneSettles(t *testing.T) {
	s, c, _ := newRowScene(t)
	if !s.Settled() || s.Frame() == 0 {
		t.Fatalf("Settled() = %v after %d frames", s.Settled(), s.Frame())
	}
	targets := c.Targets()
	for i, it := range c.Items() {
		if it.Pos() != targets[i] {
			t.Errorf("item %s at %v, want %v", it.Label, it.Pos(), targets[i])
		}
	}
	if !c.Connected() {
		t.Error("container should connect once the scene ticks")
	}
}

func TestSceneDragAndDrop(t *testing.T) {
	s, c, items := newRowScene(t)

	// Grab item d (local x 180..230) 5px inside its corner.
	s.PointerDown(layout.Vec2{X: 195, Y: 25})
	if s.Dragging() != items[3] || c.Dragged() != items[3] {
		t.Fatal("pressing over d should start dragging it")
	}

	s.PointerMove(layout.Vec2{X: 125, Y: 25})
	if got := items[3].Pos(); got != (layout.Vec2{X: 110, Y: 0}) {
		t.Errorf("dragged item follows pointer to %v, want {110 0}", got)
	}
	if got := c.HoverIndex(); got != 1 {
		t.Errorf("HoverIndex() = %d, want 1", got)
	}

	s.Tick(frame)
	if got := order(c); got != "adbce" {
		t.Errorf("order = %s, want adbce", got)
	}

	s.PointerUp(layout.Vec2{X: 125, Y: 25})
	if s.Dragging() != nil || c.Dragged() != nil {
		t.Error("release should end the drag")
	}
	if _, ok := s.RunUntilSettled(frame, 200); !ok {
		t.Fatal("scene did not settle after drop")
	}
	if got := order(c); got != "adbce" {
		t.Errorf("order after drop = %s, want adbce", got)
	}
	if got := items[3].Pos(); got != (layout.Vec2{X: 60, Y: 0}) {
		t.Errorf("dropped item at %v, want {60 0}", got)
	}
}

func TestScenePointerEnterExit(t *testing.T) {
	s, c, items := newRowScene(t)

	s.PointerDown(layout.Vec2{X: 15, Y: 25})
	if s.Dragging() != items[0] {
		t.Fatal("pressing over a should start dragging it")
	}
	s.PointerMove(layout.Vec2{X: 500, Y: 500})
	if c.Hovered() || c.HoverIndex() != layout.None {
		t.Error("pointer outside the container should not hover")
	}

	// Dropping outside keeps the order.
	s.PointerUp(layout.Vec2{X: 500, Y: 500})
	s.RunUntilSettled(frame, 200)
	if got := order(c); got != "abcde" {
		t.Errorf("order = %s, want abcde", got)
	}
	if items[0].Pos() != (layout.Vec2{}) {
		t.Errorf("item a returned to %v", items[0].Pos())
	}
}

func TestItemAt(t *testing.T) {
	s, c, items := newRowScene(t)

	tests := []struct {
		name string
		p    layout.Vec2
		want *reflow.Item
	}{
		{"first item", layout.Vec2{X: 10, Y: 20}, items[0]},
		{"last item", layout.Vec2{X: 299, Y: 69}, items[4]},
		{"gap between items", layout.Vec2{X: 65, Y: 30}, nil},
		{"outside container", layout.Vec2{X: 5, Y: 5}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, owner := s.ItemAt(tt.p)
			if it != tt.want {
				t.Errorf("ItemAt(%v) = %v, want %v", tt.p, it, tt.want)
			}
			if it != nil && owner != c {
				t.Error("owner should be the row container")
			}
		})
	}
}

func TestContainerLookup(t *testing.T) {
	s, c, _ := newRowScene(t)
	if got, ok := s.Container("row"); !ok || got != c {
		t.Error("Container(row) not found")
	}
	if _, ok := s.Container("missing"); ok {
		t.Error("Container(missing) should not be found")
	}
}
