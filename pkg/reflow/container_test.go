package reflow

import (
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/reflow/pkg/anim"
	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/observability"
	"github.com/matzehuels/reflow/pkg/pointer"
)

// rowConfig lays five 50x50 items out at x = 0, 60, 120, 180, 240.
func rowConfig() layout.Config {
	cfg := layout.DefaultConfig()
	cfg.Wrap = false
	cfg.Spacing = 10
	return cfg
}

func newRow(t *testing.T, opts ...Option) (*Container, []*Item, *pointer.Coordinator) {
	t.Helper()
	coord := pointer.New()
	base := []Option{
		WithConfig(rowConfig()),
		WithBounds(layout.Rect{W: 300, H: 50}),
		WithPointer(pointer.Static(coord)),
	}
	c := New("row", append(base, opts...)...)
	var items []*Item
	for _, label := range []string{"a", "b", "c", "d", "e"} {
		it := NewItem(label, layout.Size{W: 50, H: 50})
		c.AddChild(it)
		items = append(items, it)
	}
	return c, items, coord
}

func labels(c *Container) string {
	var s string
	for _, it := range c.Items() {
		s += it.Label
	}
	return s
}

func checkPermutation(t *testing.T, c *Container) {
	t.Helper()
	for i, it := range c.Items() {
		if it.Index() != i {
			t.Fatalf("item %s has index %d at slot %d", it.Label, it.Index(), i)
		}
	}
}

func TestNewItemIDs(t *testing.T) {
	a := NewItem("a", layout.Size{})
	b := NewItem("a", layout.Size{})
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs should be unique and non-empty: %q %q", a.ID, b.ID)
	}
	if a.Index() != layout.None || a.Container() != nil {
		t.Error("new item should be unparented")
	}
}

func TestMovePermutation(t *testing.T) {
	c, items, _ := newRow(t)

	moves := []struct {
		item  int
		to    int
		order string
	}{
		{3, 1, "adbce"},
		{0, 4, "dbcea"},
		{4, 0, "edbca"},
		{2, 99, "edbac"},
		{1, -5, "bedac"},
	}
	for _, m := range moves {
		c.Move(items[m.item], m.to)
		if got := labels(c); got != m.order {
			t.Fatalf("Move(%s, %d) order = %s, want %s", items[m.item].Label, m.to, got, m.order)
		}
		checkPermutation(t, c)
	}
}

func TestConvergence(t *testing.T) {
	tw := anim.New()
	counter := &countingAnimator{Tweener: tw}
	c, _, _ := newRow(t, WithAnimator(counter))

	for tick := 0; c.Dirty(); tick++ {
		if tick > 100 {
			t.Fatal("container did not settle")
		}
		c.Update(16 * time.Millisecond)
		tw.Advance(16 * time.Millisecond)
	}

	targets := c.Targets()
	for i, it := range c.Items() {
		if !it.Pos().Near(targets[i], 0.5) {
			t.Errorf("item %d at %v, want %v", i, it.Pos(), targets[i])
		}
	}

	// Settling again issues no transitions.
	started := counter.started
	c.OnPointerButton()
	for range 3 {
		c.Update(16 * time.Millisecond)
	}
	if counter.started != started {
		t.Errorf("settled container started %d transitions", counter.started-started)
	}
	if c.Dirty() {
		t.Error("container should be clean after re-check")
	}
}

func TestDeterministicTargets(t *testing.T) {
	c1, _, _ := newRow(t)
	c2, _, _ := newRow(t)
	t1, t2 := c1.Targets(), c2.Targets()
	for i := range t1 {
		if t1[i] != t2[i] {
			t.Errorf("target %d differs: %v vs %v", i, t1[i], t2[i])
		}
	}
}

func TestDragReorder(t *testing.T) {
	c, items, coord := newRow(t)
	c.Update(0)

	coord.StartDragging(items[3], layout.Vec2{X: 10, Y: 10})
	if c.Dragged() != items[3] || !items[3].Dragged() {
		t.Fatal("container should track the dragged item")
	}
	if got := c.HoverIndex(); got != layout.None {
		t.Errorf("HoverIndex() outside = %d, want None", got)
	}

	c.OnPointerEnter()
	c.SetPointer(layout.Vec2{X: 115, Y: 10})
	if got := c.HoverIndex(); got != 1 {
		t.Fatalf("HoverIndex() = %d, want 1", got)
	}

	c.Update(16 * time.Millisecond)
	if got := labels(c); got != "adbce" {
		t.Errorf("order = %s, want adbce", got)
	}
	if items[3].Index() != 1 || items[1].Index() != 2 || items[2].Index() != 3 {
		t.Errorf("indices = %d %d %d", items[3].Index(), items[1].Index(), items[2].Index())
	}
	checkPermutation(t, c)

	// The slot is stable on the following tick.
	c.Update(16 * time.Millisecond)
	if got := labels(c); got != "adbce" {
		t.Errorf("order after second tick = %s", got)
	}
}

func TestDraggedItemExcluded(t *testing.T) {
	c, items, coord := newRow(t)
	c.Update(0)

	coord.StartDragging(items[0], layout.Vec2{})
	items[0].SetPosition(layout.Vec2{X: 17, Y: 33})
	c.OnPointerButton()
	for range 3 {
		c.Update(16 * time.Millisecond)
	}

	if items[0].Pos() != (layout.Vec2{X: 17, Y: 33}) {
		t.Errorf("dragged item moved to %v", items[0].Pos())
	}
	if !c.IsSortDone() {
		t.Error("IsSortDone() should ignore the dragged item")
	}
}

func TestDropSnapsToSlot(t *testing.T) {
	c, items, coord := newRow(t)
	c.Update(0)

	coord.StartDragging(items[0], layout.Vec2{})
	c.OnPointerEnter()
	c.SetPointer(layout.Vec2{X: 299, Y: 10})
	coord.StopDragging()

	if got := labels(c); got != "bcdea" {
		t.Errorf("order = %s, want bcdea", got)
	}
	if c.Dragged() != nil || items[0].Dragged() {
		t.Error("drag should be cleared")
	}
	c.Update(0)
	if items[0].Pos() != c.Targets()[4] {
		t.Errorf("dropped item at %v, want %v", items[0].Pos(), c.Targets()[4])
	}
}

func TestDropOutsideKeepsIndex(t *testing.T) {
	c, items, coord := newRow(t)

	coord.StartDragging(items[2], layout.Vec2{})
	c.OnPointerExit()
	c.SetPointer(layout.Vec2{X: 1000})
	coord.StopDragging()

	if got := labels(c); got != "abcde" {
		t.Errorf("order = %s, want abcde", got)
	}
}

func TestNoShifting(t *testing.T) {
	c, items, coord := newRow(t)
	if err := c.Set(layout.PropNoShifting, true); err != nil {
		t.Fatal(err)
	}

	coord.StartDragging(items[4], layout.Vec2{})
	c.OnPointerEnter()
	c.SetPointer(layout.Vec2{X: 5, Y: 5})
	c.Update(16 * time.Millisecond)
	if got := labels(c); got != "abcde" {
		t.Errorf("order while dragging = %s, want abcde", got)
	}

	coord.StopDragging()
	if got := labels(c); got != "eabcd" {
		t.Errorf("order after drop = %s, want eabcd", got)
	}
}

func TestForeignDragIgnored(t *testing.T) {
	c, items, coord := newRow(t)
	other := New("other", WithPointer(pointer.Static(coord)))
	stranger := NewItem("x", layout.Size{W: 10, H: 10})
	other.AddChild(stranger)

	coord.StartDragging(stranger, layout.Vec2{})
	if c.Dragged() != nil {
		t.Error("container adopted a foreign item")
	}
	if other.Dragged() != stranger {
		t.Error("owning container should track its item")
	}

	coord.StartDragging(items[1], layout.Vec2{})
	if other.Dragged() != nil {
		t.Error("starting a new drag should stop the previous one")
	}
	c.DragStopped(stranger)
	if c.Dragged() != items[1] {
		t.Error("stop for a foreign item must not clear the drag")
	}
}

func TestNonOrganizableChildren(t *testing.T) {
	plain, _, _ := newRow(t)
	c, _, _ := newRow(t)
	label := &Fixed{Label: "caption"}
	c.AddChild(label)

	if !c.HasNonOrganizableChildren() || c.Warning() == "" {
		t.Fatal("non-organizable child should be flagged")
	}
	if len(c.Children()) != 6 || len(c.Items()) != 5 {
		t.Errorf("children=%d items=%d", len(c.Children()), len(c.Items()))
	}
	if c.RowCount() != plain.RowCount() {
		t.Errorf("RowCount() = %d, want %d", c.RowCount(), plain.RowCount())
	}
	c.Update(0)
	if !c.IsSortDone() {
		t.Error("IsSortDone() should skip the non-organizable child")
	}

	c.RemoveChild(label)
	if c.HasNonOrganizableChildren() || c.Warning() != "" {
		t.Error("warning should clear once the child is removed")
	}
}

func TestRemoveChild(t *testing.T) {
	c, items, coord := newRow(t)
	coord.StartDragging(items[1], layout.Vec2{})

	c.RemoveChild(items[1])
	if got := labels(c); got != "acde" {
		t.Errorf("order = %s, want acde", got)
	}
	checkPermutation(t, c)
	if c.Dragged() != nil || items[1].Container() != nil || items[1].Index() != layout.None {
		t.Error("removed item should be detached")
	}

	// Adding to a second container moves it.
	other := New("other")
	other.AddChild(items[2])
	if got := labels(c); got != "ade" {
		t.Errorf("order = %s, want ade", got)
	}
	if items[2].Container() != other || items[2].Index() != 0 {
		t.Error("item should belong to the second container")
	}
}

func TestDeferredCoordinator(t *testing.T) {
	var slot pointer.Slot
	c := New("late", WithPointer(slot.Provider()))
	it := NewItem("a", layout.Size{W: 10, H: 10})
	c.AddChild(it)

	c.Update(16 * time.Millisecond)
	if c.Connected() {
		t.Fatal("container connected before publication")
	}

	coord := pointer.New()
	slot.Publish(coord)
	c.Update(16 * time.Millisecond)
	if !c.Connected() {
		t.Fatal("container should connect on the next tick")
	}

	coord.StartDragging(it, layout.Vec2{})
	if c.Dragged() != it {
		t.Error("connected container should receive drags")
	}

	c.Close()
	coord.StopDragging()
	if c.Dragged() != it {
		t.Error("closed container should no longer receive drags")
	}
}

func TestRedirectAndLowPerformance(t *testing.T) {
	tests := []struct {
		name      string
		lowPerf   bool
		wantStart int
		wantStop  int
	}{
		{"redirects", false, 1, 1},
		{"low performance waits", true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := newFakeAnimator()
			c, items, _ := newRow(t, WithAnimator(fa))
			if err := c.Set(layout.PropLowPerformance, tt.lowPerf); err != nil {
				t.Fatal(err)
			}
			c.Update(0)
			fa.finish()
			c.Update(0)
			if c.Dirty() {
				t.Fatal("container should be settled")
			}

			// Start a transition for the last item only, then change its target.
			items[4].SetPosition(layout.Vec2{X: 400})
			c.OnPointerButton()
			c.Update(0)
			if !fa.InFlight(items[4]) {
				t.Fatal("item 4 should be animating")
			}

			// Without a change the transition is left alone.
			fa.reset()
			c.Update(0)
			if fa.started != 0 || fa.stopped != 0 {
				t.Errorf("unchanged target: started=%d stopped=%d", fa.started, fa.stopped)
			}

			if err := c.Set(layout.PropSpacing, 20.0); err != nil {
				t.Fatal(err)
			}
			fa.reset()
			c.Update(0)
			if got := fa.startedFor(items[4]); got != tt.wantStart {
				t.Errorf("transitions for item 4 = %d, want %d", got, tt.wantStart)
			}
			if fa.stopped != tt.wantStop {
				t.Errorf("stops = %d, want %d", fa.stopped, tt.wantStop)
			}

			// Once everything lands the container settles.
			for range 5 {
				fa.finish()
				c.Update(0)
			}
			if c.Dirty() || !c.IsSortDone() {
				t.Error("container should settle")
			}
		})
	}
}

func TestConfigChanges(t *testing.T) {
	c, _, _ := newRow(t)
	c.Update(0)
	c.Update(0)

	if err := c.Set("layout/columns", 2); err == nil {
		t.Error("unknown property should fail")
	}
	if err := c.SetConfig(layout.Config{SortPrecision: 3}); err == nil {
		t.Error("invalid config should fail")
	}
	if c.Dirty() {
		t.Error("rejected changes must not mark the layout dirty")
	}

	v, err := c.Get(layout.PropSpacing)
	if err != nil || v != 10.0 {
		t.Errorf("Get(spacing) = %v, %v", v, err)
	}

	c.SetBounds(layout.Rect{X: 50, Y: 50, W: 300, H: 50})
	if c.Dirty() {
		t.Error("moving the container must not mark it dirty")
	}
	c.SetBounds(layout.Rect{X: 50, Y: 50, W: 100, H: 200})
	if !c.Dirty() {
		t.Error("resizing the container should mark it dirty")
	}
}

func TestUniformReferenceSurvivesReorder(t *testing.T) {
	cfg := rowConfig()
	cfg.Spacing = 5
	cfg.UniformItemSize = true
	c := New("row", WithConfig(cfg), WithBounds(layout.Rect{W: 300, H: 50}))
	a := NewItem("a", layout.Size{W: 50, H: 50})
	b := NewItem("b", layout.Size{W: 100, H: 50})
	d := NewItem("d", layout.Size{W: 50, H: 50})
	for _, it := range []*Item{a, b, d} {
		c.AddChild(it)
	}

	xs := func() []float64 {
		var out []float64
		for _, p := range c.Targets() {
			out = append(out, p.X)
		}
		return out
	}
	check := func(step string, want []float64) {
		t.Helper()
		if got := xs(); !slices.Equal(got, want) {
			t.Errorf("%s: target xs = %v, want %v", step, got, want)
		}
	}

	check("initial", []float64{0, 55, 110})
	c.Move(b, 0)
	check("after reorder", []float64{0, 55, 110})
	c.Move(d, 0)
	check("after second reorder", []float64{0, 55, 110})

	// Structural changes re-derive the reference from the first item.
	c.Move(b, 0)
	if err := c.Set(layout.PropSpacing, 5.0); err != nil {
		t.Fatal(err)
	}
	check("after set", []float64{0, 105, 210})
	c.RemoveChild(b)
	check("after remove", []float64{0, 55})
}

type recordingHooks struct {
	observability.NoopReflowHooks
	reorders int
	settles  int
	drags    int
}

func (h *recordingHooks) OnReorder(string, string, int, int)  { h.reorders++ }
func (h *recordingHooks) OnSettle(string, int, time.Duration) { h.settles++ }
func (h *recordingHooks) OnDragStart(string, string, int)     { h.drags++ }

func TestHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetReflowHooks(h)
	defer observability.Reset()

	c, items, coord := newRow(t)
	c.Update(0)
	c.Update(0)
	coord.StartDragging(items[0], layout.Vec2{})
	c.Move(items[0], 2)

	if h.settles != 1 || h.reorders != 1 || h.drags != 1 {
		t.Errorf("hooks: settles=%d reorders=%d drags=%d", h.settles, h.reorders, h.drags)
	}
}
