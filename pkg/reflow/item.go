package reflow

import (
	"github.com/google/uuid"

	"github.com/matzehuels/reflow/pkg/layout"
)

// Node is any child of a container. Only *Item takes part in layout.
type Node interface {
	Name() string
}

// Fixed is a child that is not organizable. A container keeps it in its child
// list, skips it in every layout computation and reports a warning.
type Fixed struct {
	Label string
}

// Name implements Node.
func (f *Fixed) Name() string { return f.Label }

// Item is one organizable child. Its index inside the parent container is
// authoritative for layout; its position is container-local and is written by
// the container's animator or, while dragged, by the host.
type Item struct {
	ID    string
	Label string

	size    layout.Size
	pos     layout.Vec2
	index   int
	dragged bool

	// goal is the destination of the last transition issued for the item.
	goal    layout.Vec2
	hasGoal bool

	parent *Container
}

// NewItem returns an unparented item with a fresh ID.
func NewItem(label string, size layout.Size) *Item {
	return &Item{
		ID:    uuid.NewString(),
		Label: label,
		size:  size,
		index: layout.None,
	}
}

// Name implements Node.
func (it *Item) Name() string { return it.Label }

// Size returns the item's size.
func (it *Item) Size() layout.Size { return it.size }

// SetSize resizes the item and invalidates its container's layout.
func (it *Item) SetSize(s layout.Size) {
	if it.size == s {
		return
	}
	it.size = s
	if it.parent != nil {
		it.parent.restructure()
	}
}

// Pos returns the item's container-local position.
func (it *Item) Pos() layout.Vec2 { return it.pos }

// SetPosition moves the item. It implements anim.Target.
func (it *Item) SetPosition(p layout.Vec2) { it.pos = p }

// Rect returns the item's container-local bounds.
func (it *Item) Rect() layout.Rect {
	return layout.Rect{X: it.pos.X, Y: it.pos.Y, W: it.size.W, H: it.size.H}
}

// Index returns the item's slot in its container, or layout.None when it has
// no container.
func (it *Item) Index() int { return it.index }

// Dragged reports whether the item is being dragged.
func (it *Item) Dragged() bool { return it.dragged }

// Container returns the container holding the item, or nil.
func (it *Item) Container() *Container { return it.parent }
