package reflow

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/observability"
	"github.com/matzehuels/reflow/pkg/pointer"
)

// nonOrganizableWarning is reported by Warning while a non-item child is
// present.
const nonOrganizableWarning = "This container can only hold organizable items. " +
	"Remove the other children; they are ignored by the layout."

// Container arranges its items and reorders them under drag. It is not safe
// for concurrent use: call every method from the host's frame loop.
type Container struct {
	name   string
	cfg    layout.Config
	bounds layout.Rect

	children []Node
	items    []*Item // by index
	fixed    int     // children that are not items

	anim     Animator
	provider pointer.Provider
	coord    *pointer.Coordinator
	unsub    func()
	waiting  bool // coordinator resolution failed at least once

	logger *log.Logger

	hovered bool
	ptr     layout.Vec2
	dragged *Item

	// ref is the uniform-mode item size, taken from the first item at the
	// last structural change. Reorders keep it.
	ref   layout.Size
	pass  *layout.Pass
	dirty bool
	// disturbed is the time accumulated since dirty was last set.
	disturbed time.Duration
}

// New returns an empty container. It tries to resolve the pointer
// coordinator immediately and keeps retrying on every Update until it
// succeeds.
func New(name string, opts ...Option) *Container {
	c := &Container{
		name:   name,
		cfg:    layout.DefaultConfig(),
		anim:   snap{},
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("container", name)
	if err := c.cfg.Validate(); err != nil {
		c.logger.Warn("invalid configuration, using defaults", "err", err)
		c.cfg = layout.DefaultConfig()
	}
	c.connect()
	return c
}

// Name returns the container's name.
func (c *Container) Name() string { return c.name }

// Close unsubscribes from the coordinator and stops every transition the
// container started.
func (c *Container) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	c.coord = nil
	for _, it := range c.items {
		c.anim.Stop(it)
	}
}

// =============================================================================
// Children
// =============================================================================

// AddChild appends n. An *Item takes the next slot; it is first removed from
// any other container. Any other node is kept but flagged.
func (c *Container) AddChild(n Node) {
	it, ok := n.(*Item)
	if !ok {
		c.children = append(c.children, n)
		c.fixed++
		c.logger.Warn("non-organizable child ignored by layout", "child", n.Name())
		return
	}
	if it.parent == c {
		return
	}
	if it.parent != nil {
		it.parent.RemoveChild(it)
	}
	it.parent = c
	it.index = len(c.items)
	it.hasGoal = false
	c.children = append(c.children, it)
	c.items = append(c.items, it)
	c.restructure()
}

// RemoveChild removes n. Removing the dragged item ends the drag for this
// container. Unknown nodes are ignored.
func (c *Container) RemoveChild(n Node) {
	i := slices.Index(c.children, n)
	if i < 0 {
		return
	}
	c.children = slices.Delete(c.children, i, i+1)

	it, ok := n.(*Item)
	if !ok {
		c.fixed--
		return
	}
	c.anim.Stop(it)
	c.items = slices.Delete(c.items, it.index, it.index+1)
	if c.dragged == it {
		c.dragged = nil
	}
	it.parent = nil
	it.index = layout.None
	it.dragged = false
	it.hasGoal = false
	c.reindex()
	c.restructure()
}

// Items returns the organizable items in index order.
func (c *Container) Items() []*Item {
	return slices.Clone(c.items)
}

// Children returns every child in insertion order, organizable or not.
func (c *Container) Children() []Node {
	return slices.Clone(c.children)
}

// HasNonOrganizableChildren reports whether any child is not an *Item.
func (c *Container) HasNonOrganizableChildren() bool { return c.fixed > 0 }

// Warning returns a host-visible configuration warning, or "".
func (c *Container) Warning() string {
	if c.HasNonOrganizableChildren() {
		return nonOrganizableWarning
	}
	return ""
}

// Move reorders item to index with splice semantics: the item is removed and
// reinserted, shifting the items between the two slots by one. index is
// clamped to the valid range. Items of other containers are ignored.
func (c *Container) Move(item *Item, index int) {
	if item == nil || item.parent != c || len(c.items) == 0 {
		return
	}
	index = max(0, min(index, len(c.items)-1))
	from := item.index
	if from == index {
		return
	}
	c.items = slices.Delete(c.items, from, from+1)
	c.items = slices.Insert(c.items, index, item)
	c.reindex()
	c.invalidate()

	c.logger.Debug("reordered", "item", item.Label, "from", from, "to", index)
	observability.Reflow().OnReorder(c.name, item.ID, from, index)
}

func (c *Container) reindex() {
	for i, it := range c.items {
		it.index = i
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config returns the current layout configuration.
func (c *Container) Config() layout.Config { return c.cfg }

// SetConfig replaces the configuration after validating it.
func (c *Container) SetConfig(cfg layout.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.restructure()
	return nil
}

// Set assigns a named property (see layout.Properties).
func (c *Container) Set(name string, value any) error {
	if err := c.cfg.Set(name, value); err != nil {
		return err
	}
	c.restructure()
	return nil
}

// Get returns a named property.
func (c *Container) Get(name string) (any, error) {
	return c.cfg.Get(name)
}

// Bounds returns the container's rectangle in host coordinates.
func (c *Container) Bounds() layout.Rect { return c.bounds }

// SetBounds moves or resizes the container.
func (c *Container) SetBounds(r layout.Rect) {
	if c.bounds == r {
		return
	}
	resized := c.bounds.Size() != r.Size()
	c.bounds = r
	if resized {
		c.invalidate()
	}
}

// =============================================================================
// Layout
// =============================================================================

// restructure re-derives the uniform reference size from the item at index 0
// and invalidates the layout. Children, sizes and configuration changes go
// through here; reorders only invalidate.
func (c *Container) restructure() {
	c.ref = layout.Size{}
	if len(c.items) > 0 {
		c.ref = c.items[0].size
	}
	c.invalidate()
}

// invalidate drops the memoized pass and forces the next tick to re-evaluate
// convergence.
func (c *Container) invalidate() {
	c.pass = nil
	c.markDirty()
}

func (c *Container) markDirty() {
	if !c.dirty {
		c.disturbed = 0
	}
	c.dirty = true
}

// Pass returns the layout pass for the current order, sizes, bounds and
// configuration.
func (c *Container) Pass() *layout.Pass {
	if c.pass == nil {
		sizes := make([]layout.Size, len(c.items))
		for i, it := range c.items {
			sizes[i] = it.size
		}
		c.pass = layout.NewPass(c.cfg, c.bounds.Size(), sizes, layout.WithReference(c.ref))
	}
	return c.pass
}

// Targets returns every item's target position in index order.
func (c *Container) Targets() []layout.Vec2 {
	return c.Pass().Targets()
}

// RowCount returns the number of rows, or 0 for an empty container.
func (c *Container) RowCount() int { return c.Pass().RowCount() }

// Dirty reports whether the next Update will run a convergence check.
func (c *Container) Dirty() bool { return c.dirty }

// Dragged returns the tracked dragged item, or nil.
func (c *Container) Dragged() *Item { return c.dragged }

// IsSortDone reports whether every item other than the tracked dragged item
// sits at its target and no other item reports itself dragged.
func (c *Container) IsSortDone() bool {
	current := make([]layout.Vec2, len(c.items))
	dragged := make([]bool, len(c.items))
	for i, it := range c.items {
		current[i] = it.pos
		dragged[i] = it.dragged
	}
	tracked := layout.None
	if c.dragged != nil {
		tracked = c.dragged.index
	}
	return c.Pass().IsSortDone(current, dragged, tracked)
}
