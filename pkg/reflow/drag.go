package reflow

import (
	"errors"

	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/observability"
	"github.com/matzehuels/reflow/pkg/pointer"
)

// =============================================================================
// Pointer events
// =============================================================================

// OnPointerEnter marks the pointer as inside the container.
func (c *Container) OnPointerEnter() { c.hovered = true }

// OnPointerExit marks the pointer as outside the container. The hover slot is
// None until it enters again.
func (c *Container) OnPointerExit() { c.hovered = false }

// Hovered reports whether the pointer is inside the container.
func (c *Container) Hovered() bool { return c.hovered }

// OnPointerButton records a button press or release. Any click may have
// moved items, so the next tick re-checks convergence.
func (c *Container) OnPointerButton() { c.markDirty() }

// SetPointer records the pointer position in container-local coordinates.
func (c *Container) SetPointer(local layout.Vec2) { c.ptr = local }

// HoverIndex returns the slot the dragged item would take if dropped now, or
// layout.None when nothing is dragged or the pointer is outside.
func (c *Container) HoverIndex() int {
	if !c.hovered || c.dragged == nil {
		return layout.None
	}
	return c.Pass().HoverIndex(c.ptr, c.dragged.index)
}

// =============================================================================
// Coordinator
// =============================================================================

// connect resolves the coordinator once. A provider that is not ready yet is
// retried on the next call.
func (c *Container) connect() {
	if c.coord != nil || c.provider == nil {
		return
	}
	coord, err := c.provider()
	if err != nil {
		if !c.waiting {
			c.waiting = true
			if errors.Is(err, pointer.ErrNotReady) {
				c.logger.Debug("pointer coordinator not ready, retrying each tick")
			} else {
				c.logger.Warn("resolve pointer coordinator, retrying each tick", "err", err)
			}
		}
		return
	}
	c.coord = coord
	c.unsub = coord.Subscribe(c)
	if c.waiting {
		c.logger.Debug("pointer coordinator connected")
		c.waiting = false
	}
}

// Connected reports whether the container is subscribed to a coordinator.
func (c *Container) Connected() bool { return c.coord != nil }

// DragStarted adopts item as the dragged item when this container owns it and
// halts its transition. It implements pointer.Listener.
func (c *Container) DragStarted(item any) {
	it, ok := item.(*Item)
	if !ok || it.parent != c {
		return
	}
	if prev := c.dragged; prev != nil && prev != it {
		prev.dragged = false
	}
	it.dragged = true
	it.hasGoal = false
	c.dragged = it
	c.anim.Stop(it)
	c.markDirty()

	c.logger.Debug("drag started", "item", it.Label, "index", it.index)
	observability.Reflow().OnDragStart(c.name, it.ID, it.index)
}

// DragStopped releases the tracked item and snaps it to the hovered slot. A
// stop for any other item is ignored. It implements pointer.Listener.
func (c *Container) DragStopped(item any) {
	it, ok := item.(*Item)
	if !ok || it != c.dragged {
		return
	}
	slot := c.HoverIndex()
	it.dragged = false
	c.dragged = nil
	if slot != layout.None {
		c.Move(it, slot)
	}
	c.markDirty()

	c.logger.Debug("drag stopped", "item", it.Label, "index", it.index)
	observability.Reflow().OnDragStop(c.name, it.ID, it.index)
}
