// Package pointer provides the process-wide drag coordinator.
//
// A [Coordinator] records which item, if any, is being dragged and broadcasts
// drag start and stop to every subscribed [Listener]. Containers subscribe
// once and filter the broadcasts for their own children. The dragged item is
// passed explicitly in every notification.
//
// Containers do not look the coordinator up themselves. The host supplies a
// [Provider] chosen for its environment; a provider may report [ErrNotReady]
// until the coordinator exists, and callers retry on their next tick.
package pointer

import (
	"sync"

	errs "github.com/matzehuels/reflow/pkg/errors"
	"github.com/matzehuels/reflow/pkg/layout"
)

// ErrNotReady is returned by a Provider whose coordinator does not exist yet.
var ErrNotReady = errs.New(errs.ErrCodeNotReady, "pointer coordinator not ready")

// Listener receives drag notifications. item is whatever value was passed to
// StartDragging.
type Listener interface {
	DragStarted(item any)
	DragStopped(item any)
}

// Coordinator tracks the single active drag. Its methods are safe for
// concurrent use; listeners are called without the lock held, on the
// goroutine that started or stopped the drag.
type Coordinator struct {
	mu        sync.Mutex
	listeners []subscription
	nextID    int
	dragged   any
	offset    layout.Vec2
}

type subscription struct {
	id int
	l  Listener
}

// New returns a Coordinator with no active drag.
func New() *Coordinator {
	return &Coordinator{}
}

// Subscribe registers l and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (c *Coordinator) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, l: l})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.remove(id) })
	}
}

func (c *Coordinator) remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.listeners {
		if s.id == id {
			c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
			return
		}
	}
}

// StartDragging begins dragging item, grabbed at offset from its top-left
// corner. A drag already in progress is stopped first, so listeners always
// see a stop before the next start.
func (c *Coordinator) StartDragging(item any, offset layout.Vec2) {
	c.mu.Lock()
	prev := c.dragged
	c.dragged = item
	c.offset = offset
	ls := c.snapshot()
	c.mu.Unlock()

	if prev != nil {
		for _, l := range ls {
			l.DragStopped(prev)
		}
	}
	for _, l := range ls {
		l.DragStarted(item)
	}
}

// StopDragging ends the active drag. It does nothing when no drag is active.
func (c *Coordinator) StopDragging() {
	c.mu.Lock()
	item := c.dragged
	c.dragged = nil
	c.offset = layout.Vec2{}
	ls := c.snapshot()
	c.mu.Unlock()

	if item == nil {
		return
	}
	for _, l := range ls {
		l.DragStopped(item)
	}
}

// Dragged returns the item being dragged, or nil.
func (c *Coordinator) Dragged() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragged
}

// Offset returns where the dragged item was grabbed, relative to its
// top-left corner.
func (c *Coordinator) Offset() layout.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// snapshot copies the listener list. The caller must hold c.mu.
func (c *Coordinator) snapshot() []Listener {
	ls := make([]Listener, len(c.listeners))
	for i, s := range c.listeners {
		ls[i] = s.l
	}
	return ls
}
