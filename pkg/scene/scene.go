// Package scene is a reference host for reflow containers.
//
// A [Scene] owns the drag coordinator, one shared tweener and any number of
// containers placed in host coordinates. It turns raw pointer input into the
// events containers expect: enter and exit, container-local pointer
// positions, button presses, hit-tested drag starts, and drag-follow for the
// dragged item. [Scene.Tick] updates every container before advancing the
// tweener, so reorders are resolved before transitions move.
//
// The coordinator becomes reachable on the first tick. Containers created
// before then resolve it lazily through their provider.
package scene

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reflow/pkg/anim"
	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/pointer"
	"github.com/matzehuels/reflow/pkg/reflow"
)

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the logger handed to every container.
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEase sets the easing of settle transitions.
func WithEase(e anim.Ease) Option {
	return func(s *Scene) { s.ease = e }
}

// Scene drives containers from pointer input and a frame clock. It is not safe
// for concurrent use.
type Scene struct {
	logger *log.Logger
	ease   anim.Ease

	coord     *pointer.Coordinator
	slot      pointer.Slot
	published bool
	tween     *anim.Tweener

	containers []*reflow.Container

	pointer  layout.Vec2
	inside   map[*reflow.Container]bool
	dragging *reflow.Item
	grab     layout.Vec2

	frame   int
	elapsed time.Duration
}

// New returns an empty scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		coord:  pointer.New(),
		inside: make(map[*reflow.Container]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tween = anim.New(anim.WithEase(s.ease))
	return s
}

// NewContainer creates a container wired to the scene's tweener, coordinator
// and logger, and adds it to the scene.
func (s *Scene) NewContainer(name string, bounds layout.Rect, cfg layout.Config) *reflow.Container {
	c := reflow.New(name,
		reflow.WithConfig(cfg),
		reflow.WithBounds(bounds),
		reflow.WithAnimator(s.tween),
		reflow.WithPointer(s.slot.Provider()),
		reflow.WithLogger(s.logger),
	)
	s.containers = append(s.containers, c)
	return c
}

// Containers returns the scene's containers in creation order.
func (s *Scene) Containers() []*reflow.Container { return s.containers }

// Container returns the container with the given name.
func (s *Scene) Container(name string) (*reflow.Container, bool) {
	for _, c := range s.containers {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Coordinator returns the scene's drag coordinator.
func (s *Scene) Coordinator() *pointer.Coordinator { return s.coord }

// Animator returns the tweener shared by every container.
func (s *Scene) Animator() *anim.Tweener { return s.tween }

// Frame returns the number of ticks run so far.
func (s *Scene) Frame() int { return s.frame }

// Elapsed returns the total time ticked.
func (s *Scene) Elapsed() time.Duration { return s.elapsed }

// Pointer returns the last pointer position in scene coordinates.
func (s *Scene) Pointer() layout.Vec2 { return s.pointer }

// Dragging returns the item being dragged, or nil.
func (s *Scene) Dragging() *reflow.Item { return s.dragging }

// Close detaches every container and stops all transitions.
func (s *Scene) Close() {
	for _, c := range s.containers {
		c.Close()
	}
	s.tween.StopAll()
}

// =============================================================================
// Pointer input
// =============================================================================

// PointerMove moves the pointer to p in scene coordinates.
func (s *Scene) PointerMove(p layout.Vec2) {
	s.pointer = p
	for _, c := range s.containers {
		b := c.Bounds()
		in := b.Contains(p)
		switch {
		case in && !s.inside[c]:
			c.OnPointerEnter()
		case !in && s.inside[c]:
			c.OnPointerExit()
		}
		s.inside[c] = in
		c.SetPointer(p.Sub(b.Pos()))
	}
	if it := s.dragging; it != nil && it.Container() != nil {
		origin := it.Container().Bounds().Pos()
		it.SetPosition(p.Sub(origin).Sub(s.grab))
	}
}

// PointerDown presses the button at p. Pressing over an item starts dragging
// it.
func (s *Scene) PointerDown(p layout.Vec2) {
	s.PointerMove(p)
	for _, c := range s.containers {
		c.OnPointerButton()
	}
	it, c := s.ItemAt(p)
	if it == nil {
		return
	}
	s.grab = p.Sub(c.Bounds().Pos()).Sub(it.Pos())
	s.dragging = it
	s.coord.StartDragging(it, s.grab)
	s.logger.Debug("picked up", "item", it.Label, "container", c.Name())
}

// PointerUp releases the button at p, dropping any dragged item.
func (s *Scene) PointerUp(p layout.Vec2) {
	s.PointerMove(p)
	for _, c := range s.containers {
		c.OnPointerButton()
	}
	if s.dragging == nil {
		return
	}
	s.dragging = nil
	s.grab = layout.Vec2{}
	s.coord.StopDragging()
}

// ItemAt returns the topmost item under p and its container. Later
// containers and later items are on top.
func (s *Scene) ItemAt(p layout.Vec2) (*reflow.Item, *reflow.Container) {
	for ci := len(s.containers) - 1; ci >= 0; ci-- {
		c := s.containers[ci]
		b := c.Bounds()
		if !b.Contains(p) {
			continue
		}
		local := p.Sub(b.Pos())
		items := c.Items()
		for i := len(items) - 1; i >= 0; i-- {
			if items[i].Rect().Contains(local) {
				return items[i], c
			}
		}
	}
	return nil, nil
}

// =============================================================================
// Frame loop
// =============================================================================

// Tick runs one frame: every container updates, then the tweener advances.
func (s *Scene) Tick(dt time.Duration) {
	if !s.published {
		s.slot.Publish(s.coord)
		s.published = true
	}
	for _, c := range s.containers {
		c.Update(dt)
	}
	s.tween.Advance(dt)
	s.frame++
	s.elapsed += dt
}

// Settled reports whether no container is dirty, no drag is active and no
// transition is running.
func (s *Scene) Settled() bool {
	if s.dragging != nil || s.tween.Active() > 0 {
		return false
	}
	for _, c := range s.containers {
		if c.Dirty() {
			return false
		}
	}
	return true
}

// RunUntilSettled ticks at the given step until the scene settles or limit
// ticks have run. It returns the number of ticks run and whether the scene
// settled.
func (s *Scene) RunUntilSettled(step time.Duration, limit int) (int, bool) {
	for n := 0; n < limit; n++ {
		if s.Settled() {
			return n, true
		}
		s.Tick(step)
	}
	return limit, s.Settled()
}
