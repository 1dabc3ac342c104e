package reflow

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reflow/pkg/anim"
	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/pointer"
)

// Animator starts and stops position transitions. It is satisfied by
// *anim.Tweener; the host advances it.
type Animator interface {
	Interpolate(target anim.Target, from, to layout.Vec2, d time.Duration)
	Stop(target anim.Target)
	InFlight(target anim.Target) bool
}

// snap is the Animator used when none is configured: every transition
// completes immediately.
type snap struct{}

func (snap) Interpolate(t anim.Target, _, to layout.Vec2, _ time.Duration) { t.SetPosition(to) }
func (snap) Stop(anim.Target)                                              {}
func (snap) InFlight(anim.Target) bool                                     { return false }

// Option configures a Container.
type Option func(*Container)

// WithConfig sets the layout configuration. An invalid configuration is
// replaced by layout.DefaultConfig and logged.
func WithConfig(cfg layout.Config) Option {
	return func(c *Container) { c.cfg = cfg }
}

// WithBounds sets the container's rectangle in host coordinates.
func WithBounds(r layout.Rect) Option {
	return func(c *Container) { c.bounds = r }
}

// WithAnimator sets the animator used for settle transitions.
func WithAnimator(a Animator) Option {
	return func(c *Container) {
		if a != nil {
			c.anim = a
		}
	}
}

// WithPointer sets how the container resolves the drag coordinator.
func WithPointer(p pointer.Provider) Option {
	return func(c *Container) { c.provider = p }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
