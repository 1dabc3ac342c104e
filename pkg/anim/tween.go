// Package anim interpolates item positions over time.
//
// A [Tweener] holds at most one transition per target. The host advances all
// transitions by calling [Tweener.Advance] once per frame; the tweener never
// starts goroutines or timers of its own.
//
//	tw := anim.New()
//	tw.Interpolate(item, item.Pos(), target, 400*time.Millisecond)
//	for tw.Active() > 0 {
//	    tw.Advance(16 * time.Millisecond)
//	}
package anim

import (
	"time"

	"github.com/matzehuels/reflow/pkg/layout"
)

// Target is anything whose position can be animated.
type Target interface {
	SetPosition(layout.Vec2)
}

type tween struct {
	target   Target
	from, to layout.Vec2
	duration time.Duration
	elapsed  time.Duration
	ease     Ease
}

// Option configures a Tweener.
type Option func(*Tweener)

// WithEase sets the easing applied to new transitions.
func WithEase(e Ease) Option {
	return func(t *Tweener) {
		if e != nil {
			t.ease = e
		}
	}
}

// Tweener runs position transitions. It is not safe for concurrent use; call
// it from the host's frame loop.
type Tweener struct {
	ease   Ease
	tweens []*tween
	byKey  map[Target]*tween
}

// New returns an empty Tweener using cubic ease-out.
func New(opts ...Option) *Tweener {
	t := &Tweener{
		ease:  EaseOutCubic,
		byKey: make(map[Target]*tween),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Interpolate moves target from one position to another over d, replacing
// any transition already running on it. A non-positive duration places the
// target immediately.
func (t *Tweener) Interpolate(target Target, from, to layout.Vec2, d time.Duration) {
	t.Stop(target)
	if d <= 0 {
		target.SetPosition(to)
		return
	}
	tw := &tween{target: target, from: from, to: to, duration: d, ease: t.ease}
	t.tweens = append(t.tweens, tw)
	t.byKey[target] = tw
	target.SetPosition(from)
}

// Stop halts the transition on target, leaving it where it is.
func (t *Tweener) Stop(target Target) {
	tw, ok := t.byKey[target]
	if !ok {
		return
	}
	delete(t.byKey, target)
	for i, cur := range t.tweens {
		if cur == tw {
			t.tweens = append(t.tweens[:i], t.tweens[i+1:]...)
			break
		}
	}
}

// StopAll halts every transition.
func (t *Tweener) StopAll() {
	t.tweens = nil
	clear(t.byKey)
}

// InFlight reports whether target has a running transition.
func (t *Tweener) InFlight(target Target) bool {
	_, ok := t.byKey[target]
	return ok
}

// Destination returns where target's running transition ends.
func (t *Tweener) Destination(target Target) (layout.Vec2, bool) {
	tw, ok := t.byKey[target]
	if !ok {
		return layout.Vec2{}, false
	}
	return tw.to, true
}

// Active returns the number of running transitions.
func (t *Tweener) Active() int { return len(t.tweens) }

// Advance moves every transition forward by dt and applies the eased
// positions in the order the transitions were started. Finished transitions
// land exactly on their destination and are removed.
func (t *Tweener) Advance(dt time.Duration) {
	if dt <= 0 || len(t.tweens) == 0 {
		return
	}
	live := t.tweens[:0]
	for _, tw := range t.tweens {
		tw.elapsed += dt
		if tw.elapsed >= tw.duration {
			tw.target.SetPosition(tw.to)
			delete(t.byKey, tw.target)
			continue
		}
		k := tw.ease(float64(tw.elapsed) / float64(tw.duration))
		tw.target.SetPosition(layout.Vec2{
			X: tw.from.X + (tw.to.X-tw.from.X)*k,
			Y: tw.from.Y + (tw.to.Y-tw.from.Y)*k,
		})
		live = append(live, tw)
	}
	clear(t.tweens[len(live):])
	t.tweens = live
}
