package reflow

import (
	"time"

	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/observability"
)

// goalEpsilon is how close a running transition's destination must be to the
// target for the transition to be left alone.
const goalEpsilon = 1e-6

// Update advances the container by one frame:
//
//  1. resolve the pointer coordinator if that has not succeeded yet
//  2. while dragging, move the dragged item to the hovered slot
//  3. when dirty, either clear the flag (settled) or issue transitions toward
//     the targets for every item that is off target
//
// Update never advances the animator; the host does.
func (c *Container) Update(dt time.Duration) {
	c.connect()

	if c.dragged != nil && !c.cfg.NoShifting {
		if slot := c.HoverIndex(); slot != layout.None && slot != c.dragged.index {
			c.Move(c.dragged, slot)
		}
	}

	if !c.dirty {
		return
	}
	c.disturbed += dt

	p := c.Pass()
	if c.IsSortDone() && !c.stale(p) {
		c.dirty = false
		c.logger.Debug("settled", "items", len(c.items), "elapsed", c.disturbed)
		observability.Reflow().OnSettle(c.name, len(c.items), c.disturbed)
		return
	}
	if started := c.sortAll(p); started > 0 {
		observability.Reflow().OnAnimate(c.name, started)
	}
}

// stale reports whether some running transition is headed somewhere other
// than its item's current target. Such an item can pass through its target
// while the arrangement looks settled.
func (c *Container) stale(p *layout.Pass) bool {
	for _, it := range c.items {
		if it.dragged || !c.anim.InFlight(it) {
			continue
		}
		if !it.hasGoal || !it.goal.Near(p.Target(it.index), goalEpsilon) {
			return true
		}
	}
	return false
}

// sortAll issues transitions toward the targets and returns how many it
// started. A running transition already headed for the target is left alone.
// In low performance mode a running transition is never interrupted; the item
// is corrected once it has finished.
func (c *Container) sortAll(p *layout.Pass) int {
	started := 0
	for _, it := range c.items {
		if it.dragged {
			continue
		}
		target := p.Target(it.index)
		inFlight := c.anim.InFlight(it)
		if inFlight {
			if it.hasGoal && it.goal.Near(target, goalEpsilon) {
				continue
			}
			if c.cfg.LowPerformance {
				continue
			}
			c.anim.Stop(it)
		} else if it.pos.Near(target, c.cfg.Tolerance) {
			continue
		}
		it.goal = target
		it.hasGoal = true
		c.anim.Interpolate(it, it.pos, target, c.cfg.AnimDuration)
		started++
	}
	return started
}
