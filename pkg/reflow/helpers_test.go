package reflow

import (
	"time"

	"github.com/matzehuels/reflow/pkg/anim"
	"github.com/matzehuels/reflow/pkg/layout"
)

type countingAnimator struct {
	*anim.Tweener
	started int
}

func (a *countingAnimator) Interpolate(t anim.Target, from, to layout.Vec2, d time.Duration) {
	a.started++
	a.Tweener.Interpolate(t, from, to, d)
}

// fakeAnimator keeps transitions in flight until finish is called.
type fakeAnimator struct {
	inFlight map[anim.Target]layout.Vec2
	starts   map[anim.Target]int
	started  int
	stopped  int
}

func newFakeAnimator() *fakeAnimator {
	return &fakeAnimator{
		inFlight: make(map[anim.Target]layout.Vec2),
		starts:   make(map[anim.Target]int),
	}
}

func (f *fakeAnimator) Interpolate(t anim.Target, _, to layout.Vec2, _ time.Duration) {
	f.inFlight[t] = to
	f.starts[t]++
	f.started++
}

func (f *fakeAnimator) Stop(t anim.Target) {
	if _, ok := f.inFlight[t]; ok {
		delete(f.inFlight, t)
		f.stopped++
	}
}

func (f *fakeAnimator) InFlight(t anim.Target) bool {
	_, ok := f.inFlight[t]
	return ok
}

func (f *fakeAnimator) startedFor(t anim.Target) int { return f.starts[t] }

func (f *fakeAnimator) reset() {
	f.started, f.stopped = 0, 0
	clear(f.starts)
}

// finish lands every transition on its destination.
func (f *fakeAnimator) finish() {
	for t, to := range f.inFlight {
		t.SetPosition(to)
	}
	clear(f.inFlight)
}
