package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/reflow/pkg/errors"
	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/scene"
)

// Event kinds understood by a script.
const (
	EventPress   = "press"   // Press the button at (x, y)
	EventMove    = "move"    // Move to (x, y), optionally over several frames
	EventRelease = "release" // Release the button where the pointer is
	EventWait    = "wait"    // Tick for a duration
	EventSettle  = "settle"  // Tick until the scene settles
	EventSet     = "set"     // Set a container property
)

// DefaultStep is the frame step used when a script does not set one.
const DefaultStep = 16 * time.Millisecond

// DefaultSettleLimit bounds the ticks a settle event may run.
const DefaultSettleLimit = 1000

// Script is the decoded form of a script file.
type Script struct {
	Step        Duration `toml:"step" json:"step,omitempty"`
	SettleLimit int      `toml:"settle_limit" json:"settle_limit,omitempty"`
	Events      []Event  `toml:"event" json:"events"`
}

// Event is one scripted action.
type Event struct {
	Kind string  `toml:"kind" json:"kind"`
	X    float64 `toml:"x" json:"x,omitempty"`
	Y    float64 `toml:"y" json:"y,omitempty"`
	// Steps spreads a move over several frames, one tick per step.
	Steps    int      `toml:"steps" json:"steps,omitempty"`
	Duration Duration `toml:"duration" json:"duration,omitempty"`

	Container string `toml:"container" json:"container,omitempty"`
	Property  string `toml:"property" json:"property,omitempty"`
	Value     any    `toml:"value" json:"value,omitempty"`
}

// ReadScript decodes a TOML script from r and validates it.
func ReadScript(r io.Reader) (*Script, error) {
	var s Script
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScript, err, "decode script")
	}
	if err := undecoded(md, errs.ErrCodeInvalidScript); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads the script file at path.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "script %s", path)
		}
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	s, err := ReadScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks every event's kind and arguments.
func (s *Script) Validate() error {
	if s.SettleLimit < 0 {
		return errs.New(errs.ErrCodeInvalidScript, "settle_limit must be >= 0")
	}
	for i, e := range s.Events {
		switch e.Kind {
		case EventPress, EventRelease, EventSettle:
		case EventMove:
			if e.Steps < 0 {
				return errs.New(errs.ErrCodeInvalidScript, "event %d: steps must be >= 0", i)
			}
		case EventWait:
			if e.Duration <= 0 {
				return errs.New(errs.ErrCodeInvalidScript, "event %d: wait needs a positive duration", i)
			}
		case EventSet:
			if e.Container == "" || e.Property == "" {
				return errs.New(errs.ErrCodeInvalidScript, "event %d: set needs container and property", i)
			}
			if _, ok := layout.LookupProperty(e.Property); !ok {
				return errs.New(errs.ErrCodeUnknownProperty, "event %d: unknown property %q", i, e.Property)
			}
		default:
			return errs.New(errs.ErrCodeInvalidScript, "event %d: unknown kind %q", i, e.Kind)
		}
	}
	return nil
}

func (s *Script) step() time.Duration {
	if s.Step > 0 {
		return s.Step.Std()
	}
	return DefaultStep
}

func (s *Script) settleLimit() int {
	if s.SettleLimit > 0 {
		return s.SettleLimit
	}
	return DefaultSettleLimit
}

// Result summarizes a script run.
type Result struct {
	Frames  int           // Ticks run
	Elapsed time.Duration // Time ticked
	// Settles holds the number of ticks each settle event needed.
	Settles []int
	Settled bool // Whether the scene was settled when the script ended
}

// Observer is called after every tick of a script run.
type Observer func(s *scene.Scene)

// Run plays the script against host. Every press, move and release is
// followed by one tick. A settle event that hits the limit is an error.
func (s *Script) Run(host *scene.Scene, observe Observer) (Result, error) {
	var res Result
	step := s.step()
	tick := func() {
		host.Tick(step)
		if observe != nil {
			observe(host)
		}
	}

	for i, e := range s.Events {
		switch e.Kind {
		case EventPress:
			host.PointerDown(layout.Vec2{X: e.X, Y: e.Y})
			tick()
		case EventMove:
			from := host.Pointer()
			to := layout.Vec2{X: e.X, Y: e.Y}
			n := max(e.Steps, 1)
			for k := 1; k <= n; k++ {
				f := float64(k) / float64(n)
				host.PointerMove(layout.Vec2{
					X: from.X + (to.X-from.X)*f,
					Y: from.Y + (to.Y-from.Y)*f,
				})
				tick()
			}
		case EventRelease:
			host.PointerUp(host.Pointer())
			tick()
		case EventWait:
			for d := time.Duration(0); d < e.Duration.Std(); d += step {
				tick()
			}
		case EventSettle:
			n := 0
			for !host.Settled() {
				if n >= s.settleLimit() {
					return res, errs.New(errs.ErrCodeInternal, "event %d: scene did not settle within %d ticks", i, n)
				}
				tick()
				n++
			}
			res.Settles = append(res.Settles, n)
		case EventSet:
			c, ok := host.Container(e.Container)
			if !ok {
				return res, errs.New(errs.ErrCodeNotFound, "event %d: unknown container %q", i, e.Container)
			}
			if err := c.Set(e.Property, e.Value); err != nil {
				return res, fmt.Errorf("event %d: %w", i, err)
			}
		}
		res.Frames = host.Frame()
		res.Elapsed = host.Elapsed()
	}
	res.Frames = host.Frame()
	res.Elapsed = host.Elapsed()
	res.Settled = host.Settled()
	return res, nil
}
