package layout

import (
	"fmt"
	"math"
	"strings"
	"time"

	errs "github.com/matzehuels/reflow/pkg/errors"
)

// Axis is the primary direction items are appended along.
type Axis uint8

const (
	Horizontal Axis = iota // Items laid out left-to-right, rows stack downward
	Vertical               // Items laid out top-to-bottom, rows stack rightward
)

// Direction is the append direction along the axis. It is axis-relative:
// Backward mirrors the order inside each row, so index 0 sits at the far end
// of its row. Alignment stays screen-relative in both directions.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

// Align positions content inside the container along one screen axis.
type Align uint8

const (
	AlignStart  Align = iota // Left or top
	AlignCenter              // Centered
	AlignEnd                 // Right or bottom
)

// SwitchThreshold controls how far past an item the pointer must travel
// before the hovered slot advances beyond it.
type SwitchThreshold uint8

const (
	SwitchEnd    SwitchThreshold = iota // At the item's far edge
	SwitchMiddle                        // Half-way through the gap after the item
	SwitchStart                         // At the start of the next item
)

// None is the sentinel returned by index queries that have no answer, such as
// the hover slot of an empty or unhovered container.
const None = -1

// Default values match the container's historical defaults.
const (
	DefaultSpacing       = 5.0
	DefaultSortPrecision = 0.5
	DefaultTolerance     = 0.5
	DefaultAnimDuration  = 400 * time.Millisecond
)

// Config holds every layout and behaviour setting of a container. It is read
// on every layout pass and must not change while a pass is in use.
type Config struct {
	Axis      Axis
	Direction Direction
	HAlign    Align
	VAlign    Align

	// Spacing is the gap between adjacent items and between rows.
	Spacing float64
	// SpacingAtEnds also applies Spacing before the first and after the last
	// item of each row and around the block of rows.
	SpacingAtEnds bool
	// Wrap starts a new row when the next item would overflow the container.
	Wrap bool
	// UniformItemSize treats every item as having the reference size (see
	// [WithReference]), enabling closed-form position math.
	UniformItemSize bool

	SwitchThreshold SwitchThreshold
	// SortPrecision is the soft overflow factor used for row breaking: an item
	// still fits while the row stays within SortPrecision times its extent of
	// the container edge.
	SortPrecision float64
	// Tolerance is the distance below which an item counts as arrived.
	Tolerance float64
	// AnimDuration is the length of one settle transition.
	AnimDuration time.Duration

	// LowPerformance never interrupts an in-flight transition.
	LowPerformance bool
	// NoShifting disables live reordering while dragging; the dragged item
	// still takes the hovered slot when dropped.
	NoShifting bool
}

// DefaultConfig returns the configuration a new container starts with.
func DefaultConfig() Config {
	return Config{
		Axis:            Horizontal,
		Direction:       Forward,
		HAlign:          AlignStart,
		VAlign:          AlignStart,
		Spacing:         DefaultSpacing,
		Wrap:            true,
		SwitchThreshold: SwitchMiddle,
		SortPrecision:   DefaultSortPrecision,
		Tolerance:       DefaultTolerance,
		AnimDuration:    DefaultAnimDuration,
	}
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	switch {
	case c.Axis > Vertical:
		return errs.New(errs.ErrCodeInvalidConfig, "invalid axis %d", c.Axis)
	case c.Direction > Backward:
		return errs.New(errs.ErrCodeInvalidConfig, "invalid direction %d", c.Direction)
	case c.HAlign > AlignEnd || c.VAlign > AlignEnd:
		return errs.New(errs.ErrCodeInvalidConfig, "invalid alignment %d/%d", c.HAlign, c.VAlign)
	case c.SwitchThreshold > SwitchStart:
		return errs.New(errs.ErrCodeInvalidConfig, "invalid switch threshold %d", c.SwitchThreshold)
	case !finite(c.Spacing, c.SortPrecision, c.Tolerance):
		return errs.New(errs.ErrCodeInvalidConfig, "spacing, sort precision and tolerance must be finite")
	case c.Spacing < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "spacing must be >= 0, got %g", c.Spacing)
	case c.SortPrecision < 0 || c.SortPrecision > 1:
		return errs.New(errs.ErrCodeInvalidConfig, "sort precision must be within [0, 1], got %g", c.SortPrecision)
	case c.Tolerance < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "tolerance must be >= 0, got %g", c.Tolerance)
	case c.AnimDuration < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "animation duration must be >= 0, got %s", c.AnimDuration)
	}
	return nil
}

// finite reports whether no value is NaN or infinite.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// mainAlign returns the alignment applied along the axis.
func (c Config) mainAlign() Align {
	if c.Axis == Vertical {
		return c.VAlign
	}
	return c.HAlign
}

// crossAlign returns the alignment applied across the axis.
func (c Config) crossAlign() Align {
	if c.Axis == Vertical {
		return c.HAlign
	}
	return c.VAlign
}

// endSpacing is the spacing applied at each end of a row.
func (c Config) endSpacing() float64 {
	if c.SpacingAtEnds {
		return c.Spacing
	}
	return 0
}

// =============================================================================
// Text encoding
// =============================================================================

var (
	axisNames      = []string{"horizontal", "vertical"}
	directionNames = []string{"forward", "backward"}
	alignNames     = []string{"start", "center", "end"}
	switchNames    = []string{"end", "middle", "start"}
)

// aliases accepted when parsing, for configuration written with screen terms.
var alignAliases = map[string]Align{
	"left":   AlignStart,
	"top":    AlignStart,
	"middle": AlignCenter,
	"right":  AlignEnd,
	"bottom": AlignEnd,
}

func enumString(names []string, v uint8) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("unknown(%d)", v)
}

func parseEnum(kind string, names []string, s string) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return uint8(i), nil
		}
	}
	return 0, errs.New(errs.ErrCodeInvalidConfig, "invalid %s %q (must be one of: %s)", kind, s, strings.Join(names, ", "))
}

func (a Axis) String() string            { return enumString(axisNames, uint8(a)) }
func (d Direction) String() string       { return enumString(directionNames, uint8(d)) }
func (a Align) String() string           { return enumString(alignNames, uint8(a)) }
func (s SwitchThreshold) String() string { return enumString(switchNames, uint8(s)) }

// ParseAxis parses "horizontal" or "vertical".
func ParseAxis(s string) (Axis, error) {
	v, err := parseEnum("axis", axisNames, s)
	return Axis(v), err
}

// ParseDirection parses "forward" or "backward". The screen-relative names
// "right" and "left" are accepted as aliases and map to forward and backward
// along whatever axis is configured.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "down":
		return Forward, nil
	case "left", "up":
		return Backward, nil
	}
	v, err := parseEnum("direction", directionNames, s)
	return Direction(v), err
}

// ParseAlign parses "start", "center" or "end" (or left/top/right/bottom).
func ParseAlign(s string) (Align, error) {
	if a, ok := alignAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	v, err := parseEnum("alignment", alignNames, s)
	return Align(v), err
}

// ParseSwitchThreshold parses "end", "middle" or "start".
func ParseSwitchThreshold(s string) (SwitchThreshold, error) {
	v, err := parseEnum("switch threshold", switchNames, s)
	return SwitchThreshold(v), err
}

func (a Axis) MarshalText() ([]byte, error)            { return []byte(a.String()), nil }
func (d Direction) MarshalText() ([]byte, error)       { return []byte(d.String()), nil }
func (a Align) MarshalText() ([]byte, error)           { return []byte(a.String()), nil }
func (s SwitchThreshold) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (a *Axis) UnmarshalText(b []byte) (err error) {
	*a, err = ParseAxis(string(b))
	return err
}

func (d *Direction) UnmarshalText(b []byte) (err error) {
	*d, err = ParseDirection(string(b))
	return err
}

func (a *Align) UnmarshalText(b []byte) (err error) {
	*a, err = ParseAlign(string(b))
	return err
}

func (s *SwitchThreshold) UnmarshalText(b []byte) (err error) {
	*s, err = ParseSwitchThreshold(string(b))
	return err
}
