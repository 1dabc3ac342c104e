package layout

import (
	"math"
	"strconv"
	"strings"
	"time"

	errs "github.com/matzehuels/reflow/pkg/errors"
)

// Property names exposed to editor tooling, grouped as layout, behaviour
// and optimizations.
const (
	PropAxis            = "layout/organizing_mode"
	PropDirection       = "layout/sort_direction"
	PropHAlign          = "layout/horizontal_alignment"
	PropVAlign          = "layout/vertical_alignment"
	PropSpacing         = "layout/separation"
	PropSpacingAtEnds   = "layout/separation_on_ends"
	PropWrap            = "layout/wrap"
	PropSwitchThreshold = "behaviour/switch_threshold"
	PropSortPrecision   = "behaviour/sort_precision"
	PropAnimDuration    = "behaviour/sort_animation_duration"
	PropTolerance       = "behaviour/tolerance"
	PropUniformSize     = "optimizations/regular_sized_children"
	PropLowPerformance  = "optimizations/low_performance_mode"
	PropNoShifting      = "optimizations/disable_shifting"
)

// PropertyType describes the value kind of a property.
type PropertyType string

const (
	TypeEnum     PropertyType = "enum"
	TypeBool     PropertyType = "bool"
	TypeFloat    PropertyType = "float"
	TypeDuration PropertyType = "duration"
)

// PropertyInfo describes one named configuration field.
type PropertyInfo struct {
	Name string       `json:"name"`
	Type PropertyType `json:"type"`
	// Hint lists the accepted names of an enum property.
	Hint string `json:"hint,omitempty"`
	// Layout reports whether changing the property moves items.
	Layout bool `json:"layout"`
}

var properties = []PropertyInfo{
	{Name: PropAxis, Type: TypeEnum, Hint: strings.Join(axisNames, ","), Layout: true},
	{Name: PropDirection, Type: TypeEnum, Hint: strings.Join(directionNames, ","), Layout: true},
	{Name: PropHAlign, Type: TypeEnum, Hint: strings.Join(alignNames, ","), Layout: true},
	{Name: PropVAlign, Type: TypeEnum, Hint: strings.Join(alignNames, ","), Layout: true},
	{Name: PropSpacing, Type: TypeFloat, Layout: true},
	{Name: PropSpacingAtEnds, Type: TypeBool, Layout: true},
	{Name: PropWrap, Type: TypeBool, Layout: true},
	{Name: PropSwitchThreshold, Type: TypeEnum, Hint: strings.Join(switchNames, ",")},
	{Name: PropSortPrecision, Type: TypeFloat, Layout: true},
	{Name: PropAnimDuration, Type: TypeDuration},
	{Name: PropTolerance, Type: TypeFloat},
	{Name: PropUniformSize, Type: TypeBool, Layout: true},
	{Name: PropLowPerformance, Type: TypeBool},
	{Name: PropNoShifting, Type: TypeBool},
}

// Properties returns the descriptions of every named property, in inspector
// order.
func Properties() []PropertyInfo {
	out := make([]PropertyInfo, len(properties))
	copy(out, properties)
	return out
}

// LookupProperty returns the description of the named property.
func LookupProperty(name string) (PropertyInfo, bool) {
	for _, p := range properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertyInfo{}, false
}

// Get returns the value of the named property. Enums are returned as their
// typed value, durations as time.Duration.
func (c Config) Get(name string) (any, error) {
	switch name {
	case PropAxis:
		return c.Axis, nil
	case PropDirection:
		return c.Direction, nil
	case PropHAlign:
		return c.HAlign, nil
	case PropVAlign:
		return c.VAlign, nil
	case PropSpacing:
		return c.Spacing, nil
	case PropSpacingAtEnds:
		return c.SpacingAtEnds, nil
	case PropWrap:
		return c.Wrap, nil
	case PropSwitchThreshold:
		return c.SwitchThreshold, nil
	case PropSortPrecision:
		return c.SortPrecision, nil
	case PropAnimDuration:
		return c.AnimDuration, nil
	case PropTolerance:
		return c.Tolerance, nil
	case PropUniformSize:
		return c.UniformItemSize, nil
	case PropLowPerformance:
		return c.LowPerformance, nil
	case PropNoShifting:
		return c.NoShifting, nil
	}
	return nil, errs.New(errs.ErrCodeUnknownProperty, "unknown property %q", name)
}

// Set assigns the named property. Values may be given in their typed form or
// in the loose forms an inspector or a JSON body produces: enum names or
// ordinals, "true"/"false", numbers as strings, and durations as strings
// ("250ms") or float seconds. The resulting configuration is validated; on
// error c is left unchanged.
func (c *Config) Set(name string, value any) error {
	next := *c
	var err error
	switch name {
	case PropAxis:
		next.Axis, err = enumValue(value, ParseAxis)
	case PropDirection:
		next.Direction, err = enumValue(value, ParseDirection)
	case PropHAlign:
		next.HAlign, err = enumValue(value, ParseAlign)
	case PropVAlign:
		next.VAlign, err = enumValue(value, ParseAlign)
	case PropSpacing:
		next.Spacing, err = floatValue(value)
	case PropSpacingAtEnds:
		next.SpacingAtEnds, err = boolValue(value)
	case PropWrap:
		next.Wrap, err = boolValue(value)
	case PropSwitchThreshold:
		next.SwitchThreshold, err = enumValue(value, ParseSwitchThreshold)
	case PropSortPrecision:
		next.SortPrecision, err = floatValue(value)
	case PropAnimDuration:
		next.AnimDuration, err = durationValue(value)
	case PropTolerance:
		next.Tolerance, err = floatValue(value)
	case PropUniformSize:
		next.UniformItemSize, err = boolValue(value)
	case PropLowPerformance:
		next.LowPerformance, err = boolValue(value)
	case PropNoShifting:
		next.NoShifting, err = boolValue(value)
	default:
		return errs.New(errs.ErrCodeUnknownProperty, "unknown property %q", name)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidProperty, err, "set %s", name)
	}
	if err := next.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidProperty, err, "set %s", name)
	}
	*c = next
	return nil
}

type enum interface {
	~uint8
}

func enumValue[E enum](v any, parse func(string) (E, error)) (E, error) {
	switch x := v.(type) {
	case E:
		return x, nil
	case string:
		return parse(x)
	case int:
		return enumIndex[E](int64(x))
	case int64:
		return enumIndex[E](x)
	case float64:
		if x != math.Trunc(x) {
			return 0, errs.New(errs.ErrCodeInvalidProperty, "enum index %g is not an integer", x)
		}
		return enumIndex[E](int64(x))
	}
	return 0, errs.New(errs.ErrCodeInvalidProperty, "unsupported value %v (%T)", v, v)
}

// enumIndex converts n without wrapping; Validate rejects indices past the
// last name.
func enumIndex[E enum](n int64) (E, error) {
	if n < 0 || n > math.MaxUint8 {
		return 0, errs.New(errs.ErrCodeInvalidProperty, "enum index %d out of range", n)
	}
	return E(n), nil
}

func floatValue(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, err
		}
		return f, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidProperty, "unsupported value %v (%T)", v, v)
}

func boolValue(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(x))
	}
	return false, errs.New(errs.ErrCodeInvalidProperty, "unsupported value %v (%T)", v, v)
}

func durationValue(v any) (time.Duration, error) {
	switch x := v.(type) {
	case time.Duration:
		return x, nil
	case float64:
		return time.Duration(x * float64(time.Second)), nil
	case int:
		return time.Duration(x) * time.Second, nil
	case int64:
		return time.Duration(x) * time.Second, nil
	case string:
		return time.ParseDuration(strings.TrimSpace(x))
	}
	return 0, errs.New(errs.ErrCodeInvalidProperty, "unsupported value %v (%T)", v, v)
}
