package anim

import "math"

// Ease maps linear progress in [0, 1] to eased progress. An Ease must return 0
// for 0 and 1 for 1.
type Ease func(t float64) float64

// Linear applies no easing.
func Linear(t float64) float64 { return t }

// EaseOutQuad decelerates toward the end.
func EaseOutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }

// EaseOutCubic decelerates toward the end more sharply than EaseOutQuad. It is
// the default easing of a [Tweener].
func EaseOutCubic(t float64) float64 { return 1 - math.Pow(1-t, 3) }

// EaseInOutCubic accelerates through the first half and decelerates through
// the second.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// ParseEase returns the easing function with the given name.
func ParseEase(name string) (Ease, bool) {
	switch name {
	case "linear":
		return Linear, true
	case "out-quad":
		return EaseOutQuad, true
	case "", "out-cubic":
		return EaseOutCubic, true
	case "in-out-cubic":
		return EaseInOutCubic, true
	}
	return nil, false
}
