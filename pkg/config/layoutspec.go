package config

import (
	"github.com/matzehuels/reflow/pkg/layout"
)

// LayoutSpec holds layout settings as they appear in files and request
// bodies. Unset fields keep the defaults of layout.DefaultConfig.
type LayoutSpec struct {
	Axis            *layout.Axis            `toml:"axis" json:"axis,omitempty"`
	Direction       *layout.Direction       `toml:"direction" json:"direction,omitempty"`
	HAlign          *layout.Align           `toml:"h_align" json:"h_align,omitempty"`
	VAlign          *layout.Align           `toml:"v_align" json:"v_align,omitempty"`
	Spacing         *float64                `toml:"spacing" json:"spacing,omitempty"`
	SpacingAtEnds   *bool                   `toml:"spacing_at_ends" json:"spacing_at_ends,omitempty"`
	Wrap            *bool                   `toml:"wrap" json:"wrap,omitempty"`
	UniformItemSize *bool                   `toml:"uniform_item_size" json:"uniform_item_size,omitempty"`
	SwitchThreshold *layout.SwitchThreshold `toml:"switch_threshold" json:"switch_threshold,omitempty"`
	SortPrecision   *float64                `toml:"sort_precision" json:"sort_precision,omitempty"`
	Tolerance       *float64                `toml:"tolerance" json:"tolerance,omitempty"`
	AnimDuration    *Duration               `toml:"anim_duration" json:"anim_duration,omitempty"`
	LowPerformance  *bool                   `toml:"low_performance" json:"low_performance,omitempty"`
	NoShifting      *bool                   `toml:"no_shifting" json:"no_shifting,omitempty"`
}

// Config applies the overrides over the default configuration and validates
// the result.
func (s LayoutSpec) Config() (layout.Config, error) {
	cfg := layout.DefaultConfig()
	set(&cfg.Axis, s.Axis)
	set(&cfg.Direction, s.Direction)
	set(&cfg.HAlign, s.HAlign)
	set(&cfg.VAlign, s.VAlign)
	set(&cfg.Spacing, s.Spacing)
	set(&cfg.SpacingAtEnds, s.SpacingAtEnds)
	set(&cfg.Wrap, s.Wrap)
	set(&cfg.UniformItemSize, s.UniformItemSize)
	set(&cfg.SwitchThreshold, s.SwitchThreshold)
	set(&cfg.SortPrecision, s.SortPrecision)
	set(&cfg.Tolerance, s.Tolerance)
	set(&cfg.LowPerformance, s.LowPerformance)
	set(&cfg.NoShifting, s.NoShifting)
	if s.AnimDuration != nil {
		cfg.AnimDuration = s.AnimDuration.Std()
	}
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
