package layout

import (
	"testing"
	"time"

	errs "github.com/matzehuels/reflow/pkg/errors"
)

func TestPropertiesRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	for _, p := range Properties() {
		v, err := cfg.Get(p.Name)
		if err != nil {
			t.Fatalf("Get(%s) error: %v", p.Name, err)
		}
		if err := cfg.Set(p.Name, v); err != nil {
			t.Errorf("Set(%s, %v) error: %v", p.Name, v, err)
		}
	}
	if cfg != DefaultConfig() {
		t.Errorf("config changed after round trip: %+v", cfg)
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		name  string
		prop  string
		value any
		check func(Config) bool
	}{
		{"enum by name", PropAxis, "vertical", func(c Config) bool { return c.Axis == Vertical }},
		{"enum by ordinal", PropSwitchThreshold, 2, func(c Config) bool { return c.SwitchThreshold == SwitchStart }},
		{"enum from json number", PropHAlign, float64(1), func(c Config) bool { return c.HAlign == AlignCenter }},
		{"float from string", PropSpacing, "12.5", func(c Config) bool { return c.Spacing == 12.5 }},
		{"bool from string", PropWrap, "false", func(c Config) bool { return !c.Wrap }},
		{"duration string", PropAnimDuration, "250ms", func(c Config) bool { return c.AnimDuration == 250*time.Millisecond }},
		{"duration seconds", PropAnimDuration, 0.1, func(c Config) bool { return c.AnimDuration == 100*time.Millisecond }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.Set(tt.prop, tt.value); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("Set(%s, %v) produced %+v", tt.prop, tt.value, cfg)
			}
		})
	}
}

func TestConfigSetErrors(t *testing.T) {
	tests := []struct {
		name  string
		prop  string
		value any
		code  errs.Code
	}{
		{"unknown", "layout/columns", 3, errs.ErrCodeUnknownProperty},
		{"bad enum", PropDirection, "sideways", errs.ErrCodeInvalidProperty},
		{"bad type", PropWrap, 3.5, errs.ErrCodeInvalidProperty},
		{"fails validation", PropSortPrecision, 2.0, errs.ErrCodeInvalidProperty},
		{"NaN spacing", PropSpacing, "NaN", errs.ErrCodeInvalidProperty},
		{"infinite spacing", PropSpacing, "Inf", errs.ErrCodeInvalidProperty},
		{"infinite tolerance", PropTolerance, "-Inf", errs.ErrCodeInvalidProperty},
		{"enum index wraps", PropAxis, 256, errs.ErrCodeInvalidProperty},
		{"enum index past names", PropAxis, 2, errs.ErrCodeInvalidProperty},
		{"negative enum index", PropHAlign, -1, errs.ErrCodeInvalidProperty},
		{"fractional enum index", PropSwitchThreshold, 1.5, errs.ErrCodeInvalidProperty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.prop, tt.value)
			if !errs.Is(err, tt.code) {
				t.Fatalf("Set() error = %v, want code %v", err, tt.code)
			}
			if cfg != DefaultConfig() {
				t.Errorf("config modified on error: %+v", cfg)
			}
		})
	}
}

func TestGetUnknownProperty(t *testing.T) {
	_, err := DefaultConfig().Get("nope")
	if !errs.Is(err, errs.ErrCodeUnknownProperty) {
		t.Errorf("Get() error = %v", err)
	}
	if _, ok := LookupProperty(PropTolerance); !ok {
		t.Error("LookupProperty(tolerance) not found")
	}
}
