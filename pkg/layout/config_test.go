package layout

import (
	"math"
	"testing"
	"time"

	errs "github.com/matzehuels/reflow/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Spacing != 5 || cfg.SortPrecision != 0.5 || cfg.AnimDuration != 400*time.Millisecond {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Wrap || cfg.SwitchThreshold != SwitchMiddle {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative spacing", func(c *Config) { c.Spacing = -1 }},
		{"precision above one", func(c *Config) { c.SortPrecision = 1.5 }},
		{"negative precision", func(c *Config) { c.SortPrecision = -0.1 }},
		{"negative tolerance", func(c *Config) { c.Tolerance = -1 }},
		{"negative duration", func(c *Config) { c.AnimDuration = -time.Second }},
		{"bad axis", func(c *Config) { c.Axis = 7 }},
		{"bad alignment", func(c *Config) { c.VAlign = 9 }},
		{"NaN spacing", func(c *Config) { c.Spacing = math.NaN() }},
		{"infinite spacing", func(c *Config) { c.Spacing = math.Inf(1) }},
		{"NaN precision", func(c *Config) { c.SortPrecision = math.NaN() }},
		{"NaN tolerance", func(c *Config) { c.Tolerance = math.NaN() }},
		{"infinite tolerance", func(c *Config) { c.Tolerance = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("GetCode() = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if a, err := ParseAxis(" Vertical "); err != nil || a != Vertical {
		t.Errorf("ParseAxis() = %v, %v", a, err)
	}
	if _, err := ParseAxis("diagonal"); err == nil {
		t.Error("ParseAxis(diagonal) should fail")
	}

	dirs := map[string]Direction{"forward": Forward, "backward": Backward, "left": Backward, "down": Forward}
	for in, want := range dirs {
		if got, err := ParseDirection(in); err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	aligns := map[string]Align{"start": AlignStart, "top": AlignStart, "middle": AlignCenter, "right": AlignEnd, "END": AlignEnd}
	for in, want := range aligns {
		if got, err := ParseAlign(in); err != nil || got != want {
			t.Errorf("ParseAlign(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if s, err := ParseSwitchThreshold("start"); err != nil || s != SwitchStart {
		t.Errorf("ParseSwitchThreshold() = %v, %v", s, err)
	}
}

func TestEnumText(t *testing.T) {
	b, err := SwitchMiddle.MarshalText()
	if err != nil || string(b) != "middle" {
		t.Errorf("MarshalText() = %q, %v", b, err)
	}

	var a Align
	if err := a.UnmarshalText([]byte("center")); err != nil || a != AlignCenter {
		t.Errorf("UnmarshalText() = %v, %v", a, err)
	}
	if got := Axis(9).String(); got != "unknown(9)" {
		t.Errorf("String() = %q", got)
	}
}
