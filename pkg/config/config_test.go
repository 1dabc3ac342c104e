package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	errs "github.com/matzehuels/reflow/pkg/errors"
	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/scene"
)

const rowScene = `
name = "demo"

[[container]]
name = "row"
x = 10
y = 20
width = 300
height = 50

  [container.layout]
  spacing = 10
  wrap = false
  h_align = "left"
  switch_threshold = "middle"
  anim_duration = "100ms"

  [[container.item]]
  label = "a"
  width = 50
  height = 50

  [[container.item]]
  label = "b"
  width = 50
  height = 50

  [[container.item]]
  label = "c"
  width = 50
  height = 50

  [[container.item]]
  id = "fixed-id"
  label = "d"
  width = 50
  height = 50

  [[container.item]]
  label = "e"
  width = 50
  height = 50

  [[container.fixed]]
  label = "caption"
`

func TestReadScene(t *testing.T) {
	s, err := ReadScene(strings.NewReader(rowScene))
	if err != nil {
		t.Fatalf("ReadScene() error: %v", err)
	}
	if s.Name != "demo" || len(s.Containers) != 1 {
		t.Fatalf("unexpected scene: %+v", s)
	}
	c := s.Containers[0]
	if len(c.Items) != 5 || len(c.Fixed) != 1 {
		t.Errorf("items=%d fixed=%d", len(c.Items), len(c.Fixed))
	}

	cfg, err := c.Layout.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Spacing != 10 || cfg.Wrap || cfg.AnimDuration != 100*time.Millisecond {
		t.Errorf("layout = %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.SortPrecision != layout.DefaultSortPrecision || cfg.VAlign != layout.AlignStart {
		t.Errorf("defaults not kept: %+v", cfg)
	}
	if got := s.Extent(); got != (layout.Size{W: 310, H: 70}) {
		t.Errorf("Extent() = %v", got)
	}
}

func TestReadSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"empty", `name = "x"`},
		{"unknown key", "[[container]]\nname = \"a\"\nwidth = 1\nheight = 1\ncolour = \"red\""},
		{"missing name", "[[container]]\nwidth = 1\nheight = 1"},
		{"no size", "[[container]]\nname = \"a\""},
		{"duplicate", "[[container]]\nname = \"a\"\nwidth = 1\nheight = 1\n[[container]]\nname = \"a\"\nwidth = 1\nheight = 1"},
		{"bad enum", "[[container]]\nname = \"a\"\nwidth = 1\nheight = 1\n[container.layout]\naxis = \"diagonal\""},
		{"bad precision", "[[container]]\nname = \"a\"\nwidth = 1\nheight = 1\n[container.layout]\nsort_precision = 4.0"},
		{"NaN spacing", "[[container]]\nname = \"a\"\nwidth = 1\nheight = 1\n[container.layout]\nspacing = nan"},
		{"infinite tolerance", "[[container]]\nname = \"a\"\nwidth = 1\nheight = 1\n[container.layout]\ntolerance = inf"},
		{"infinite width", "[[container]]\nname = \"a\"\nwidth = inf\nheight = 1"},
		{"NaN item", "[[container]]\nname = \"a\"\nwidth = 1\nheight = 1\n[[container.item]]\nlabel = \"x\"\nwidth = nan\nheight = 1"},
		{"bad ease", "ease = \"bounce\"\n[[container]]\nname = \"a\"\nwidth = 1\nheight = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadScene(strings.NewReader(tt.toml))
			if !errs.Is(err, errs.ErrCodeInvalidScene) {
				t.Errorf("ReadScene() error = %v, want INVALID_SCENE", err)
			}
		})
	}
}

func TestLoadSceneMissingFile(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "nope.toml"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("LoadScene() error = %v", err)
	}
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte(rowScene), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScene(path); err != nil {
		t.Errorf("LoadScene() error: %v", err)
	}
}

func TestBuildScene(t *testing.T) {
	s, err := ReadScene(strings.NewReader(rowScene))
	if err != nil {
		t.Fatal(err)
	}
	host, err := s.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := host.Container("row")
	if !ok {
		t.Fatal("container row missing")
	}
	if len(c.Items()) != 5 || !c.HasNonOrganizableChildren() {
		t.Errorf("items=%d warning=%q", len(c.Items()), c.Warning())
	}
	if c.Items()[3].ID != "fixed-id" || c.Items()[0].ID == "" {
		t.Error("item IDs not applied")
	}
	if c.Bounds() != (layout.Rect{X: 10, Y: 20, W: 300, H: 50}) {
		t.Errorf("Bounds() = %v", c.Bounds())
	}
}

const dragScript = `
step = "16ms"

[[event]]
kind = "settle"

[[event]]
kind = "press"
x = 195
y = 25

[[event]]
kind = "move"
x = 125
y = 25
steps = 4

[[event]]
kind = "release"

[[event]]
kind = "settle"

[[event]]
kind = "set"
container = "row"
property = "layout/separation"
value = 20

[[event]]
kind = "wait"
duration = "48ms"

[[event]]
kind = "settle"
`

func TestScriptRun(t *testing.T) {
	sc, err := ReadScene(strings.NewReader(rowScene))
	if err != nil {
		t.Fatal(err)
	}
	host, err := sc.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	script, err := ReadScript(strings.NewReader(dragScript))
	if err != nil {
		t.Fatalf("ReadScript() error: %v", err)
	}

	ticks := 0
	res, err := script.Run(host, func(*scene.Scene) { ticks++ })
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Settled || len(res.Settles) != 3 {
		t.Errorf("result = %+v", res)
	}
	if res.Frames != ticks || res.Elapsed != time.Duration(ticks)*16*time.Millisecond {
		t.Errorf("frames=%d elapsed=%s ticks=%d", res.Frames, res.Elapsed, ticks)
	}

	c, _ := host.Container("row")
	var order string
	for _, it := range c.Items() {
		order += it.Label
	}
	if order != "adbce" {
		t.Errorf("order = %s, want adbce", order)
	}
	if got := c.Items()[1].Pos(); got != (layout.Vec2{X: 70, Y: 0}) {
		t.Errorf("item d at %v, want {70 0}", got)
	}
}

func TestReadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		code errs.Code
	}{
		{"unknown kind", "[[event]]\nkind = \"jump\"", errs.ErrCodeInvalidScript},
		{"wait without duration", "[[event]]\nkind = \"wait\"", errs.ErrCodeInvalidScript},
		{"set without container", "[[event]]\nkind = \"set\"\nproperty = \"layout/wrap\"", errs.ErrCodeInvalidScript},
		{"unknown property", "[[event]]\nkind = \"set\"\ncontainer = \"row\"\nproperty = \"layout/columns\"", errs.ErrCodeUnknownProperty},
		{"unknown key", "[[event]]\nkind = \"press\"\nbutton = 2", errs.ErrCodeInvalidScript},
		{"bad duration", "step = \"soon\"", errs.ErrCodeInvalidScript},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadScript(strings.NewReader(tt.toml))
			if !errs.Is(err, tt.code) {
				t.Errorf("ReadScript() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDurationJSON(t *testing.T) {
	var spec LayoutSpec
	if err := json.Unmarshal([]byte(`{"anim_duration": 0.25, "axis": "vertical"}`), &spec); err != nil {
		t.Fatal(err)
	}
	cfg, err := spec.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AnimDuration != 250*time.Millisecond || cfg.Axis != layout.Vertical {
		t.Errorf("config = %+v", cfg)
	}

	if err := json.Unmarshal([]byte(`{"anim_duration": "-1s"}`), &spec); err == nil {
		t.Error("negative duration should fail")
	}
}
