// Package pipeline runs the parse → settle → render path shared by the CLI
// and the preview server.
//
// # Stages
//
//  1. Parse: decode a TOML or JSON scene into a [config.Scene]
//  2. Layout: build the scene, tick it until settled (or for a fixed number
//     of ticks) and capture a [snapshot.Frame]
//  3. Render: draw the frame in every requested view and format
//
// Each stage can be called on its own. A [Runner] chains them and caches the
// layout snapshot and every rendered artifact by scene content:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, spec, pipeline.Options{
//	    Views:   []string{pipeline.ViewFrame},
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	    Targets: true,
//	})
//	svg := result.Artifacts[pipeline.Artifact{View: "frame", Format: "svg"}]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reflow/pkg/cache"
	errs "github.com/matzehuels/reflow/pkg/errors"
	"github.com/matzehuels/reflow/pkg/render"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultStep is the simulated frame interval.
	DefaultStep = 16 * time.Millisecond

	// DefaultSettleTicks bounds how long a scene may take to settle.
	DefaultSettleTicks = 2000

	// MaxTicks is the largest fixed tick count a request may ask for.
	MaxTicks = 10000

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultStyle is the frame view's visual style.
	DefaultStyle = render.StyleSimple
)

// Views.
const (
	ViewFrame = "frame" // containers and items at their positions
	ViewTree  = "tree"  // scene hierarchy drawn by Graphviz
)

// Formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidViews is the set of supported views.
var ValidViews = map[string]bool{
	ViewFrame: true,
	ViewTree:  true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Layout options
	Ticks int `json:"ticks,omitempty"` // run exactly this many ticks; 0 settles

	// Render options
	Views    []string `json:"views,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Targets  bool     `json:"targets,omitempty"`
	Rows     bool     `json:"rows,omitempty"`
	Names    bool     `json:"names,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Refresh ignores cached entries and overwrites them.
	Refresh bool `json:"-"`

	Logger *log.Logger `json:"-"`
}

// Artifact names one rendered output.
type Artifact struct {
	View   string
	Format string
}

func (a Artifact) String() string { return a.View + "/" + a.Format }

// Result holds the outputs of a pipeline run.
type Result struct {
	// SceneHash is the content hash the cache keys are derived from.
	SceneHash string

	// Frame is the captured snapshot. It is zero when every artifact came
	// from the cache and the scene was never built.
	Frame snapshot.Frame

	// Built reports whether Frame is set.
	Built bool

	Artifacts map[Artifact][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing information.
type Stats struct {
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	LayoutHit  bool
	RenderHits int
}

// AllCached reports whether every artifact came from the cache.
func (r *Result) AllCached() bool {
	return len(r.Artifacts) > 0 && r.CacheInfo.RenderHits == len(r.Artifacts)
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid view: %q (must be one of: frame, tree)", view)
	}
	return nil
}

// ValidateAndSetDefaults checks every field and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Ticks < 0 || o.Ticks > MaxTicks {
		return errs.New(errs.ErrCodeInvalidInput, "ticks must be between 0 and %d", MaxTicks)
	}
	if len(o.Views) == 0 {
		o.Views = []string{ViewFrame}
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, v := range o.Views {
		if err := ValidateView(v); err != nil {
			return err
		}
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if !render.ValidStyle(o.Style) {
		return errs.New(errs.ErrCodeInvalidInput, "invalid style: %q (must be one of: simple, handdrawn)", o.Style)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be positive")
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// Artifacts lists every view and format combination the options ask for.
// The tree view has no JSON form; that pair is skipped.
func (o *Options) Artifacts() []Artifact {
	var out []Artifact
	for _, v := range o.Views {
		for _, f := range o.Formats {
			if v == ViewTree && f == FormatJSON {
				continue
			}
			out = append(out, Artifact{View: v, Format: f})
		}
	}
	return out
}

// LayoutKeyOpts returns cache key options for the layout snapshot.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Ticks: o.Ticks, Encoder: string(snapshot.FormatBSON)}
}

// RenderKeyOpts returns cache key options for one artifact. Options that do
// not affect the artifact's view are left out so they share entries.
func (o *Options) RenderKeyOpts(a Artifact) cache.RenderKeyOpts {
	k := cache.RenderKeyOpts{Ticks: o.Ticks, Format: a.Format, View: a.View}
	if a.Format == FormatJSON {
		return k
	}
	switch a.View {
	case ViewFrame:
		k.Targets, k.Rows, k.Names = o.Targets, o.Rows, o.Names
		k.Style = o.Style
	case ViewTree:
		k.Detailed = o.Detailed
	}
	if a.Format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// SVGOptions returns the frame renderer options.
func (o *Options) SVGOptions() []render.SVGOption {
	out := []render.SVGOption{render.WithStyle(o.Style)}
	if o.Targets {
		out = append(out, render.WithTargets())
	}
	if o.Rows {
		out = append(out, render.WithRows())
	}
	if o.Names {
		out = append(out, render.WithNames())
	}
	return out
}

func (o *Options) String() string {
	return fmt.Sprintf("views=%v formats=%v ticks=%d", o.Views, o.Formats, o.Ticks)
}
