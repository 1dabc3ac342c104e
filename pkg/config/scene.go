package config

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/reflow/pkg/anim"
	errs "github.com/matzehuels/reflow/pkg/errors"
	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/reflow"
	"github.com/matzehuels/reflow/pkg/scene"
)

// Scene is the decoded form of a scene file.
type Scene struct {
	Name       string      `toml:"name" json:"name,omitempty"`
	Width      float64     `toml:"width" json:"width,omitempty"`
	Height     float64     `toml:"height" json:"height,omitempty"`
	Ease       string      `toml:"ease" json:"ease,omitempty"`
	Containers []Container `toml:"container" json:"containers"`
}

// Container describes one container and its children.
type Container struct {
	Name   string      `toml:"name" json:"name"`
	X      float64     `toml:"x" json:"x"`
	Y      float64     `toml:"y" json:"y"`
	Width  float64     `toml:"width" json:"width"`
	Height float64     `toml:"height" json:"height"`
	Layout LayoutSpec  `toml:"layout" json:"layout"`
	Items  []ItemSpec  `toml:"item" json:"items"`
	Fixed  []FixedSpec `toml:"fixed" json:"fixed,omitempty"`
}

// ItemSpec describes one organizable item. ID is generated when empty.
type ItemSpec struct {
	ID     string  `toml:"id" json:"id,omitempty"`
	Label  string  `toml:"label" json:"label"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// FixedSpec describes a non-organizable child.
type FixedSpec struct {
	Label string `toml:"label" json:"label"`
}

// Bounds returns the container's rectangle.
func (c Container) Bounds() layout.Rect {
	return layout.Rect{X: c.X, Y: c.Y, W: c.Width, H: c.Height}
}

// ReadScene decodes a TOML scene from r and validates it.
func ReadScene(r io.Reader) (*Scene, error) {
	var s Scene
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "decode scene")
	}
	if err := undecoded(md, errs.ErrCodeInvalidScene); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScene reads the scene file at path.
func LoadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := ReadScene(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks names, sizes and layout settings.
func (s *Scene) Validate() error {
	if len(s.Containers) == 0 {
		return errs.New(errs.ErrCodeInvalidScene, "scene has no containers")
	}
	if !finite(s.Width, s.Height) {
		return errs.New(errs.ErrCodeInvalidScene, "scene size must be finite")
	}
	seen := make(map[string]bool)
	for i, c := range s.Containers {
		if c.Name == "" {
			return errs.New(errs.ErrCodeInvalidScene, "container %d has no name", i)
		}
		if seen[c.Name] {
			return errs.New(errs.ErrCodeInvalidScene, "duplicate container %q", c.Name)
		}
		seen[c.Name] = true
		if !finite(c.X, c.Y, c.Width, c.Height) {
			return errs.New(errs.ErrCodeInvalidScene, "container %q has a non-finite position or size", c.Name)
		}
		if c.Width <= 0 || c.Height <= 0 {
			return errs.New(errs.ErrCodeInvalidScene, "container %q must have a positive size", c.Name)
		}
		if _, err := c.Layout.Config(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidScene, err, "container %q", c.Name)
		}
		for j, it := range c.Items {
			if !finite(it.Width, it.Height) || it.Width < 0 || it.Height < 0 {
				return errs.New(errs.ErrCodeInvalidScene, "container %q item %d has a negative or non-finite size", c.Name, j)
			}
		}
	}
	if _, ok := anim.ParseEase(s.Ease); !ok {
		return errs.New(errs.ErrCodeInvalidScene, "unknown ease %q", s.Ease)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Extent returns the scene's canvas size. When width or height is unset it
// is derived from the containers' far edges.
func (s *Scene) Extent() layout.Size {
	size := layout.Size{W: s.Width, H: s.Height}
	for _, c := range s.Containers {
		if s.Width <= 0 {
			size.W = max(size.W, c.X+c.Width)
		}
		if s.Height <= 0 {
			size.H = max(size.H, c.Y+c.Height)
		}
	}
	return size
}

// Build creates a scene host with every container and child in place.
// Items start at the container origin and reach their targets once the
// scene ticks.
func (s *Scene) Build(logger *log.Logger) (*scene.Scene, error) {
	ease, _ := anim.ParseEase(s.Ease)
	host := scene.New(scene.WithLogger(logger), scene.WithEase(ease))
	for _, c := range s.Containers {
		cfg, err := c.Layout.Config()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "container %q", c.Name)
		}
		rc := host.NewContainer(c.Name, c.Bounds(), cfg)
		for _, spec := range c.Items {
			it := reflow.NewItem(spec.Label, layout.Size{W: spec.Width, H: spec.Height})
			if spec.ID != "" {
				it.ID = spec.ID
			}
			rc.AddChild(it)
		}
		for _, f := range c.Fixed {
			rc.AddChild(&reflow.Fixed{Label: f.Label})
		}
	}
	return host, nil
}

// undecoded rejects keys that did not map onto any field.
func undecoded(md toml.MetaData, code errs.Code) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return errs.New(code, "unknown keys: %s", strings.Join(names, ", "))
}
