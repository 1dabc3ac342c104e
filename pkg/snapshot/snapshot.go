// Package snapshot captures the state of a scene at one frame.
//
// A [Frame] is the serialization format shared by the CLI and the preview
// service: every container's bounds, configuration and warning, and every
// item's current position next to its target. Frames encode as JSON for
// humans and tools, or as BSON for compact archives of long simulations.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	errs "github.com/matzehuels/reflow/pkg/errors"
	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/reflow"
	"github.com/matzehuels/reflow/pkg/scene"
)

// =============================================================================
// Frame - Serialized Scene State
// =============================================================================

// Frame is the state of every container at one tick.
type Frame struct {
	Scene      string      `json:"scene,omitempty" bson:"scene,omitempty"`
	Tick       int         `json:"tick" bson:"tick"`
	ElapsedMS  float64     `json:"elapsed_ms" bson:"elapsed_ms"`
	Width      float64     `json:"width" bson:"width"`
	Height     float64     `json:"height" bson:"height"`
	Settled    bool        `json:"settled" bson:"settled"`
	Containers []Container `json:"containers" bson:"containers"`
}

// Container is the state of one container.
type Container struct {
	Name   string        `json:"name" bson:"name"`
	X      float64       `json:"x" bson:"x"`
	Y      float64       `json:"y" bson:"y"`
	Width  float64       `json:"width" bson:"width"`
	Height float64       `json:"height" bson:"height"`
	Config layout.Config `json:"config" bson:"config"`

	Rows       int    `json:"rows" bson:"rows"`
	HoverIndex int    `json:"hover_index" bson:"hover_index"`
	Dragged    string `json:"dragged,omitempty" bson:"dragged,omitempty"`
	Dirty      bool   `json:"dirty" bson:"dirty"`
	Warning    string `json:"warning,omitempty" bson:"warning,omitempty"`

	Items []Item   `json:"items" bson:"items"`
	Fixed []string `json:"fixed,omitempty" bson:"fixed,omitempty"`
}

// Item is the state of one item. Positions are container-local.
type Item struct {
	ID      string  `json:"id" bson:"id"`
	Label   string  `json:"label" bson:"label"`
	Index   int     `json:"index" bson:"index"`
	Row     int     `json:"row" bson:"row"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	TargetX float64 `json:"target_x" bson:"target_x"`
	TargetY float64 `json:"target_y" bson:"target_y"`
	Dragged bool    `json:"dragged,omitempty" bson:"dragged,omitempty"`
}

// Bounds returns the container's rectangle in scene coordinates.
func (c Container) Bounds() layout.Rect {
	return layout.Rect{X: c.X, Y: c.Y, W: c.Width, H: c.Height}
}

// Rect returns the item's container-local rectangle.
func (it Item) Rect() layout.Rect {
	return layout.Rect{X: it.X, Y: it.Y, W: it.Width, H: it.Height}
}

// Target returns the item's target position.
func (it Item) Target() layout.Vec2 {
	return layout.Vec2{X: it.TargetX, Y: it.TargetY}
}

// =============================================================================
// Capture
// =============================================================================

// Capture records the current state of host. name and size label the frame;
// a zero size is derived from the containers.
func Capture(host *scene.Scene, name string, size layout.Size) Frame {
	f := Frame{
		Scene:     name,
		Tick:      host.Frame(),
		ElapsedMS: float64(host.Elapsed().Microseconds()) / 1000,
		Width:     size.W,
		Height:    size.H,
		Settled:   host.Settled(),
	}
	for _, c := range host.Containers() {
		cs := CaptureContainer(c)
		f.Containers = append(f.Containers, cs)
		if size.W <= 0 {
			f.Width = max(f.Width, cs.X+cs.Width)
		}
		if size.H <= 0 {
			f.Height = max(f.Height, cs.Y+cs.Height)
		}
	}
	return f
}

// CaptureContainer records the current state of one container.
func CaptureContainer(c *reflow.Container) Container {
	b := c.Bounds()
	p := c.Pass()
	cs := Container{
		Name:       c.Name(),
		X:          b.X,
		Y:          b.Y,
		Width:      b.W,
		Height:     b.H,
		Config:     c.Config(),
		Rows:       p.RowCount(),
		HoverIndex: c.HoverIndex(),
		Dirty:      c.Dirty(),
		Warning:    c.Warning(),
		Items:      make([]Item, 0, len(c.Items())),
	}
	if d := c.Dragged(); d != nil {
		cs.Dragged = d.ID
	}
	for _, it := range c.Items() {
		pos, size, target := it.Pos(), it.Size(), p.Target(it.Index())
		cs.Items = append(cs.Items, Item{
			ID:      it.ID,
			Label:   it.Label,
			Index:   it.Index(),
			Row:     p.RowOf(it.Index()),
			X:       pos.X,
			Y:       pos.Y,
			Width:   size.W,
			Height:  size.H,
			TargetX: target.X,
			TargetY: target.Y,
			Dragged: it.Dragged(),
		})
	}
	for _, n := range c.Children() {
		if _, ok := n.(*reflow.Item); !ok {
			cs.Fixed = append(cs.Fixed, n.Name())
		}
	}
	return cs
}

// =============================================================================
// Serialization
// =============================================================================

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatBSON Format = "bson"
)

// FormatFromPath picks the encoding from a file extension. Anything other
// than .bson is JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".bson") {
		return FormatBSON
	}
	return FormatJSON
}

// Marshal encodes f as pretty-printed JSON.
func Marshal(f Frame) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// Unmarshal decodes a JSON frame.
func Unmarshal(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "unmarshal frame")
	}
	return f, validate(f)
}

// MarshalBSON encodes f as a BSON document.
func MarshalBSON(f Frame) ([]byte, error) {
	return bson.Marshal(f)
}

// UnmarshalBSON decodes a BSON frame.
func UnmarshalBSON(data []byte) (Frame, error) {
	var f Frame
	if err := bson.Unmarshal(data, &f); err != nil {
		return Frame{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "unmarshal frame")
	}
	return f, validate(f)
}

// Encode encodes f in the given format.
func Encode(f Frame, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return Marshal(f)
	case FormatBSON:
		return MarshalBSON(f)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported snapshot format %q", format)
}

// Decode decodes data in the given format.
func Decode(data []byte, format Format) (Frame, error) {
	switch format {
	case FormatJSON:
		return Unmarshal(data)
	case FormatBSON:
		return UnmarshalBSON(data)
	}
	return Frame{}, errs.New(errs.ErrCodeUnsupported, "unsupported snapshot format %q", format)
}

// WriteFile writes f to path, encoded according to the file extension,
// which must be .json or .bson.
func WriteFile(f Frame, path string) error {
	if err := errs.ValidateOutputPath(path, ".json", ".bson"); err != nil {
		return err
	}
	data, err := Encode(f, FormatFromPath(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a frame from path, decoded according to the file extension.
func ReadFile(path string) (Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Frame{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data, FormatFromPath(path))
}

// =============================================================================
// Traces
// =============================================================================

// Trace is a sequence of frames from one simulation run.
type Trace struct {
	Scene  string  `json:"scene,omitempty" bson:"scene,omitempty"`
	Every  int     `json:"every" bson:"every"`
	Frames []Frame `json:"frames" bson:"frames"`
}

// Add appends f.
func (t *Trace) Add(f Frame) { t.Frames = append(t.Frames, f) }

// EncodeTrace encodes t in the given format.
func EncodeTrace(t Trace, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(t, "", "  ")
	case FormatBSON:
		return bson.Marshal(t)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported snapshot format %q", format)
}

// DecodeTrace decodes a trace in the given format.
func DecodeTrace(data []byte, format Format) (Trace, error) {
	var t Trace
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &t)
	case FormatBSON:
		err = bson.Unmarshal(data, &t)
	default:
		return Trace{}, errs.New(errs.ErrCodeUnsupported, "unsupported snapshot format %q", format)
	}
	if err != nil {
		return Trace{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "unmarshal trace")
	}
	for _, f := range t.Frames {
		if err := validate(f); err != nil {
			return Trace{}, err
		}
	}
	return t, nil
}

// WriteTraceFile writes t to path, encoded according to the file extension.
func WriteTraceFile(t Trace, path string) error {
	if err := errs.ValidateOutputPath(path, ".json", ".bson"); err != nil {
		return err
	}
	data, err := EncodeTrace(t, FormatFromPath(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadTraceFile reads a trace from path.
func ReadTraceFile(path string) (Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trace{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeTrace(data, FormatFromPath(path))
}

func validate(f Frame) error {
	for _, c := range f.Containers {
		if c.Name == "" {
			return errs.New(errs.ErrCodeInvalidFormat, "frame container without a name")
		}
	}
	return nil
}
