package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/pkg/config"
	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/scene"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

// frameInterval is the playground's tick rate.
const frameInterval = 16 * time.Millisecond

// footerLines is the space reserved below the canvas.
const footerLines = 3

// playCommand creates the play command, an interactive terminal playground.
func (c *CLI) playCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [scene]",
		Short: "Drag items around a scene in the terminal",
		Long: `Drag items around a scene in the terminal.

The scene is drawn scaled to the terminal. Press the left mouse button on an
item, drag it to a new slot and release it; the other items make room while
the item is held. Press t to toggle target outlines and q to quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := c.loadSpec(args[0])
			if err != nil {
				return err
			}
			// Drag logs would tear the alternate screen.
			c.SetLogLevel(LogError)
			host, err := spec.Build(c.Logger)
			if err != nil {
				return fmt.Errorf("build scene: %w", err)
			}
			defer host.Close()

			p := tea.NewProgram(newPlayModel(spec, host),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
			)
			_, err = p.Run()
			return err
		},
	}
	return cmd
}

// =============================================================================
// PlayModel
// =============================================================================

type tickMsg time.Time

// playModel is the bubbletea model driving a scene from mouse input.
type playModel struct {
	spec    *config.Scene
	host    *scene.Scene
	cols    int
	rows    int
	targets bool
	last    time.Time
}

func newPlayModel(spec *config.Scene, host *scene.Scene) *playModel {
	return &playModel{spec: spec, host: host, cols: 80, rows: 24 - footerLines}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *playModel) Init() tea.Cmd {
	return tick()
}

// scale returns scene units per terminal cell on each axis.
func (m *playModel) scale() (float64, float64) {
	ext := m.spec.Extent()
	return ext.W / float64(max(1, m.cols)), ext.H / float64(max(1, m.rows))
}

// toScene maps a terminal cell to the scene point at its center.
func (m *playModel) toScene(x, y int) layout.Vec2 {
	sx, sy := m.scale()
	return layout.Vec2{X: (float64(x) + 0.5) * sx, Y: (float64(y) + 0.5) * sy}
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "t":
			m.targets = !m.targets
		}
	case tea.WindowSizeMsg:
		m.cols = max(1, msg.Width)
		m.rows = max(1, msg.Height-footerLines)
	case tea.MouseMsg:
		p := m.toScene(msg.X, msg.Y)
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.host.PointerDown(p)
		case msg.Action == tea.MouseActionRelease:
			m.host.PointerUp(p)
		case msg.Action == tea.MouseActionMotion:
			m.host.PointerMove(p)
		}
	case tickMsg:
		now := time.Time(msg)
		dt := frameInterval
		if !m.last.IsZero() {
			dt = now.Sub(m.last)
		}
		m.last = now
		m.host.Tick(dt)
		return m, tick()
	}
	return m, nil
}

func (m *playModel) View() string {
	f := snapshot.Capture(m.host, m.spec.Name, m.spec.Extent())
	sx, sy := m.scale()
	c := newCanvas(m.cols, m.rows, sx, sy)
	c.draw(f, m.targets)

	var b strings.Builder
	b.WriteString(c.String())
	b.WriteString("\n")
	b.WriteString(m.status(f))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag with the left button · t targets · q quit"))
	return b.String()
}

func (m *playModel) status(f snapshot.Frame) string {
	parts := []string{fmt.Sprintf("frame %d", f.Tick)}
	for _, cs := range f.Containers {
		if cs.HoverIndex != layout.None {
			parts = append(parts, fmt.Sprintf("%s slot %d", cs.Name, cs.HoverIndex))
		}
		if cs.Warning != "" {
			parts = append(parts, StyleWarning.Render(cs.Name+": "+cs.Warning))
		}
	}
	if it := m.host.Dragging(); it != nil {
		parts = append(parts, StyleHighlight.Render("holding "+it.Label))
	}
	if f.Settled {
		parts = append(parts, StyleSuccess.Render("settled"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// =============================================================================
// Canvas
// =============================================================================

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellBorder
	cellTarget
	cellItem
	cellDragged
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellEmpty:   lipgloss.NewStyle(),
	cellBorder:  lipgloss.NewStyle().Foreground(colorDim),
	cellTarget:  lipgloss.NewStyle().Foreground(colorGray),
	cellItem:    lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("238")),
	cellDragged: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorYellow).Bold(true),
}

type cell struct {
	r    rune
	kind cellKind
}

// canvas rasterizes a frame onto terminal cells.
type canvas struct {
	cells  [][]cell
	sx, sy float64
}

func newCanvas(cols, rows int, sx, sy float64) *canvas {
	cells := make([][]cell, rows)
	for y := range cells {
		cells[y] = make([]cell, cols)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}
	return &canvas{cells: cells, sx: sx, sy: sy}
}

// span maps a scene interval to the cells it covers, clipped to n.
func span(lo, size, scale float64, n int) (int, int) {
	a := int(math.Floor(lo / scale))
	b := int(math.Ceil((lo+size)/scale)) - 1
	return max(a, 0), min(max(b, a), n-1)
}

func (c *canvas) rect(r layout.Rect) (x0, y0, x1, y1 int) {
	if len(c.cells) == 0 {
		return 0, 0, -1, -1
	}
	x0, x1 = span(r.X, r.W, c.sx, len(c.cells[0]))
	y0, y1 = span(r.Y, r.H, c.sy, len(c.cells))
	return
}

func (c *canvas) set(x, y int, r rune, kind cellKind) {
	if y < 0 || y >= len(c.cells) || x < 0 || x >= len(c.cells[y]) {
		return
	}
	c.cells[y][x] = cell{r: r, kind: kind}
}

func (c *canvas) outline(r layout.Rect, kind cellKind, h, v rune, corners [4]rune) {
	x0, y0, x1, y1 := c.rect(r)
	for x := x0; x <= x1; x++ {
		c.set(x, y0, h, kind)
		c.set(x, y1, h, kind)
	}
	for y := y0; y <= y1; y++ {
		c.set(x0, y, v, kind)
		c.set(x1, y, v, kind)
	}
	c.set(x0, y0, corners[0], kind)
	c.set(x1, y0, corners[1], kind)
	c.set(x0, y1, corners[2], kind)
	c.set(x1, y1, corners[3], kind)
}

func (c *canvas) fill(r layout.Rect, label string, kind cellKind) {
	x0, y0, x1, y1 := c.rect(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.set(x, y, ' ', kind)
		}
	}
	width := x1 - x0 + 1
	if width <= 0 || label == "" {
		return
	}
	runes := []rune(label)
	if len(runes) > width {
		runes = runes[:width]
	}
	start := x0 + (width-len(runes))/2
	mid := (y0 + y1) / 2
	for i, r := range runes {
		c.set(start+i, mid, r, kind)
	}
}

// draw paints containers, then targets, then items; dragged items last.
func (c *canvas) draw(f snapshot.Frame, targets bool) {
	for _, cs := range f.Containers {
		c.outline(cs.Bounds(), cellBorder, '─', '│', [4]rune{'┌', '┐', '└', '┘'})
	}
	if targets {
		for _, cs := range f.Containers {
			for _, it := range cs.Items {
				r := layout.Rect{X: cs.X + it.TargetX, Y: cs.Y + it.TargetY, W: it.Width, H: it.Height}
				c.outline(r, cellTarget, '·', '·', [4]rune{'·', '·', '·', '·'})
			}
		}
	}
	var dragged []func()
	for _, cs := range f.Containers {
		for _, it := range cs.Items {
			r := layout.Rect{X: cs.X + it.X, Y: cs.Y + it.Y, W: it.Width, H: it.Height}
			if it.Dragged {
				label := it.Label
				dragged = append(dragged, func() { c.fill(r, label, cellDragged) })
				continue
			}
			c.fill(r, it.Label, cellItem)
		}
	}
	for _, d := range dragged {
		d()
	}
}

// String renders the cells, grouping runs of equal kind into one styled
// segment.
func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		kind := cellEmpty
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(cellStyles[kind].Render(run.String()))
				run.Reset()
			}
		}
		for _, cl := range row {
			if cl.kind != kind {
				flush()
				kind = cl.kind
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}
