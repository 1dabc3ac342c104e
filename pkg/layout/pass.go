package layout

import "math"

// eps absorbs floating-point noise in row-fitting comparisons so that an item
// which exactly reaches the limit stays in the current row.
const eps = 1e-9

// row is a contiguous run of item indices sharing one cross-axis band.
type row struct {
	first, count int
}

// Pass holds the memoized geometry of one layout pass: row boundaries, row
// thicknesses, band offsets and per-item main-axis offsets. All queries are
// pure; a Pass is safe to reuse until any of its inputs change.
type Pass struct {
	cfg       Config
	container Size
	sizes     []Size
	ref       Size
	hasRef    bool

	rows      []row
	rowOf     []int
	offsets   []float64 // main-axis offset of each item from its row origin
	lengths   []float64 // RowLength per row
	thickness []float64 // cross extent per row
	bands     []float64 // cross coordinate of each row band
}

// PassOption configures a [Pass].
type PassOption func(*Pass)

// WithReference fixes the size every item takes in uniform mode. Owners that
// reorder items should pass the size they derived at the last structural
// change, so a reorder never changes the pitch.
func WithReference(ref Size) PassOption {
	return func(p *Pass) {
		p.ref = ref
		p.hasRef = true
	}
}

// NewPass computes the rows and offsets for items whose sizes are given in
// index order. sizes[i] is the size of the item with index i. The slice is not
// retained beyond the lifetime of the Pass and is never modified.
//
// Without [WithReference] the uniform reference is the size of the item at
// index 0.
func NewPass(cfg Config, container Size, sizes []Size, opts ...PassOption) *Pass {
	p := &Pass{
		cfg:       cfg,
		container: container,
		sizes:     sizes,
	}
	for _, opt := range opts {
		opt(p)
	}
	if !p.hasRef && len(sizes) > 0 {
		p.ref = sizes[0]
	}
	p.computeRows()
	p.computeOffsets()
	p.computeBands()
	return p
}

// Config returns the configuration the pass was built with.
func (p *Pass) Config() Config { return p.cfg }

// Len returns the number of items in the pass.
func (p *Pass) Len() int { return len(p.sizes) }

// Reference returns the reference size used in uniform mode.
func (p *Pass) Reference() Size { return p.ref }

// extent returns the main-axis extent of item i.
func (p *Pass) extent(i int) float64 {
	if p.cfg.UniformItemSize {
		return p.ref.Main(p.cfg.Axis)
	}
	return p.sizes[i].Main(p.cfg.Axis)
}

// crossExtent returns the cross-axis extent of item i.
func (p *Pass) crossExtent(i int) float64 {
	if p.cfg.UniformItemSize {
		return p.ref.Cross(p.cfg.Axis)
	}
	return p.sizes[i].Cross(p.cfg.Axis)
}

// =============================================================================
// Rows
// =============================================================================

func (p *Pass) computeRows() {
	n := len(p.sizes)
	p.rowOf = make([]int, n)
	if n == 0 {
		return
	}

	switch {
	case !p.cfg.Wrap:
		p.rows = []row{{first: 0, count: n}}
	case p.cfg.UniformItemSize:
		per := p.uniformPerRow()
		for first := 0; first < n; first += per {
			p.rows = append(p.rows, row{first: first, count: min(per, n-first)})
		}
	default:
		p.rows = p.greedyRows()
	}

	for r, rw := range p.rows {
		for i := rw.first; i < rw.first+rw.count; i++ {
			p.rowOf[i] = r
		}
	}
}

// limit returns the length a row may reach before an item of extent ext
// overflows it.
func (p *Pass) limit(ext float64) float64 {
	return p.container.Main(p.cfg.Axis) - p.cfg.SortPrecision*ext
}

// greedyRows accumulates items into a row until the next one would push the
// row length past the soft limit. The first item of a row always fits.
func (p *Pass) greedyRows() []row {
	var (
		rows []row
		n    = len(p.sizes)
		s    = p.cfg.Spacing
		ends = 2 * p.cfg.endSpacing()
	)
	for first := 0; first < n; {
		length := ends + p.extent(first)
		count := 1
		for j := first + 1; j < n; j++ {
			ext := p.extent(j)
			candidate := length + s + ext
			if candidate > p.limit(ext)+eps {
				break
			}
			length = candidate
			count++
		}
		rows = append(rows, row{first: first, count: count})
		first += count
	}
	return rows
}

// uniformPerRow is the closed form of greedyRows when every item shares the
// reference extent: the largest k with k*e + (k-1)*s + ends <= limit.
func (p *Pass) uniformPerRow() int {
	e := p.ref.Main(p.cfg.Axis)
	s := p.cfg.Spacing
	if e+s <= 0 {
		return len(p.sizes)
	}
	room := p.limit(e) - 2*p.cfg.endSpacing() + s
	k := int(math.Floor(room/(e+s) + eps))
	return max(k, 1)
}

// RowCount returns the number of rows, or 0 when there are no items.
func (p *Pass) RowCount() int { return len(p.rows) }

// MaxItemCountForRow returns how many items row rowIdx holds, or -1 when the
// row does not exist.
func (p *Pass) MaxItemCountForRow(rowIdx int) int {
	if rowIdx < 0 || rowIdx >= len(p.rows) {
		return -1
	}
	return p.rows[rowIdx].count
}

// RowOf returns the row holding item i, or None when i is out of range.
func (p *Pass) RowOf(i int) int {
	if i < 0 || i >= len(p.rowOf) {
		return None
	}
	return p.rowOf[i]
}

// FirstInRow returns the index of the first item in row r, or None.
func (p *Pass) FirstInRow(r int) int {
	if r < 0 || r >= len(p.rows) {
		return None
	}
	return p.rows[r].first
}

// LastInRow returns the index of the last item in row r, or None.
func (p *Pass) LastInRow(r int) int {
	if r < 0 || r >= len(p.rows) {
		return None
	}
	return p.rows[r].first + p.rows[r].count - 1
}

// =============================================================================
// Main axis
// =============================================================================

func (p *Pass) computeOffsets() {
	p.offsets = make([]float64, len(p.sizes))
	p.lengths = make([]float64, len(p.rows))
	s := p.cfg.Spacing
	for r, rw := range p.rows {
		var off float64
		for i := rw.first; i < rw.first+rw.count; i++ {
			if p.cfg.UniformItemSize {
				p.offsets[i] = float64(i-rw.first) * (p.extent(i) + s)
			} else {
				p.offsets[i] = off
			}
			off += p.extent(i) + s
		}
		// off carries one trailing spacing; swap it for the end spacings.
		p.lengths[r] = off - s + 2*p.cfg.endSpacing()
	}
}

// RowLength returns the main-axis length of row r: item extents plus interior
// spacing, plus two boundary spacings when SpacingAtEnds is set. It returns -1
// when the row does not exist.
func (p *Pass) RowLength(r int) float64 {
	if r < 0 || r >= len(p.lengths) {
		return -1
	}
	return p.lengths[r]
}

// MaxRowLength returns the length of the longest row, or -1 when there are no
// items. Without wrapping this is the length of the whole sequence.
func (p *Pass) MaxRowLength() float64 {
	longest := -1.0
	for _, l := range p.lengths {
		longest = max(longest, l)
	}
	return longest
}

// FirstItemPos returns the main-axis coordinate where row r begins, after
// alignment: 0 for start, centered for center, flush with the far edge for
// end, each shifted by Spacing when SpacingAtEnds is set. It returns -1 when
// the row does not exist.
func (p *Pass) FirstItemPos(r int) float64 {
	if r < 0 || r >= len(p.lengths) {
		return -1
	}
	return alignOffset(p.cfg.mainAlign(), p.container.Main(p.cfg.Axis), p.lengths[r]) + p.cfg.endSpacing()
}

// alignOffset places content of length l inside an extent of length total.
func alignOffset(a Align, total, l float64) float64 {
	switch a {
	case AlignCenter:
		return (total - l) / 2
	case AlignEnd:
		return total - l
	default:
		return 0
	}
}

// mainPos returns the main-axis coordinate of item i.
func (p *Pass) mainPos(i int) float64 {
	r := p.rowOf[i]
	origin := p.FirstItemPos(r)
	if p.cfg.Direction == Backward {
		content := p.lengths[r] - 2*p.cfg.endSpacing()
		return origin + content - p.offsets[i] - p.extent(i)
	}
	return origin + p.offsets[i]
}

// =============================================================================
// Cross axis
// =============================================================================

func (p *Pass) computeBands() {
	p.thickness = make([]float64, len(p.rows))
	p.bands = make([]float64, len(p.rows))
	if len(p.rows) == 0 {
		return
	}

	s := p.cfg.Spacing
	total := 2 * p.cfg.endSpacing()
	for r, rw := range p.rows {
		var thick float64
		for i := rw.first; i < rw.first+rw.count; i++ {
			thick = max(thick, p.crossExtent(i))
		}
		p.thickness[r] = thick
		total += thick
		if r > 0 {
			total += s
		}
	}

	band := alignOffset(p.cfg.crossAlign(), p.container.Cross(p.cfg.Axis), total) + p.cfg.endSpacing()
	for r := range p.rows {
		p.bands[r] = band
		band += p.thickness[r] + s
	}
}

// RowThickness returns the cross-axis extent of row r (its tallest item for a
// horizontal container), or -1 when the row does not exist.
func (p *Pass) RowThickness(r int) float64 {
	if r < 0 || r >= len(p.thickness) {
		return -1
	}
	return p.thickness[r]
}

// RowBand returns the cross-axis coordinate where row r's band begins, or -1
// when the row does not exist.
func (p *Pass) RowBand(r int) float64 {
	if r < 0 || r >= len(p.bands) {
		return -1
	}
	return p.bands[r]
}

// crossPos returns the cross-axis coordinate of item i inside its row band.
func (p *Pass) crossPos(i int) float64 {
	r := p.rowOf[i]
	return p.bands[r] + alignOffset(p.cfg.crossAlign(), p.thickness[r], p.crossExtent(i))
}

// =============================================================================
// Targets
// =============================================================================

// Target returns the top-left position item i converges toward. It returns the
// zero Vec2 when i is out of range.
func (p *Pass) Target(i int) Vec2 {
	if i < 0 || i >= len(p.sizes) {
		return Vec2{}
	}
	return compose(p.cfg.Axis, p.mainPos(i), p.crossPos(i))
}

// Targets returns the target of every item in index order.
func (p *Pass) Targets() []Vec2 {
	out := make([]Vec2, len(p.sizes))
	for i := range out {
		out[i] = p.Target(i)
	}
	return out
}
