// Package layout provides the pagination engine that assigns resume sections to pages and columns.
package layout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/resume-layout/internal/types"
)

// Page geometry in layout units (CSS pixels at 96 dpi, A4 portrait).
const (
	DefaultPageWidth  = 794.0
	DefaultPageHeight = 1123.0

	// MarginStep is the pixel size of one design margin step (margins 1-5).
	MarginStep = 12.0

	// DefaultFirstPageHeaderOffset is reserved at the top of the first page
	// for the name/title header block.
	DefaultFirstPageHeaderOffset = 140.0
	// DefaultPageTopOffset is reserved at the top of every later page.
	DefaultPageTopOffset = 16.0

	// DefaultMinUsefulHeight is the smallest remaining space worth filling
	// with a fragment before moving a section to the next page.
	DefaultMinUsefulHeight = 60.0
)

// Options tunes the packer. Non-positive page sizes and negative offsets
// fall back to the defaults; a zero offset is honored.
type Options struct {
	PageWidth             float64
	PageHeight            float64
	FirstPageHeaderOffset float64
	PageTopOffset         float64
	MinUsefulHeight       float64
	// SplittableSections lists section IDs (built-in or custom) whose items
	// may be split across pages. Empty means the built-in default set.
	SplittableSections []string
}

// DefaultOptions returns the options shared by the editor, preview and export.
func DefaultOptions() Options {
	return Options{
		PageWidth:             DefaultPageWidth,
		PageHeight:            DefaultPageHeight,
		FirstPageHeaderOffset: DefaultFirstPageHeaderOffset,
		PageTopOffset:         DefaultPageTopOffset,
		MinUsefulHeight:       DefaultMinUsefulHeight,
		SplittableSections:    []string{types.SectionExperience, types.SectionEducation},
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.PageWidth <= 0 {
		o.PageWidth = def.PageWidth
	}
	if o.PageHeight <= 0 {
		o.PageHeight = def.PageHeight
	}
	if o.FirstPageHeaderOffset < 0 {
		o.FirstPageHeaderOffset = def.FirstPageHeaderOffset
	}
	if o.PageTopOffset < 0 {
		o.PageTopOffset = def.PageTopOffset
	}
	if o.MinUsefulHeight < 0 {
		o.MinUsefulHeight = def.MinUsefulHeight
	}
	if len(o.SplittableSections) == 0 {
		o.SplittableSections = def.SplittableSections
	}
	return o
}

// Key identifies the effective options: two Options with equal keys
// paginate every document identically.
func (o Options) Key() string {
	n := o.normalized()
	split := slices.Clone(n.SplittableSections)
	slices.Sort(split)
	split = slices.Compact(split)
	return fmt.Sprintf("w=%g h=%g first=%g top=%g min=%g split=%s",
		n.PageWidth, n.PageHeight, n.FirstPageHeaderOffset, n.PageTopOffset, n.MinUsefulHeight, strings.Join(split, ","))
}

func (o Options) splittableSet() map[string]bool {
	set := make(map[string]bool, len(o.SplittableSections))
	for _, id := range o.SplittableSections {
		set[id] = true
	}
	return set
}

// Widths holds the left and right column widths.
type Widths struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// ColumnRatio returns the left/right fractions of the content width for a
// columnLayout value. Unknown values use the 65/35 split.
func ColumnRatio(columnLayout int) (left, right float64) {
	switch columnLayout {
	case types.ColumnLayout75x25:
		return 0.75, 0.25
	case types.ColumnLayout70x30:
		return 0.70, 0.30
	case types.ColumnLayout50x50:
		return 0.50, 0.50
	default:
		return 0.65, 0.35
	}
}

// ColumnWidths splits contentWidth into left and right column widths.
// Renderers use the same function so visual widths match estimated widths.
func ColumnWidths(columnLayout int, contentWidth float64) Widths {
	l, r := ColumnRatio(columnLayout)
	return Widths{
		Left:  contentWidth * l,
		Right: contentWidth * r,
	}
}

// MarginPx converts a design margin step into layout units.
func MarginPx(margins int) float64 {
	return float64(margins) * MarginStep
}

// Geometry is the resolved page geometry for one design.
type Geometry struct {
	PageWidth    float64 `json:"pageWidth"`
	PageHeight   float64 `json:"pageHeight"`
	Margin       float64 `json:"margin"`
	ContentWidth float64 `json:"contentWidth"`
	// Capacity is the usable vertical space inside the margins.
	Capacity float64 `json:"capacity"`
	Columns  Widths  `json:"columns"`

	firstTop float64
	top      float64
}

// NewGeometry resolves the geometry for a design. The design is normalized first.
func NewGeometry(design types.DesignConfig, opts Options) Geometry {
	design = design.Normalized()
	opts = opts.normalized()

	margin := MarginPx(design.Margins)
	contentWidth := opts.PageWidth - 2*margin
	return Geometry{
		PageWidth:    opts.PageWidth,
		PageHeight:   opts.PageHeight,
		Margin:       margin,
		ContentWidth: contentWidth,
		Capacity:     opts.PageHeight - 2*margin,
		Columns:      ColumnWidths(design.ColumnLayout, contentWidth),
		firstTop:     opts.FirstPageHeaderOffset,
		top:          opts.PageTopOffset,
	}
}

// TopOffset returns the vertical offset where content starts on a page.
func (g Geometry) TopOffset(pageIndex int) float64 {
	if pageIndex == 0 {
		return g.firstTop
	}
	return g.top
}
