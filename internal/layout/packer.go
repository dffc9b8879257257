// Package layout provides the pagination engine that assigns resume sections to pages and columns.
package layout

import (
	"github.com/jonathan/resume-layout/internal/types"
)

// Paginate assigns the document's sections to pages and columns using the
// default options. It is pure and deterministic: the editor, the preview and
// the export each call it independently and get identical pages.
func Paginate(doc *types.ResumeDocument) []types.PageContent {
	return PaginateWithOptions(doc, DefaultOptions())
}

// PaginateWithOptions is Paginate with tuned options.
//
// Each user page group (see ResolveGroups) is packed starting on a fresh page.
// Within a group the left and right columns are packed independently from the
// same page and vertical offset. Pages with both columns empty are dropped and
// the remaining pages are numbered from 0 without gaps.
func PaginateWithOptions(doc *types.ResumeDocument, opts Options) []types.PageContent {
	if doc == nil {
		return []types.PageContent{}
	}
	opts = opts.normalized()
	design := doc.Design.Normalized()
	geo := NewGeometry(design, opts)

	pc := &pageCollector{}
	splittable := opts.splittableSet()

	for _, group := range ResolveGroups(doc) {
		groupStart := pc.len()
		pc.ensure(groupStart)

		left := newColumnPacker(doc, design, geo, opts.MinUsefulHeight, splittable, pc, columnLeft, geo.Columns.Left, groupStart)
		for _, id := range group.Left {
			left.place(id)
		}
		right := newColumnPacker(doc, design, geo, opts.MinUsefulHeight, splittable, pc, columnRight, geo.Columns.Right, groupStart)
		for _, id := range group.Right {
			right.place(id)
		}

		// An empty group must not push the next group onto a later page.
		pc.trimTrailingEmpty()
	}

	return pc.pages()
}

type column int

const (
	columnLeft column = iota
	columnRight
)

// pageCollector accumulates output pages by global index.
type pageCollector struct {
	accs []types.PageContent
}

func (pc *pageCollector) len() int {
	return len(pc.accs)
}

// ensure grows the page list so that index exists.
func (pc *pageCollector) ensure(index int) {
	for len(pc.accs) <= index {
		pc.accs = append(pc.accs, types.PageContent{
			PageIndex: len(pc.accs),
			Left:      []types.PageItem{},
			Right:     []types.PageItem{},
		})
	}
}

func (pc *pageCollector) add(index int, col column, item types.PageItem) {
	pc.ensure(index)
	if col == columnLeft {
		pc.accs[index].Left = append(pc.accs[index].Left, item)
		return
	}
	pc.accs[index].Right = append(pc.accs[index].Right, item)
}

func (pc *pageCollector) trimTrailingEmpty() {
	for len(pc.accs) > 0 && pc.accs[len(pc.accs)-1].IsEmpty() {
		pc.accs = pc.accs[:len(pc.accs)-1]
	}
}

// pages drops empty pages and renumbers the rest contiguously.
func (pc *pageCollector) pages() []types.PageContent {
	out := make([]types.PageContent, 0, len(pc.accs))
	for _, p := range pc.accs {
		if p.IsEmpty() {
			continue
		}
		p.PageIndex = len(out)
		out = append(out, p)
	}
	return out
}

// columnPacker packs one column stream of one user page group.
type columnPacker struct {
	doc        *types.ResumeDocument
	design     types.DesignConfig
	geo        Geometry
	minUseful  float64
	splittable map[string]bool
	collector  *pageCollector
	col        column
	width      float64

	page   int     // current global page index
	y      float64 // current vertical offset on the page
	placed int     // fragments this column has placed on the current page
}

func newColumnPacker(
	doc *types.ResumeDocument,
	design types.DesignConfig,
	geo Geometry,
	minUseful float64,
	splittable map[string]bool,
	collector *pageCollector,
	col column,
	width float64,
	startPage int,
) *columnPacker {
	return &columnPacker{
		doc:        doc,
		design:     design,
		geo:        geo,
		minUseful:  minUseful,
		splittable: splittable,
		collector:  collector,
		col:        col,
		width:      width,
		page:       startPage,
		y:          geo.TopOffset(startPage),
	}
}

// place packs one section, splitting or moving it as needed.
//
// The loop works on the remaining item range [start, n) and always makes
// progress: each iteration places a fragment, or moves to a new page from a
// page that already holds content.
func (c *columnPacker) place(id string) {
	m := measureSection(c.doc, id, c.width, c.design)
	n := m.count()
	capacity := c.geo.Capacity
	canSplit := c.splittable[id]

	start := 0
	for {
		h := m.height(start, n)
		if c.y+h <= capacity {
			c.emit(id, start, n, n)
			c.y += h
			return
		}

		available := capacity - c.y
		fresh := c.placed == 0

		if !fresh && available < c.minUseful {
			c.nextPage()
			continue
		}

		if canSplit && start < n {
			i := m.fit(start, available)
			if i >= n {
				// Rounding let every item fit; place the remainder here.
				c.emit(id, start, n, n)
				c.y += h
				return
			}
			if i > start {
				c.emit(id, start, i, n)
				start = i
				c.nextPage()
				continue
			}
		}

		if !fresh {
			c.nextPage()
			continue
		}

		// Fresh page and nothing fits: place the oversize fragment alone.
		if canSplit && start < n {
			end := start + 1
			c.emit(id, start, end, n)
			c.y += m.height(start, end)
			start = end
			if start >= n {
				return
			}
			continue
		}
		c.emit(id, start, n, n)
		c.y += h
		return
	}
}

// emit records items [start, end) of a section with n items on the current page.
// The full range is emitted without an ItemRange.
func (c *columnPacker) emit(id string, start, end, n int) {
	item := types.PageItem{SectionID: id}
	if start != 0 || end != n {
		item.ItemRange = &types.ItemRange{start, end}
	}
	c.collector.add(c.page, c.col, item)
	c.placed++
}

func (c *columnPacker) nextPage() {
	c.page++
	c.collector.ensure(c.page)
	c.y = c.geo.TopOffset(c.page)
	c.placed = 0
}
