// Package layout provides the pagination engine that assigns resume sections to pages and columns.
package layout

import (
	"log"

	"github.com/jonathan/resume-layout/internal/types"
)

// Measure recomputes the estimated column usage of already paginated pages.
// It uses the same estimator as the packer, so a page produced by
// PaginateWithOptions with the same options only overflows when it holds a
// single fragment taller than the page.
func Measure(doc *types.ResumeDocument, pages []types.PageContent, opts Options) []types.PageUsage {
	var design types.DesignConfig
	if doc != nil {
		design = doc.Design
	}
	design = design.Normalized()
	geo := NewGeometry(design, opts)

	// PageIndex doubles as the packing index: the packer never leaves an
	// empty page before a used one, so renumbering keeps every index.
	out := make([]types.PageUsage, 0, len(pages))
	for _, p := range pages {
		out = append(out, types.PageUsage{
			PageIndex: p.PageIndex,
			Capacity:  geo.Capacity,
			TopOffset: geo.TopOffset(p.PageIndex),
			Left:      measureColumn(doc, p.Left, geo.Columns.Left, design),
			Right:     measureColumn(doc, p.Right, geo.Columns.Right, design),
		})
	}
	return out
}

func measureColumn(doc *types.ResumeDocument, items []types.PageItem, width float64, design types.DesignConfig) types.ColumnUsage {
	usage := types.ColumnUsage{Width: width, Items: make([]types.PlacedSection, 0, len(items))}
	for _, it := range items {
		h := SectionHeight(doc, it.SectionID, it.ItemRange, width, design)
		usage.Used += h
		usage.Items = append(usage.Items, types.PlacedSection{PageItem: it, Height: h})
	}
	return usage
}

// PaginateOrFallback calls PaginateWithOptions and converts an unexpected
// internal failure into a single empty page, so a pagination bug never
// blanks the editing surface.
func PaginateOrFallback(doc *types.ResumeDocument, opts Options) (pages []types.PageContent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[layout] pagination failed, falling back to one empty page: %v", r)
			pages = FallbackPages()
		}
	}()
	pages = PaginateWithOptions(doc, opts)
	if len(pages) == 0 {
		return FallbackPages()
	}
	return pages
}

// FallbackPages is the single empty page rendered when pagination fails or
// the document has no content at all.
func FallbackPages() []types.PageContent {
	return []types.PageContent{{PageIndex: 0, Left: []types.PageItem{}, Right: []types.PageItem{}}}
}
