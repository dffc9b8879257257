// Package types provides type definitions for structured data used throughout the resume-layout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ItemRange is a half-open slice [Start, End) of a section's item list.
// Serialized as a two-element JSON array.
type ItemRange [2]int

// Start returns the inclusive start index
func (r ItemRange) Start() int { return r[0] }

// End returns the exclusive end index
func (r ItemRange) End() int { return r[1] }

// Len returns the number of items covered by the range
func (r ItemRange) Len() int {
	if r[1] < r[0] {
		return 0
	}
	return r[1] - r[0]
}

// PageItem places a section, or a slice of its items, in a column.
// A nil ItemRange means the whole section renders here.
type PageItem struct {
	SectionID string     `json:"sectionId"`
	ItemRange *ItemRange `json:"itemRange,omitempty"`
}

// IsContinuation reports whether the item continues a section started on an
// earlier page. Renderers suppress the section header for continuations.
func (p PageItem) IsContinuation() bool {
	return p.ItemRange != nil && p.ItemRange.Start() > 0
}

// PageContent is one output page with independent left and right column streams.
type PageContent struct {
	PageIndex int        `json:"pageIndex"`
	Left      []PageItem `json:"left"`
	Right     []PageItem `json:"right"`
}

// IsEmpty reports whether both columns are empty.
func (p PageContent) IsEmpty() bool {
	return len(p.Left) == 0 && len(p.Right) == 0
}

// PageUsage reports the estimated height used in each column of a page.
type PageUsage struct {
	PageIndex int         `json:"pageIndex"`
	Capacity  float64     `json:"capacity"`
	TopOffset float64     `json:"topOffset"`
	Left      ColumnUsage `json:"left"`
	Right     ColumnUsage `json:"right"`
}

// ColumnUsage is the estimated fill of one column on one page.
type ColumnUsage struct {
	Width float64         `json:"width"`
	Used  float64         `json:"used"`
	Items []PlacedSection `json:"items"`
}

// PlacedSection is a PageItem with its estimated height.
type PlacedSection struct {
	PageItem
	Height float64 `json:"height"`
}

// Overflows reports whether the column content extends past the page capacity.
func (c ColumnUsage) Overflows(topOffset, capacity float64) bool {
	return topOffset+c.Used > capacity
}
