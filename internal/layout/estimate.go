// Package layout provides the pagination engine that assigns resume sections to pages and columns.
package layout

import (
	"math"
	"unicode/utf8"

	"github.com/jonathan/resume-layout/internal/types"
)

const (
	// AvgCharWidth is the assumed average glyph width at the normal font size.
	AvgCharWidth = 7.0
	// BaseLineHeight is the line box height at normal font size and lineHeight 1.0.
	BaseLineHeight = 16.0
)

// FontSizeMultiplier scales character width and line height for a font size.
func FontSizeMultiplier(fontSize string) float64 {
	switch fontSize {
	case types.FontSizeSmall:
		return 0.85
	case types.FontSizeLarge:
		return 1.15
	default:
		return 1.0
	}
}

// CharsPerLine estimates how many characters fit on one line of the given width.
// Never less than 1.
func CharsPerLine(width float64, design types.DesignConfig) int {
	n := int(math.Floor(width / (AvgCharWidth * FontSizeMultiplier(design.FontSize))))
	if n < 1 {
		return 1
	}
	return n
}

// LineHeightPx returns the height of one rendered text line.
func LineHeightPx(design types.DesignConfig) float64 {
	return BaseLineHeight * design.LineHeight * FontSizeMultiplier(design.FontSize)
}

// EstimateLines returns the number of wrapped lines for text at the given width.
// Empty text takes no lines; any other text takes at least one.
func EstimateLines(text string, width float64, design types.DesignConfig) int {
	length := utf8.RuneCountInString(text)
	if length == 0 {
		return 0
	}
	cpl := CharsPerLine(width, design)
	return int(math.Ceil(float64(length) / float64(cpl)))
}

// EstimateTextHeight returns the estimated rendered height of text wrapped at width.
// The design must already be normalized.
func EstimateTextHeight(text string, width float64, design types.DesignConfig) float64 {
	return float64(EstimateLines(text, width, design)) * LineHeightPx(design)
}

// EstimateHeight returns the estimated height of a page item: the whole
// section, or only the items in its range.
func EstimateHeight(doc *types.ResumeDocument, item types.PageItem, width float64, design types.DesignConfig) float64 {
	return SectionHeight(doc, item.SectionID, item.ItemRange, width, design.Normalized())
}
