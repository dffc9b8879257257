// Package types provides type definitions for structured data used throughout the resume-layout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Violation types reported by layout validation.
const (
	ViolationUnknownSection   = "unknown_section"
	ViolationDuplicateSection = "duplicate_section"
	ViolationMissingSection   = "missing_section"
	ViolationOversizeItem     = "oversize_item"
	ViolationColumnOverflow   = "column_overflow"
	ViolationPageCount        = "page_count"
)

// Violation severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Violation represents a single layout check failure
type Violation struct {
	Type             string   `json:"type"`
	Severity         string   `json:"severity"`
	Details          string   `json:"details"`
	AffectedSections []string `json:"affected_sections,omitempty"`

	// Where the problem shows up in the paginated result
	PageIndex *int     `json:"page_index,omitempty"`
	Column    *string  `json:"column,omitempty"`   // "left" or "right"
	Overflow  *float64 `json:"overflow,omitempty"` // layout units past the page capacity
}

// Violations represents a collection of layout check failures
type Violations struct {
	Violations []Violation `json:"violations"`
}

// HasErrors reports whether any violation has error severity.
func (v *Violations) HasErrors() bool {
	for _, x := range v.Violations {
		if x.Severity == SeverityError {
			return true
		}
	}
	return false
}
