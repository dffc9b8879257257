// Package validation checks resume documents and their pagination for layout problems.
package validation

import (
	"fmt"

	"github.com/jonathan/resume-layout/internal/types"
)

// CheckPageCount reports a violation when pages exceed maxPages.
// A maxPages of zero or less disables the check.
func CheckPageCount(pages []types.PageContent, maxPages int) []types.Violation {
	if maxPages <= 0 || len(pages) <= maxPages {
		return nil
	}
	return []types.Violation{{
		Type:     types.ViolationPageCount,
		Severity: types.SeverityError,
		Details:  fmt.Sprintf("resume has %d pages, maximum is %d", len(pages), maxPages),
	}}
}
