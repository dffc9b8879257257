// Package validation checks resume documents and their pagination for layout problems.
package validation

import (
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
)

// Options configures ValidateLayout.
type Options struct {
	Layout   layout.Options // Packer options the result is checked against
	MaxPages int            // Page budget; zero disables the page count check
}

// Report is the outcome of ValidateLayout.
type Report struct {
	Pages      []types.PageContent `json:"pages"`
	Usage      []types.PageUsage   `json:"usage"`
	Violations types.Violations    `json:"violations"`
}

// ValidateLayout paginates doc and checks the layout references, column
// overflow and page budget.
func ValidateLayout(doc *types.ResumeDocument, opts Options) (*Report, error) {
	if doc == nil {
		return nil, &Error{Message: "document is nil"}
	}

	pages := layout.PaginateWithOptions(doc, opts.Layout)
	usage := layout.Measure(doc, pages, opts.Layout)

	var all []types.Violation
	all = append(all, CheckSectionReferences(doc)...)
	all = append(all, CheckColumnOverflow(usage)...)
	all = append(all, CheckPageCount(pages, opts.MaxPages)...)
	if all == nil {
		all = []types.Violation{}
	}

	return &Report{
		Pages:      pages,
		Usage:      usage,
		Violations: types.Violations{Violations: all},
	}, nil
}
