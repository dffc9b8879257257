// Package validation checks resume documents and their pagination for layout problems.
package validation

import (
	"fmt"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
)

// CheckSectionReferences reports layout entries that do not resolve to a
// section, sections listed more than once, and sections with content that an
// explicit layout leaves out. All are warnings: the packer tolerates them.
func CheckSectionReferences(doc *types.ResumeDocument) []types.Violation {
	var violations []types.Violation
	if doc == nil {
		return violations
	}

	seen := make(map[string]int)
	for _, g := range layout.ResolveGroups(doc) {
		for _, col := range [][]string{g.Left, g.Right} {
			for _, id := range col {
				seen[id]++
				if seen[id] == 2 {
					violations = append(violations, types.Violation{
						Type:             types.ViolationDuplicateSection,
						Severity:         types.SeverityWarning,
						Details:          fmt.Sprintf("section %q is listed more than once and will render repeatedly", id),
						AffectedSections: []string{id},
					})
				}
				if seen[id] == 1 && !doc.HasSection(id) {
					violations = append(violations, types.Violation{
						Type:             types.ViolationUnknownSection,
						Severity:         types.SeverityWarning,
						Details:          fmt.Sprintf("layout references section %q which does not exist", id),
						AffectedSections: []string{id},
					})
				}
			}
		}
	}

	if doc.Layout == nil {
		return violations
	}
	for _, id := range contentSections(doc) {
		if seen[id] == 0 {
			violations = append(violations, types.Violation{
				Type:             types.ViolationMissingSection,
				Severity:         types.SeverityWarning,
				Details:          fmt.Sprintf("section %q has content but is not placed in the layout", id),
				AffectedSections: []string{id},
			})
		}
	}
	return violations
}

// contentSections lists every section that has something to render.
func contentSections(doc *types.ResumeDocument) []string {
	var ids []string
	for _, id := range types.BuiltinSections {
		if layout.ItemCount(doc, id) > 0 {
			ids = append(ids, id)
		}
	}
	for _, cs := range doc.CustomSections {
		ids = append(ids, cs.ID)
	}
	return ids
}
