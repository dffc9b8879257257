// Package validation checks resume documents and their pagination for layout problems.
package validation

import (
	"fmt"

	"github.com/jonathan/resume-layout/internal/types"
)

// CheckColumnOverflow reports columns whose estimated content runs past the
// page. A lone oversize fragment is expected (the packer places it alone) and
// is a warning; several fragments overflowing together is an error.
func CheckColumnOverflow(usage []types.PageUsage) []types.Violation {
	var violations []types.Violation
	for _, u := range usage {
		for _, c := range []struct {
			name  string
			usage types.ColumnUsage
		}{{"left", u.Left}, {"right", u.Right}} {
			if !c.usage.Overflows(u.TopOffset, u.Capacity) {
				continue
			}
			page := u.PageIndex
			column := c.name
			over := u.TopOffset + c.usage.Used - u.Capacity

			ids := make([]string, 0, len(c.usage.Items))
			for _, it := range c.usage.Items {
				ids = append(ids, it.SectionID)
			}

			v := types.Violation{
				Type:             types.ViolationColumnOverflow,
				Severity:         types.SeverityError,
				Details:          fmt.Sprintf("page %d %s column overflows by %.0f units", page+1, column, over),
				AffectedSections: ids,
				PageIndex:        &page,
				Column:           &column,
				Overflow:         &over,
			}
			if len(c.usage.Items) == 1 {
				v.Type = types.ViolationOversizeItem
				v.Severity = types.SeverityWarning
				v.Details = fmt.Sprintf("%s on page %d is taller than the page and will be clipped by %.0f units", ids[0], page+1, over)
			}
			violations = append(violations, v)
		}
	}
	return violations
}

// OverflowAnalysis summarizes how far a pagination result is over a page budget.
type OverflowAnalysis struct {
	ExcessPages    int     // Pages beyond the budget
	ExcessHeight   float64 // Estimated content height on those pages, tallest column per page
	LastPageFill   float64 // Fill ratio (0-1) of the tallest column on the last page
	FitsWithTrim   bool    // The excess is smaller than the unused space before it
	UnusedCapacity float64 // Unused height across the budgeted pages, tallest column per page
}

// AnalyzePageOverflow compares usage against maxPages. It returns an empty
// analysis when the result fits or maxPages is not positive.
func AnalyzePageOverflow(usage []types.PageUsage, maxPages int) *OverflowAnalysis {
	analysis := &OverflowAnalysis{}
	if len(usage) == 0 {
		return analysis
	}

	last := usage[len(usage)-1]
	analysis.LastPageFill = fillRatio(last)

	if maxPages <= 0 || len(usage) <= maxPages {
		return analysis
	}

	analysis.ExcessPages = len(usage) - maxPages
	for i, u := range usage {
		used := max(u.Left.Used, u.Right.Used)
		if i >= maxPages {
			analysis.ExcessHeight += used
			continue
		}
		if free := u.Capacity - u.TopOffset - used; free > 0 {
			analysis.UnusedCapacity += free
		}
	}
	analysis.FitsWithTrim = analysis.ExcessHeight <= analysis.UnusedCapacity
	return analysis
}

func fillRatio(u types.PageUsage) float64 {
	room := u.Capacity - u.TopOffset
	if room <= 0 {
		return 1
	}
	r := max(u.Left.Used, u.Right.Used) / room
	return min(r, 1)
}
