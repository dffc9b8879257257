// Package layout provides the pagination engine that assigns resume sections to pages and columns.
package layout

import (
	"github.com/jonathan/resume-layout/internal/types"
)

// PageGroup is one user page: the section IDs of each column, in order.
// Every group starts on a fresh output page.
type PageGroup struct {
	Left  []string
	Right []string
}

// ResolveGroups returns the user page groups to pack.
//
// A non-empty layout.pages is authoritative and used as-is, including empty
// columns, repeated IDs and IDs with no backing content. Otherwise the flat
// layout.left/right form a single group. A document with no layout at all
// gets DefaultLayout.
func ResolveGroups(doc *types.ResumeDocument) []PageGroup {
	if doc == nil {
		return nil
	}
	l := doc.Layout
	if l.HasPages() {
		groups := make([]PageGroup, len(l.Pages))
		for i, p := range l.Pages {
			groups[i] = PageGroup{Left: p.Left, Right: p.Right}
		}
		return groups
	}
	if l != nil && (len(l.Left) > 0 || len(l.Right) > 0) {
		return []PageGroup{{Left: l.Left, Right: l.Right}}
	}
	def := DefaultLayout(doc)
	return []PageGroup{{Left: def.Left, Right: def.Right}}
}

// DefaultLayout assigns sections to columns for a document that has never
// been arranged: the long list sections and custom sections on the left, the
// compact sections on the right. Built-in sections without content are left out.
func DefaultLayout(doc *types.ResumeDocument) types.Layout {
	var out types.Layout
	if doc == nil {
		return out
	}
	if len(doc.Experience) > 0 {
		out.Left = append(out.Left, types.SectionExperience)
	}
	if len(doc.Education) > 0 {
		out.Left = append(out.Left, types.SectionEducation)
	}
	for _, cs := range doc.CustomSections {
		out.Left = append(out.Left, cs.ID)
	}
	if doc.Summary != "" {
		out.Right = append(out.Right, types.SectionSummary)
	}
	if len(doc.SkillCategories) > 0 {
		out.Right = append(out.Right, types.SectionSkills)
	}
	if len(doc.Certifications) > 0 {
		out.Right = append(out.Right, types.SectionCertifications)
	}
	if len(doc.Achievements) > 0 {
		out.Right = append(out.Right, types.SectionAchievements)
	}
	return out
}

// FlattenPages converts a paginated result back into a manual layout override
// with one user page per output page. A split section is listed only on the
// page where it starts. Used to seed the manual rearrangement tool from the
// automatic result.
func FlattenPages(pages []types.PageContent) types.Layout {
	out := types.Layout{Pages: make([]types.PageLayout, 0, len(pages))}
	for _, p := range pages {
		pl := types.PageLayout{Left: []string{}, Right: []string{}}
		for _, it := range p.Left {
			if !it.IsContinuation() {
				pl.Left = append(pl.Left, it.SectionID)
			}
		}
		for _, it := range p.Right {
			if !it.IsContinuation() {
				pl.Right = append(pl.Right, it.SectionID)
			}
		}
		out.Pages = append(out.Pages, pl)
	}
	return out
}
