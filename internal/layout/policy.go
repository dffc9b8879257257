// Package layout provides the pagination engine that assigns resume sections to pages and columns.
package layout

import (
	"strings"

	"github.com/jonathan/resume-layout/internal/types"
)

// Fixed height allowances per section type, in layout units.
const (
	SectionHeaderHeight = 32.0
	SectionSpacingStep  = 6.0

	ExperienceRoleLine    = 22.0
	ExperienceCompanyLine = 20.0
	ExperienceGap         = 12.0

	EducationItemHeight = 64.0

	SkillNameLine    = 20.0
	SkillChipPadding = 24.0
	SkillGap         = 8.0

	CertificationItemHeight = 40.0

	AchievementGap = 6.0

	CustomItemHeight = 56.0
)

// skillSeparator approximates the gap between rendered skill chips.
const skillSeparator = "   "

// sectionMeasure is the height policy of one section at one column width:
// a header allowance plus a height per repeatable item.
type sectionMeasure struct {
	header float64
	items  []float64
}

func (m sectionMeasure) count() int {
	return len(m.items)
}

// height returns the height of items [start, end). The header allowance is
// only charged to the chunk that starts at item 0.
func (m sectionMeasure) height(start, end int) float64 {
	start, end = clampRange(start, end, len(m.items))
	h := 0.0
	if start == 0 {
		h += m.header
	}
	for i := start; i < end; i++ {
		h += m.items[i]
	}
	return h
}

// fit returns the first index i >= start such that items [start, i+1) would
// exceed available. It returns start when not even one item fits.
func (m sectionMeasure) fit(start int, available float64) int {
	used := 0.0
	if start == 0 {
		used = m.header
	}
	i := start
	for i < len(m.items) {
		if used+m.items[i] > available {
			break
		}
		used += m.items[i]
		i++
	}
	return i
}

// measureSection builds the height policy for a section. Unknown IDs and
// custom IDs that do not resolve measure as empty with no header.
func measureSection(doc *types.ResumeDocument, id string, width float64, design types.DesignConfig) sectionMeasure {
	if doc == nil {
		return sectionMeasure{}
	}
	header := SectionHeaderHeight + float64(design.SectionSpacing)*SectionSpacingStep

	switch id {
	case types.SectionSummary:
		m := sectionMeasure{header: header}
		if doc.Summary != "" {
			m.items = []float64{EstimateTextHeight(doc.Summary, width, design)}
		}
		return m

	case types.SectionExperience:
		items := make([]float64, len(doc.Experience))
		for i, exp := range doc.Experience {
			h := ExperienceRoleLine + ExperienceCompanyLine + ExperienceGap
			for _, bullet := range exp.Description {
				h += EstimateTextHeight(bullet, width, design)
			}
			items[i] = h
		}
		return sectionMeasure{header: header, items: items}

	case types.SectionEducation:
		return sectionMeasure{header: header, items: constantItems(len(doc.Education), EducationItemHeight)}

	case types.SectionSkills:
		chipWidth := width - SkillChipPadding
		if chipWidth < AvgCharWidth {
			chipWidth = AvgCharWidth
		}
		items := make([]float64, len(doc.SkillCategories))
		for i, cat := range doc.SkillCategories {
			text := strings.Join(cat.Skills, skillSeparator)
			items[i] = SkillNameLine + EstimateTextHeight(text, chipWidth, design) + SkillGap
		}
		return sectionMeasure{header: header, items: items}

	case types.SectionCertifications:
		return sectionMeasure{header: header, items: constantItems(len(doc.Certifications), CertificationItemHeight)}

	case types.SectionAchievements:
		items := make([]float64, len(doc.Achievements))
		for i, a := range doc.Achievements {
			items[i] = EstimateTextHeight(a, width, design) + AchievementGap
		}
		return sectionMeasure{header: header, items: items}
	}

	if cs := doc.FindCustomSection(id); cs != nil {
		return sectionMeasure{header: header, items: constantItems(len(cs.Items), CustomItemHeight)}
	}
	return sectionMeasure{}
}

// ItemCount returns the number of repeatable items in a section.
func ItemCount(doc *types.ResumeDocument, id string) int {
	if doc == nil {
		return 0
	}
	switch id {
	case types.SectionSummary:
		if doc.Summary != "" {
			return 1
		}
		return 0
	case types.SectionExperience:
		return len(doc.Experience)
	case types.SectionEducation:
		return len(doc.Education)
	case types.SectionSkills:
		return len(doc.SkillCategories)
	case types.SectionCertifications:
		return len(doc.Certifications)
	case types.SectionAchievements:
		return len(doc.Achievements)
	}
	if cs := doc.FindCustomSection(id); cs != nil {
		return len(cs.Items)
	}
	return 0
}

// SectionHeight returns the estimated height of a section, or of the item
// slice r when r is non-nil. Out-of-bounds ranges are clamped.
// The design must already be normalized.
func SectionHeight(doc *types.ResumeDocument, id string, r *types.ItemRange, width float64, design types.DesignConfig) float64 {
	m := measureSection(doc, id, width, design)
	if r == nil {
		return m.height(0, m.count())
	}
	return m.height(r.Start(), r.End())
}

// ItemBounds returns the clamped [start, end) item slice a page item covers.
func ItemBounds(doc *types.ResumeDocument, item types.PageItem) (int, int) {
	n := ItemCount(doc, item.SectionID)
	if item.ItemRange == nil {
		return 0, n
	}
	return clampRange(item.ItemRange.Start(), item.ItemRange.End(), n)
}

func constantItems(n int, h float64) []float64 {
	items := make([]float64, n)
	for i := range items {
		items[i] = h
	}
	return items
}

// clampRange clamps [start, end) into [0, n] with start <= end.
func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return start, end
}
