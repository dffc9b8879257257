// Package rendering renders paginated resumes as read-only HTML pages.
package rendering

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
)

// FragmentView is one placed section, or slice of a section, in a column.
type FragmentView struct {
	SectionID string
	Title     string
	// ShowHeader is false for continuation fragments.
	ShowHeader bool
	Entries    []EntryView
}

// EntryView is one rendered section item.
type EntryView struct {
	Heading    string
	Subheading string
	Meta       string
	Text       string
	Bullets    []string
	Chips      []string
}

var builtinTitles = map[string]string{
	types.SectionSummary:        "Summary",
	types.SectionExperience:     "Experience",
	types.SectionEducation:      "Education",
	types.SectionSkills:         "Skills",
	types.SectionCertifications: "Certifications",
	types.SectionAchievements:   "Achievements",
}

var customTitles = map[string]string{
	types.CustomTypeProjects:     "Projects",
	types.CustomTypeVolunteering: "Volunteering",
	types.CustomTypeStrengths:    "Strengths",
	types.CustomTypeExpertise:    "Expertise",
	types.CustomTypeMyTime:       "My Time",
	types.CustomTypeCustom:       "Custom Section",
}

// SectionTitle returns the heading shown for a section.
func SectionTitle(doc *types.ResumeDocument, id string) string {
	if t, ok := builtinTitles[id]; ok {
		return t
	}
	if doc == nil {
		return id
	}
	if cs := doc.FindCustomSection(id); cs != nil {
		if cs.Title != "" {
			return cs.Title
		}
		if t, ok := customTitles[cs.Type]; ok {
			return t
		}
	}
	return id
}

// buildFragment resolves a page item against the document. The second
// result is false when the item references a section that does not exist.
func buildFragment(doc *types.ResumeDocument, item types.PageItem) (FragmentView, bool) {
	if !doc.HasSection(item.SectionID) {
		return FragmentView{}, false
	}
	start, end := layout.ItemBounds(doc, item)
	return FragmentView{
		SectionID:  item.SectionID,
		Title:      SectionTitle(doc, item.SectionID),
		ShowHeader: !item.IsContinuation(),
		Entries:    buildEntries(doc, item.SectionID, start, end),
	}, true
}

func buildEntries(doc *types.ResumeDocument, id string, start, end int) []EntryView {
	entries := make([]EntryView, 0, end-start)
	switch id {
	case types.SectionSummary:
		if start < end {
			entries = append(entries, EntryView{Text: doc.Summary})
		}
	case types.SectionExperience:
		for _, e := range doc.Experience[start:end] {
			entries = append(entries, EntryView{
				Heading:    e.Role,
				Subheading: joinNonEmpty(" · ", e.Company, e.Location),
				Meta:       formatDates(e.StartDate, e.EndDate, e.Current),
				Bullets:    nonEmpty(e.Description),
			})
		}
	case types.SectionEducation:
		for _, e := range doc.Education[start:end] {
			entry := EntryView{
				Heading:    joinNonEmpty(", ", e.Degree, e.Field),
				Subheading: joinNonEmpty(" · ", e.School, e.Location),
				Meta:       formatDates(e.StartDate, e.EndDate, false),
			}
			if e.GPA != "" {
				entry.Text = "GPA " + e.GPA
			}
			entries = append(entries, entry)
		}
	case types.SectionSkills:
		for _, c := range doc.SkillCategories[start:end] {
			entries = append(entries, EntryView{Heading: c.Name, Chips: nonEmpty(c.Skills)})
		}
	case types.SectionCertifications:
		for _, c := range doc.Certifications[start:end] {
			entries = append(entries, EntryView{Heading: c.Name, Subheading: c.Issuer, Meta: c.Date})
		}
	case types.SectionAchievements:
		for _, a := range doc.Achievements[start:end] {
			entries = append(entries, EntryView{Text: a})
		}
	default:
		if cs := doc.FindCustomSection(id); cs != nil {
			for _, it := range cs.Items[start:end] {
				entries = append(entries, EntryView{
					Heading:    it.Title,
					Subheading: it.Subtitle,
					Meta:       it.Date,
					Text:       it.Description,
					Bullets:    nonEmpty(it.Bullets),
					Chips:      fieldChips(it.Fields),
				})
			}
		}
	}
	return entries
}

func formatDates(start, end string, current bool) string {
	if current {
		end = "Present"
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " - " + end
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts), sep)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// fieldChips renders custom item fields as "key: value" in key order.
func fieldChips(fields map[string]string) []string {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	chips := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := fields[k]; v != "" {
			chips = append(chips, k+": "+v)
		}
	}
	return chips
}
