// Package types provides type definitions for structured data used throughout the resume-layout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Built-in section IDs. These sections are singletons whose content lives
// directly on the ResumeDocument.
const (
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionCertifications = "certifications"
	SectionAchievements   = "achievements"
)

// BuiltinSections lists the built-in section IDs in their canonical order.
var BuiltinSections = []string{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionCertifications,
	SectionAchievements,
}

// IsBuiltinSection reports whether id names one of the singleton sections.
func IsBuiltinSection(id string) bool {
	for _, s := range BuiltinSections {
		if s == id {
			return true
		}
	}
	return false
}

// Custom section types
const (
	CustomTypeProjects     = "projects"
	CustomTypeVolunteering = "volunteering"
	CustomTypeStrengths    = "strengths"
	CustomTypeExpertise    = "expertise"
	CustomTypeMyTime       = "mytime"
	CustomTypeCustom       = "custom"
)

// ResumeDocument is the complete editable resume. It is treated as an
// immutable value: every edit produces a new document.
type ResumeDocument struct {
	PersonalInfo    PersonalInfo    `json:"personalInfo"`
	Summary         string          `json:"summary"`
	Experience      []Experience    `json:"experience" validate:"dive"`
	Education       []Education     `json:"education" validate:"dive"`
	SkillCategories []SkillCategory `json:"skillCategories" validate:"dive"`
	Certifications  []Certification `json:"certifications" validate:"dive"`
	Achievements    []string        `json:"achievements"`
	CustomSections  []CustomSection `json:"customSections" validate:"dive"`
	Layout          *Layout         `json:"layout,omitempty"`
	Design          DesignConfig    `json:"design"`
}

// PersonalInfo is rendered in the name/title header block of the first page.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Experience is a single work experience entry
type Experience struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Current     bool     `json:"current,omitempty"`
	Description []string `json:"description"`
}

// Education is a single education entry
type Education struct {
	ID        string `json:"id"`
	Degree    string `json:"degree"`
	School    string `json:"school"`
	Field     string `json:"field,omitempty"`
	Location  string `json:"location,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	GPA       string `json:"gpa,omitempty"`
}

// SkillCategory groups skills rendered as chips under a category name
type SkillCategory struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// Certification is a single certification entry
type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty" validate:"omitempty,url"`
}

// CustomSection is a user-created section. The shape of its items depends on Type.
type CustomSection struct {
	ID    string       `json:"id" validate:"required"`
	Type  string       `json:"type" validate:"required,oneof=projects volunteering strengths expertise mytime custom"`
	Title string       `json:"title"`
	Items []CustomItem `json:"items"`
}

// CustomItem is a heterogeneous custom-section entry. Which fields are
// populated depends on the owning section's type.
type CustomItem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	Subtitle    string            `json:"subtitle,omitempty"`
	Date        string            `json:"date,omitempty"`
	Description string            `json:"description,omitempty"`
	Bullets     []string          `json:"bullets,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// Layout assigns section IDs to columns. Pages, when non-empty, is an
// explicit multi-page manual override and takes precedence over Left/Right.
type Layout struct {
	Left  []string     `json:"left,omitempty"`
	Right []string     `json:"right,omitempty"`
	Pages []PageLayout `json:"pages,omitempty"`
}

// PageLayout is one user-declared page group
type PageLayout struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

// HasPages reports whether the layout carries a manual multi-page override.
func (l *Layout) HasPages() bool {
	return l != nil && len(l.Pages) > 0
}

// FindCustomSection returns the custom section with the given ID, or nil.
func (d *ResumeDocument) FindCustomSection(id string) *CustomSection {
	for i := range d.CustomSections {
		if d.CustomSections[i].ID == id {
			return &d.CustomSections[i]
		}
	}
	return nil
}

// HasSection reports whether id resolves to content on the document.
// Built-in sections always exist implicitly.
func (d *ResumeDocument) HasSection(id string) bool {
	if IsBuiltinSection(id) {
		return true
	}
	return d.FindCustomSection(id) != nil
}

// Clone returns a deep copy of the document. Used by the editing layer when
// it needs a fresh value to modify; layout computation never clones.
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return nil
	}
	out := *d
	if d.Experience != nil {
		out.Experience = make([]Experience, len(d.Experience))
		for i, e := range d.Experience {
			e.Description = cloneStrings(e.Description)
			out.Experience[i] = e
		}
	}
	if d.Education != nil {
		out.Education = make([]Education, len(d.Education))
		copy(out.Education, d.Education)
	}
	if d.SkillCategories != nil {
		out.SkillCategories = make([]SkillCategory, len(d.SkillCategories))
		for i, c := range d.SkillCategories {
			c.Skills = cloneStrings(c.Skills)
			out.SkillCategories[i] = c
		}
	}
	if d.Certifications != nil {
		out.Certifications = make([]Certification, len(d.Certifications))
		copy(out.Certifications, d.Certifications)
	}
	out.Achievements = cloneStrings(d.Achievements)
	if d.CustomSections != nil {
		out.CustomSections = make([]CustomSection, len(d.CustomSections))
		for i, s := range d.CustomSections {
			if s.Items != nil {
				items := make([]CustomItem, len(s.Items))
				for j, it := range s.Items {
					it.Bullets = cloneStrings(it.Bullets)
					if it.Fields != nil {
						fields := make(map[string]string, len(it.Fields))
						for k, v := range it.Fields {
							fields[k] = v
						}
						it.Fields = fields
					}
					items[j] = it
				}
				s.Items = items
			}
			out.CustomSections[i] = s
		}
	}
	if d.Layout != nil {
		l := Layout{
			Left:  cloneStrings(d.Layout.Left),
			Right: cloneStrings(d.Layout.Right),
		}
		if d.Layout.Pages != nil {
			l.Pages = make([]PageLayout, len(d.Layout.Pages))
			for i, p := range d.Layout.Pages {
				l.Pages[i] = PageLayout{Left: cloneStrings(p.Left), Right: cloneStrings(p.Right)}
			}
		}
		out.Layout = &l
	}
	return &out
}

// Validate validates the document using the validator.
func (d *ResumeDocument) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
