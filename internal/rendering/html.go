// Package rendering renders paginated resumes as read-only HTML pages.
package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// PageTemplate is the template used by RenderHTML.
const PageTemplate = "pages.html.tmpl"

// baseFontSize is the normal font size in px that the estimator's average
// character width corresponds to.
const baseFontSize = 14.0

// TemplateData represents the data structure passed to the page template
type TemplateData struct {
	Title        string
	Personal     types.PersonalInfo
	Contacts     []string
	PageWidth    float64
	PageHeight   float64
	Margin       float64
	LeftWidth    float64
	RightWidth   float64
	HeaderHeight float64
	TopOffset    float64
	FontSize     float64
	LineHeight   float64
	FontFamily   template.CSS
	PrimaryColor template.CSS
	Pages        []PageView
}

// PageView is one rendered page.
type PageView struct {
	Index int
	First bool
	Left  []FragmentView
	Right []FragmentView
}

// RenderHTML renders the pages of doc as a standalone HTML document with one
// section.page element per PageContent. Page and column sizes come from the
// same geometry the packer uses.
func RenderHTML(doc *types.ResumeDocument, pages []types.PageContent, opts layout.Options) (string, error) {
	if doc == nil {
		return "", &RenderError{Message: "document is nil"}
	}

	tmpl, err := parseTemplate(PageTemplate)
	if err != nil {
		return "", err
	}

	data := buildTemplateData(doc, pages, opts)

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// parseTemplate parses an embedded page template
func parseTemplate(name string) (*template.Template, error) {
	tmpl, err := template.New(name).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to parse template %s", name),
			Cause:   err,
		}
	}
	return tmpl, nil
}

func buildTemplateData(doc *types.ResumeDocument, pages []types.PageContent, opts layout.Options) *TemplateData {
	design := doc.Design.Normalized()
	geo := layout.NewGeometry(design, opts)

	title := doc.PersonalInfo.Name
	if title == "" {
		title = "Resume"
	}

	data := &TemplateData{
		Title:        title,
		Personal:     doc.PersonalInfo,
		Contacts:     nonEmpty([]string{doc.PersonalInfo.Email, doc.PersonalInfo.Phone, doc.PersonalInfo.Location, doc.PersonalInfo.Website, doc.PersonalInfo.LinkedIn}),
		PageWidth:    geo.PageWidth,
		PageHeight:   geo.PageHeight,
		Margin:       geo.Margin,
		LeftWidth:    geo.Columns.Left,
		RightWidth:   geo.Columns.Right,
		HeaderHeight: geo.TopOffset(0),
		TopOffset:    geo.TopOffset(1),
		FontSize:     baseFontSize * layout.FontSizeMultiplier(design.FontSize),
		LineHeight:   design.LineHeight,
		FontFamily:   FontStack(design.FontFamily),
		PrimaryColor: CSSColor(design.PrimaryColor),
		Pages:        make([]PageView, 0, len(pages)),
	}

	for _, p := range pages {
		data.Pages = append(data.Pages, PageView{
			Index: p.PageIndex,
			First: p.PageIndex == 0,
			Left:  buildColumn(doc, p.Left),
			Right: buildColumn(doc, p.Right),
		})
	}
	return data
}

func buildColumn(doc *types.ResumeDocument, items []types.PageItem) []FragmentView {
	out := make([]FragmentView, 0, len(items))
	for _, it := range items {
		f, ok := buildFragment(doc, it)
		if !ok {
			log.Printf("[rendering] skipping unknown section %q", it.SectionID)
			continue
		}
		out = append(out, f)
	}
	return out
}
