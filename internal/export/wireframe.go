// Package export turns paginated resumes into PDF files.
package export

import (
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
)

// ptPerPx converts layout units (CSS px at 96 dpi) to PDF points.
const ptPerPx = 0.75

// Wireframe draws the estimated layout of pages as outlined boxes: the
// margins, the reserved top area, both columns and every placed fragment at
// its estimated height. Fragments that overflow the page are drawn in red.
func Wireframe(w io.Writer, doc *types.ResumeDocument, pages []types.PageContent, opts layout.Options) error {
	var design types.DesignConfig
	if doc != nil {
		design = doc.Design
	}
	geo := layout.NewGeometry(design, opts)
	usage := layout.Measure(doc, pages, opts)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: geo.PageWidth * ptPerPx, Ht: geo.PageHeight * ptPerPx},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Resume layout wireframe", true)
	pdf.SetCreator("resume_layout", true)
	pdf.SetFont("Helvetica", "", 7)

	for _, u := range usage {
		pdf.AddPage()
		drawPage(pdf, geo, u)
	}
	if len(usage) == 0 {
		pdf.AddPage()
	}

	if err := pdf.Output(w); err != nil {
		return &Error{Message: "failed to write wireframe", Cause: err}
	}
	return nil
}

func drawPage(pdf *fpdf.Fpdf, geo layout.Geometry, u types.PageUsage) {
	px := func(v float64) float64 { return v * ptPerPx }

	top := geo.Margin
	bottom := geo.Margin + u.Capacity

	// Content area
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.5)
	pdf.Rect(px(geo.Margin), px(top), px(geo.ContentWidth), px(u.Capacity), "D")

	// Reserved top area
	pdf.SetFillColor(235, 235, 235)
	pdf.Rect(px(geo.Margin), px(top), px(geo.ContentWidth), px(u.TopOffset), "F")
	pdf.SetTextColor(120, 120, 120)
	pdf.Text(px(geo.Margin)+2, px(top)+8, fmt.Sprintf("page %d  top %.0f  capacity %.0f", u.PageIndex+1, u.TopOffset, u.Capacity))

	drawColumn(pdf, px, geo.Margin, top+u.TopOffset, bottom, u.Left)
	drawColumn(pdf, px, geo.Margin+geo.Columns.Left, top+u.TopOffset, bottom, u.Right)
}

func drawColumn(pdf *fpdf.Fpdf, px func(float64) float64, x, y, bottom float64, col types.ColumnUsage) {
	for _, it := range col.Items {
		if it.Height <= 0 {
			continue
		}
		if y+it.Height > bottom {
			pdf.SetDrawColor(220, 38, 38)
			pdf.SetTextColor(220, 38, 38)
		} else {
			pdf.SetDrawColor(37, 99, 235)
			pdf.SetTextColor(30, 30, 30)
		}
		pdf.Rect(px(x)+1, px(y), px(col.Width)-2, px(it.Height), "D")
		pdf.Text(px(x)+4, px(y)+9, fmt.Sprintf("%s  %.0fpx", fragmentLabel(it.PageItem), it.Height))
		y += it.Height
	}
}

func fragmentLabel(it types.PageItem) string {
	if it.ItemRange == nil {
		return it.SectionID
	}
	return fmt.Sprintf("%s [%d:%d]", it.SectionID, it.ItemRange.Start(), it.ItemRange.End())
}
