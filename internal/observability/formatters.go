// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocumentSummary outputs the section inventory and design of a document.
func (p *Printer) PrintDocumentSummary(doc *types.ResumeDocument) {
	if doc == nil {
		return
	}
	d := doc.Design.Normalized()

	var sb strings.Builder
	if doc.PersonalInfo.Name != "" {
		sb.WriteString(fmt.Sprintf("Name:     %s\n", doc.PersonalInfo.Name))
	}
	sb.WriteString(fmt.Sprintf("Design:   margins %d, spacing %d, %s font, line %.2f\n",
		d.Margins, d.SectionSpacing, d.FontSize, d.LineHeight))
	l, r := layout.ColumnRatio(d.ColumnLayout)
	sb.WriteString(fmt.Sprintf("Columns:  %.0f/%.0f\n", l*100, r*100))
	switch {
	case doc.Layout.HasPages():
		sb.WriteString(fmt.Sprintf("Layout:   manual, %d page groups\n", len(doc.Layout.Pages)))
	case doc.Layout != nil && (len(doc.Layout.Left) > 0 || len(doc.Layout.Right) > 0):
		sb.WriteString("Layout:   columns\n")
	default:
		sb.WriteString("Layout:   default\n")
	}
	sb.WriteString("\nSections:\n")

	ids := append([]string{}, types.BuiltinSections...)
	for _, cs := range doc.CustomSections {
		ids = append(ids, cs.ID)
	}
	for _, id := range ids {
		if n := layout.ItemCount(doc, id); n > 0 {
			sb.WriteString(fmt.Sprintf("  • %-16s %d items\n", id, n))
		}
	}

	p.printBox("RESUME DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPages outputs each page with its column fragments and estimated fill.
func (p *Printer) PrintPages(pages []types.PageContent, usage []types.PageUsage) {
	if len(pages) == 0 {
		p.printBox("PAGINATION", "No pages (document is empty)")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total pages: %d\n", len(pages)))

	for i, page := range pages {
		sb.WriteString(fmt.Sprintf("\nPage %d\n", page.PageIndex+1))
		var u *types.PageUsage
		if i < len(usage) {
			u = &usage[i]
		}
		writeColumn(&sb, "L", page.Left, u, func(u *types.PageUsage) types.ColumnUsage { return u.Left })
		writeColumn(&sb, "R", page.Right, u, func(u *types.PageUsage) types.ColumnUsage { return u.Right })
	}

	p.printBox("PAGINATION", strings.TrimSuffix(sb.String(), "\n"))
}

func writeColumn(sb *strings.Builder, label string, items []types.PageItem, u *types.PageUsage, pick func(*types.PageUsage) types.ColumnUsage) {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, FormatItem(it))
	}
	if len(names) > maxItemsToShow {
		extra := len(names) - maxItemsToShow
		names = append(names[:maxItemsToShow], fmt.Sprintf("+%d", extra))
	}
	line := fmt.Sprintf("  %s: %s", label, strings.Join(names, ", "))
	if len(items) == 0 {
		line = fmt.Sprintf("  %s: -", label)
	}
	if u != nil {
		col := pick(u)
		room := u.Capacity - u.TopOffset
		if room > 0 {
			line += fmt.Sprintf(" (%.0f%%)", 100*col.Used/room)
		}
	}
	sb.WriteString(line + "\n")
}

// FormatItem renders a page item as "id" or "id[start:end]".
func FormatItem(it types.PageItem) string {
	if it.ItemRange == nil {
		return it.SectionID
	}
	return fmt.Sprintf("%s[%d:%d]", it.SectionID, it.ItemRange.Start(), it.ItemRange.End())
}

// PrintViolations outputs any layout violations found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations == nil || len(violations.Violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	for i, v := range violations.Violations {
		details := v.Details
		if len(details) > 45 {
			details = details[:42] + "..."
		}
		marker := "⚠"
		if v.Severity == types.SeverityError {
			marker = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, v.Type))
		sb.WriteString(fmt.Sprintf("  %s\n", details))
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("LAYOUT VIOLATIONS", sb.String())
}

// BatchResult is the outcome of paginating one input file.
type BatchResult struct {
	Path     string
	Pages    int
	Duration time.Duration
	Err      error
}

// PrintBatchSummary outputs one line per file of a batch run.
func (p *Printer) PrintBatchSummary(results []BatchResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s: %v\n", r.Path, r.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s: %d pages in %s\n", r.Path, r.Pages, r.Duration.Round(time.Microsecond)))
	}
	sb.WriteString(fmt.Sprintf("\n%d documents, %d failed", len(results), failed))

	p.printBox("BATCH SUMMARY", sb.String())
}
