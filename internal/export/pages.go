// Package export turns paginated resumes into PDF files.
package export

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageSelector matches one rendered page.
const PageSelector = "section.page"

// CountPages returns the number of page elements in rendered HTML.
func CountPages(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, &Error{Message: "failed to parse rendered HTML", Cause: err}
	}
	return doc.Find(PageSelector).Length(), nil
}

// CheckPages verifies that html holds exactly expected pages.
func CheckPages(html string, expected int) error {
	n, err := CountPages(html)
	if err != nil {
		return err
	}
	if n != expected {
		return &PageMismatchError{Expected: expected, Actual: n}
	}
	return nil
}
