// Package export turns paginated resumes into PDF files.
package export

import "fmt"

// Error represents an export failure
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// PageMismatchError is returned when the rendered HTML does not hold one
// page element per paginated page.
type PageMismatchError struct {
	Expected int
	Actual   int
}

func (e *PageMismatchError) Error() string {
	return fmt.Sprintf("export error: rendered %d pages, expected %d", e.Actual, e.Expected)
}
