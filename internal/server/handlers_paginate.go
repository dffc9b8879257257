package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/jonathan/resume-layout/internal/validation"
)

// paginate runs the packer behind the fallback guard and measures the result.
// maxPages > 0 adds a page budget check.
func (s *Server) paginate(doc *types.ResumeDocument, maxPages int) types.PaginateResponse {
	return s.pageReport(doc, layout.PaginateOrFallback(doc, s.layoutOpts), maxPages)
}

// pageReport measures pages computed for doc and collects their violations.
func (s *Server) pageReport(doc *types.ResumeDocument, pages []types.PageContent, maxPages int) types.PaginateResponse {
	usage := layout.Measure(doc, pages, s.layoutOpts)

	var violations []types.Violation
	violations = append(violations, validation.CheckSectionReferences(doc)...)
	violations = append(violations, validation.CheckColumnOverflow(usage)...)
	violations = append(violations, validation.CheckPageCount(pages, maxPages)...)

	return types.PaginateResponse{
		Pages:      pages,
		Usage:      usage,
		Violations: violations,
	}
}

// handlePaginate paginates a document posted in the body without storing it.
// Optional query parameter maxPages adds a page budget check.
func (s *Server) handlePaginate(w http.ResponseWriter, r *http.Request) {
	maxPages, err := intQuery(r, "maxPages")
	if err != nil {
		s.failResponse(w, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	doc, err := validation.DecodeDocument(data)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, s.paginate(doc, maxPages))
}

// intQuery parses a non-negative integer query parameter; missing means zero.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	return v, nil
}
