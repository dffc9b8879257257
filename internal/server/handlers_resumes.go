package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-layout/internal/db"
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/server/middleware"
	"github.com/jonathan/resume-layout/internal/types"
)

// toAPIResume converts a stored resume to its API form.
func toAPIResume(r *db.Resume) *types.Resume {
	return &types.Resume{
		ID:         r.ID,
		UserID:     r.UserID,
		Title:      r.Title,
		Document:   r.Document,
		ShareToken: r.ShareToken,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// toValidationError turns the first validator failure into an ErrValidation.
func toValidationError(err error) *ErrValidation {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return &ErrValidation{Field: ve[0].Namespace(), Message: ve[0].Tag()}
	}
	return &ErrValidation{Message: err.Error()}
}

// decodeJSON decodes a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Message: "invalid request body"}
	}
	return nil
}

// readResumeRequest decodes and validates a create or replace request. The
// design is normalized first so omitted values take their defaults.
func readResumeRequest(w http.ResponseWriter, r *http.Request) (*types.ResumeRequest, error) {
	var req types.ResumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Document.Design = req.Document.Design.Normalized()
	if err := req.Validate(); err != nil {
		return nil, toValidationError(err)
	}
	return &req, nil
}

// currentUser returns the authenticated user ID, writing a 401 when absent.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// ownedResume loads the resume named by the {id} path value. Resumes of
// other users are reported as not found.
func (s *Server) ownedResume(w http.ResponseWriter, r *http.Request) (*db.Resume, bool) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return nil, false
	}

	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.failResponse(w, &ErrValidation{Field: "id", Message: "invalid resume ID"})
		return nil, false
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.failResponse(w, fmt.Errorf("failed to get resume: %w", err))
		return nil, false
	}
	if resume == nil || resume.UserID != userID {
		s.failResponse(w, &ErrResumeNotFound{ID: raw})
		return nil, false
	}
	return resume, true
}

// snapshotPages recomputes and stores the page snapshot of a resume. The
// snapshot is a cache, so a failed save is only logged.
func (s *Server) snapshotPages(ctx context.Context, resumeID uuid.UUID, doc *types.ResumeDocument) []types.PageContent {
	pages := layout.PaginateOrFallback(doc, s.layoutOpts)
	if err := s.store.SavePages(ctx, resumeID, pages, s.layoutKey); err != nil {
		log.Printf("[server] failed to save page snapshot for %s: %v", resumeID, err)
	}
	return pages
}

// handleListResumes lists the caller's resumes.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	summaries, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		s.failResponse(w, fmt.Errorf("failed to list resumes: %w", err))
		return
	}

	out := make([]types.ResumeSummary, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, types.ResumeSummary{
			ID:        sum.ID,
			Title:     sum.Title,
			PageCount: sum.PageCount,
			UpdatedAt: sum.UpdatedAt,
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": out, "count": len(out)})
}

// handleCreateResume stores a new resume and its page snapshot.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	req, err := readResumeRequest(w, r)
	if err != nil {
		s.failResponse(w, err)
		return
	}

	resume, err := s.store.CreateResume(r.Context(), userID, req.Title, &req.Document)
	if err != nil {
		s.failResponse(w, fmt.Errorf("failed to create resume: %w", err))
		return
	}
	s.snapshotPages(r.Context(), resume.ID, &resume.Document)

	s.jsonResponse(w, http.StatusCreated, toAPIResume(resume))
}

// handleGetResume returns one of the caller's resumes.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, toAPIResume(resume))
}

// handleUpdateResume replaces the title and whole document of a resume.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	req, err := readResumeRequest(w, r)
	if err != nil {
		s.failResponse(w, err)
		return
	}

	resume, err := s.store.UpdateResume(r.Context(), existing.ID, req.Title, &req.Document)
	if err != nil {
		s.failResponse(w, fmt.Errorf("failed to update resume: %w", err))
		return
	}
	s.snapshotPages(r.Context(), resume.ID, &resume.Document)

	s.jsonResponse(w, http.StatusOK, toAPIResume(resume))
}

// handleDeleteResume deletes a resume and its snapshot.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteResume(r.Context(), resume.ID); err != nil {
		s.failResponse(w, fmt.Errorf("failed to delete resume: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetResumePages returns the pagination of a resume. A snapshot taken
// after the last document change with the current packer options is served
// without repaginating; otherwise pages are recomputed and the snapshot
// refreshed.
func (s *Server) handleGetResumePages(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}
	maxPages, err := intQuery(r, "maxPages")
	if err != nil {
		s.failResponse(w, err)
		return
	}

	snapshot, err := s.store.GetPages(r.Context(), resume.ID)
	if err != nil {
		s.failResponse(w, fmt.Errorf("failed to get pages: %w", err))
		return
	}

	if s.snapshotFresh(snapshot, resume) {
		s.jsonResponse(w, http.StatusOK, s.pageReport(&resume.Document, snapshot.Pages, maxPages))
		return
	}

	resp := s.paginate(&resume.Document, maxPages)
	if err := s.store.SavePages(r.Context(), resume.ID, resp.Pages, s.layoutKey); err != nil {
		log.Printf("[server] failed to save page snapshot for %s: %v", resume.ID, err)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) snapshotFresh(snapshot *db.PageSnapshot, resume *db.Resume) bool {
	return snapshot != nil &&
		snapshot.OptionsKey == s.layoutKey &&
		!snapshot.ComputedAt.Before(resume.UpdatedAt)
}

// handleUpdateLayout replaces only the layout of a resume, as sent by the
// manual rearrangement tool, and returns the new pagination.
func (s *Server) handleUpdateLayout(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var req types.LayoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failResponse(w, err)
		return
	}

	doc := resume.Document.Clone()
	doc.Layout = &req.Layout

	updated, err := s.store.UpdateResume(r.Context(), resume.ID, resume.Title, doc)
	if err != nil {
		s.failResponse(w, fmt.Errorf("failed to update layout: %w", err))
		return
	}

	resp := s.paginate(&updated.Document, 0)
	if err := s.store.SavePages(r.Context(), updated.ID, resp.Pages, s.layoutKey); err != nil {
		log.Printf("[server] failed to save page snapshot for %s: %v", updated.ID, err)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleExportPDF renders a resume to PDF with the headless browser.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}
	if s.exporter == nil {
		s.failResponse(w, &ErrExportUnavailable{})
		return
	}

	pages := layout.PaginateOrFallback(&resume.Document, s.layoutOpts)
	pdf, err := s.exporter.ExportDocument(r.Context(), &resume.Document, pages, s.layoutOpts)
	if err != nil {
		log.Printf("[export] export of %s failed: %v", resume.ID, err)
		s.errorResponse(w, http.StatusBadGateway, "PDF export failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFilename(resume.Title)))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[export] failed to write PDF for %s: %v", resume.ID, err)
	}
}

// pdfFilename derives a download name from a resume title.
func pdfFilename(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			return r
		case unicode.IsSpace(r):
			return '-'
		default:
			return -1
		}
	}, strings.TrimSpace(title))
	if name == "" {
		name = "resume"
	}
	return name + ".pdf"
}

// handleShareResume creates the read-only share token of a resume, or
// returns the existing one.
func (s *Server) handleShareResume(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var token string
	if resume.ShareToken != nil && *resume.ShareToken != "" {
		token = *resume.ShareToken
	} else {
		token = strings.ReplaceAll(uuid.NewString(), "-", "")
		if err := s.store.SetShareToken(r.Context(), resume.ID, token); err != nil {
			s.failResponse(w, fmt.Errorf("failed to share resume: %w", err))
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, types.ShareResponse{
		Token: token,
		URL:   strings.TrimRight(s.publicURL, "/") + "/shared/" + token,
	})
}

// handleGetShared serves the read-only preview of a shared resume.
func (s *Server) handleGetShared(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	resume, err := s.store.GetResumeByShareToken(r.Context(), token)
	if err != nil {
		s.failResponse(w, fmt.Errorf("failed to get shared resume: %w", err))
		return
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, "shared resume not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.SharedResume{
		Title:    resume.Title,
		Document: resume.Document,
		Pages:    layout.PaginateOrFallback(&resume.Document, s.layoutOpts),
	})
}
