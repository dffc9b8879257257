package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-layout/internal/types"
)

// User represents a user account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Resume is a stored resume document. The document is kept as JSONB and is
// the only input to pagination.
type Resume struct {
	ID         uuid.UUID            `json:"id"`
	UserID     uuid.UUID            `json:"user_id"`
	Title      string               `json:"title"`
	Document   types.ResumeDocument `json:"document"`
	ShareToken *string              `json:"share_token,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// ResumeSummary is a lightweight view of a resume for listing
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	PageCount int       `json:"page_count"` // 0 when no snapshot exists
	UpdatedAt time.Time `json:"updated_at"`
}

// PageSnapshot is the cached pagination result of a resume.
type PageSnapshot struct {
	ResumeID   uuid.UUID           `json:"resume_id"`
	Pages      []types.PageContent `json:"pages"`
	PageCount  int                 `json:"page_count"`
	OptionsKey string              `json:"options_key"` // layout.Options.Key of the run that produced Pages
	ComputedAt time.Time           `json:"computed_at"`
}
