package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/resume-layout/internal/db"
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/types"
)

// Store is the persistence used by the API. *db.DB satisfies it.
// Getters return nil, nil when nothing matches.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)

	CreateResume(ctx context.Context, userID uuid.UUID, title string, doc *types.ResumeDocument) (*db.Resume, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	GetResumeByShareToken(ctx context.Context, token string) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.ResumeSummary, error)
	UpdateResume(ctx context.Context, id uuid.UUID, title string, doc *types.ResumeDocument) (*db.Resume, error)
	DeleteResume(ctx context.Context, id uuid.UUID) error
	SetShareToken(ctx context.Context, id uuid.UUID, token string) error

	SavePages(ctx context.Context, resumeID uuid.UUID, pages []types.PageContent, optionsKey string) error
	GetPages(ctx context.Context, resumeID uuid.UUID) (*db.PageSnapshot, error)

	Close()
}

var _ Store = (*db.DB)(nil)

// PDFExporter turns a paginated document into PDF bytes. *export.Exporter satisfies it.
type PDFExporter interface {
	ExportDocument(ctx context.Context, doc *types.ResumeDocument, pages []types.PageContent, opts layout.Options) ([]byte, error)
	Close(ctx context.Context)
}
