package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-layout/internal/types"
)

const resumeColumns = `id, user_id, title, document, share_token, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (*Resume, error) {
	var r Resume
	var document []byte
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &document, &r.ShareToken, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(document, &r.Document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &r, nil
}

// CreateResume stores a new resume for a user
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title string, doc *types.ResumeDocument) (*Resume, error) {
	document, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, document)
		 VALUES ($1, $2, $3)
		 RETURNING `+resumeColumns,
		userID, title, document,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// GetResume retrieves a resume by ID. Returns nil, nil when not found.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// GetResumeByShareToken retrieves a shared resume. Returns nil, nil when the
// token is unknown.
func (db *DB) GetResumeByShareToken(ctx context.Context, token string) (*Resume, error) {
	if token == "" {
		return nil, nil
	}
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE share_token = $1`, token,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shared resume: %w", err)
	}
	return r, nil
}

// ListResumes lists a user's resumes, most recently updated first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT r.id, r.title, COALESCE(p.page_count, 0), r.updated_at
		 FROM resumes r
		 LEFT JOIN resume_pages p ON p.resume_id = r.id
		 WHERE r.user_id = $1
		 ORDER BY r.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []ResumeSummary{}
	for rows.Next() {
		var s ResumeSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.PageCount, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// UpdateResume replaces the title and whole document of a resume
func (db *DB) UpdateResume(ctx context.Context, id uuid.UUID, title string, doc *types.ResumeDocument) (*Resume, error) {
	document, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	r, err := scanResume(db.pool.QueryRow(ctx,
		`UPDATE resumes SET title = $2, document = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+resumeColumns,
		id, title, document,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "resume", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return r, nil
}

// DeleteResume deletes a resume and its page snapshot (via cascade)
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Entity: "resume", ID: id.String()}
	}
	return nil
}

// SetShareToken sets the read-only share token of a resume
func (db *DB) SetShareToken(ctx context.Context, id uuid.UUID, token string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET share_token = $2 WHERE id = $1`,
		id, token,
	)
	if err != nil {
		return fmt.Errorf("failed to set share token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{Entity: "resume", ID: id.String()}
	}
	return nil
}
