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

// SavePages stores the pagination result of a resume, replacing any earlier snapshot.
// optionsKey records the packer options the pages were computed with.
func (db *DB) SavePages(ctx context.Context, resumeID uuid.UUID, pages []types.PageContent, optionsKey string) error {
	if pages == nil {
		pages = []types.PageContent{}
	}
	jsonBytes, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("failed to marshal pages: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_pages (resume_id, pages, page_count, options_key)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (resume_id) DO UPDATE SET pages = $2, page_count = $3, options_key = $4, computed_at = NOW()`,
		resumeID, jsonBytes, len(pages), optionsKey,
	)
	if err != nil {
		return fmt.Errorf("failed to save pages: %w", err)
	}
	return nil
}

// GetPages retrieves the page snapshot of a resume. Returns nil, nil when
// none has been stored.
func (db *DB) GetPages(ctx context.Context, resumeID uuid.UUID) (*PageSnapshot, error) {
	snap := PageSnapshot{ResumeID: resumeID}
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT pages, page_count, options_key, computed_at FROM resume_pages WHERE resume_id = $1`,
		resumeID,
	).Scan(&content, &snap.PageCount, &snap.OptionsKey, &snap.ComputedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pages: %w", err)
	}
	if err := json.Unmarshal(content, &snap.Pages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pages: %w", err)
	}
	return &snap, nil
}
