// Package db provides PostgreSQL storage for users, resumes and page snapshots.
package db

import "fmt"

// NotFoundError is returned by updates and deletes that match no row.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}
