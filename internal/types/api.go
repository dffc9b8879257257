// Package types provides type definitions for structured data used throughout the resume-layout system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateUserRequest represents the request to register a new account.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user profile for API responses (avoids import cycle with db package).
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// ResumeRequest creates or replaces a stored resume.
type ResumeRequest struct {
	Title    string         `json:"title" validate:"required,max=200"`
	Document ResumeDocument `json:"document"`
}

// LayoutRequest replaces only the layout of a stored resume. It is what the
// manual rearrangement tool sends.
type LayoutRequest struct {
	Layout Layout `json:"layout"`
}

// Resume is a stored resume as returned by the API.
type Resume struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	Title      string         `json:"title"`
	Document   ResumeDocument `json:"document"`
	ShareToken *string        `json:"share_token,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ResumeSummary is a list entry for a stored resume.
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	PageCount int       `json:"page_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaginateResponse carries a pagination result and its estimated column usage.
type PaginateResponse struct {
	Pages      []PageContent `json:"pages"`
	Usage      []PageUsage   `json:"usage"`
	Violations []Violation   `json:"violations,omitempty"`
}

// ShareResponse is returned when a share link is created.
type ShareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// SharedResume is the read-only preview payload served for a share token.
type SharedResume struct {
	Title    string         `json:"title"`
	Document ResumeDocument `json:"document"`
	Pages    []PageContent  `json:"pages"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ResumeRequest, including the embedded document.
func (r *ResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
