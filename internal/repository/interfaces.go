package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pookiesms/pookiesms/internal/models"
)

// DuplicateError is returned by PrincipalRepository.Create when the insert
// hits a unique constraint. The service layer uses it to tell a
// registration conflict apart from a transient storage failure.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return "duplicate value for constraint " + e.Constraint
}

// PrincipalRepository handles identity persistence.
type PrincipalRepository interface {
	// Create inserts a new principal and returns it with ID and CreatedAt
	// populated. Returns *DuplicateError if username or slug is taken.
	Create(ctx context.Context, username, slug string) (*models.Principal, error)

	// GetByUsername returns a principal by handle. Returns nil, nil if not found.
	GetByUsername(ctx context.Context, username string) (*models.Principal, error)

	// GetBySlug returns the principal bound to a slug. Returns nil, nil if
	// no principal holds the slug.
	GetBySlug(ctx context.Context, slug string) (*models.Principal, error)
}

// MessageRepository handles anonymous message persistence.
type MessageRepository interface {
	// Create persists a message and returns it with ID and SentAt populated.
	// The recipient must exist; callers resolve the slug first.
	Create(ctx context.Context, principalID uuid.UUID, nickname, content string, category models.Category) (*models.Message, error)

	// ListByPrincipal returns a recipient's messages, newest first.
	// before=0 means "from the top"; otherwise only messages with ID < before
	// are returned. Returns an empty slice, never nil.
	ListByPrincipal(ctx context.Context, principalID uuid.UUID, before int64, limit int) ([]models.Message, error)
}
