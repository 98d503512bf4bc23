package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pookiesms/pookiesms/internal/models"
	"github.com/pookiesms/pookiesms/internal/repository"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

type PrincipalStore struct {
	pool *pgxpool.Pool
}

func NewPrincipalStore(pool *pgxpool.Pool) *PrincipalStore {
	return &PrincipalStore{pool: pool}
}

// Create inserts a new principal row. Postgres generates the UUID and
// timestamp. A unique-constraint hit on username or slug comes back as
// *repository.DuplicateError so the caller can report a conflict instead
// of a generic storage failure.
func (s *PrincipalStore) Create(ctx context.Context, username, slug string) (*models.Principal, error) {
	query := `
		INSERT INTO principals (username, slug, created_at)
		VALUES ($1, $2, now())
		RETURNING id, username, slug, created_at`

	var p models.Principal
	err := s.pool.QueryRow(ctx, query, username, slug).Scan(
		&p.ID,
		&p.Username,
		&p.Slug,
		&p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, &repository.DuplicateError{Constraint: pgErr.ConstraintName}
		}
		return nil, fmt.Errorf("insert principal: %w", err)
	}
	return &p, nil
}

func (s *PrincipalStore) GetByUsername(ctx context.Context, username string) (*models.Principal, error) {
	query := `
		SELECT id, username, slug, created_at
		FROM principals
		WHERE username = $1`

	var p models.Principal
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&p.ID,
		&p.Username,
		&p.Slug,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get principal by username: %w", err)
	}
	return &p, nil
}

// GetBySlug is the link-resolution read: unauthenticated visitors hit it
// for every shared link they open.
func (s *PrincipalStore) GetBySlug(ctx context.Context, slug string) (*models.Principal, error) {
	query := `
		SELECT id, username, slug, created_at
		FROM principals
		WHERE slug = $1`

	var p models.Principal
	err := s.pool.QueryRow(ctx, query, slug).Scan(
		&p.ID,
		&p.Username,
		&p.Slug,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get principal by slug: %w", err)
	}
	return &p, nil
}
