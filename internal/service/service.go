package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pookiesms/pookiesms/internal/apperr"
	"github.com/pookiesms/pookiesms/internal/cache"
	"github.com/pookiesms/pookiesms/internal/models"
	"github.com/pookiesms/pookiesms/internal/repository"
	"go.uber.org/zap"
)

// Notifier receives messages the moment they are stored, for live dashboard
// push. Implementations must not block; ingestion never waits on delivery.
type Notifier interface {
	Publish(username string, msg models.Message)
}

// Service implements registration, link resolution, message ingestion and
// retrieval on top of the repositories. The slug cache and notifier are
// optional: a nil cache means every resolve hits Postgres, a nil notifier
// means no live push.
type Service struct {
	principals repository.PrincipalRepository
	messages   repository.MessageRepository
	slugs      *cache.SlugCache
	notifier   Notifier
	logger     *zap.Logger

	newSlug func() (string, error)
}

func New(
	principals repository.PrincipalRepository,
	messages repository.MessageRepository,
	slugs *cache.SlugCache,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		principals: principals,
		messages:   messages,
		slugs:      slugs,
		notifier:   notifier,
		logger:     logger,
		newSlug:    NewSlug,
	}
}

// Register binds a signed-in handle to a freshly issued slug. The slug is
// generated server-side and returned on the principal record; a handle is
// permanently bound to the first slug it registers, so an existing
// registration is a conflict, never an overwrite.
func (s *Service) Register(ctx context.Context, username string) (*models.Principal, error) {
	if username == "" {
		return nil, apperr.ErrUsernameRequired
	}

	existing, err := s.principals.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.ErrStorage(err)
	}
	if existing != nil {
		return nil, apperr.ErrUsernameTaken
	}

	// The pre-check above is advisory; the unique index is what actually
	// prevents a concurrent duplicate. A duplicate on the slug index is a
	// token collision, retried once with a fresh token.
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := s.newSlug()
		if err != nil {
			return nil, apperr.ErrStorage(err)
		}

		p, err := s.principals.Create(ctx, username, slug)
		if err == nil {
			if s.slugs != nil {
				s.slugs.Set(ctx, p.Slug, p.Username)
			}
			return p, nil
		}

		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			if strings.Contains(dup.Constraint, "username") {
				return nil, apperr.ErrUsernameTaken
			}
			s.logger.Warn("slug collision on register, retrying",
				zap.String("username", username),
			)
			continue
		}
		return nil, apperr.ErrStorage(err)
	}

	return nil, apperr.Internal("could not issue a unique link")
}

// Resolve maps a slug to the owning principal's public handle. Only the
// username is exposed; no authentication is required, anyone holding the
// link may resolve it.
func (s *Service) Resolve(ctx context.Context, slug string) (string, error) {
	if s.slugs != nil {
		if username := s.slugs.Get(ctx, slug); username != "" {
			return username, nil
		}
	}

	p, err := s.principals.GetBySlug(ctx, slug)
	if err != nil {
		return "", apperr.ErrStorage(err)
	}
	if p == nil {
		return "", apperr.ErrRecipientNotFound
	}

	if s.slugs != nil {
		s.slugs.Set(ctx, p.Slug, p.Username)
	}
	return p.Username, nil
}

// Ingest validates and stores one anonymous message against the recipient
// bound to slug. Nickname and content are stored verbatim; the category
// must be one of the fixed set. Nothing is written on any failure path.
func (s *Service) Ingest(ctx context.Context, slug, nickname, content string, category models.Category) (*models.Message, error) {
	if content == "" {
		return nil, apperr.ErrContentRequired
	}
	if !category.Valid() {
		return nil, apperr.ErrInvalidCategory
	}

	p, err := s.principals.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.ErrStorage(err)
	}
	if p == nil {
		return nil, apperr.ErrRecipientNotFound
	}

	msg, err := s.messages.Create(ctx, p.ID, nickname, content, category)
	if err != nil {
		return nil, apperr.ErrStorage(err)
	}

	if s.notifier != nil {
		s.notifier.Publish(p.Username, *msg)
	}
	return msg, nil
}

// ListMessages returns a recipient's messages newest-first. before=0 starts
// at the newest message; otherwise only messages older than that ID are
// returned. A registered recipient with no messages gets an empty slice,
// which is distinct from the not-found error for an unknown handle.
func (s *Service) ListMessages(ctx context.Context, username string, before int64, limit int) ([]models.Message, error) {
	if username == "" {
		return nil, apperr.ErrUsernameRequired
	}

	p, err := s.principals.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.ErrStorage(err)
	}
	if p == nil {
		return nil, apperr.ErrRecipientNotFound
	}

	msgs, err := s.messages.ListByPrincipal(ctx, p.ID, before, limit)
	if err != nil {
		return nil, apperr.ErrStorage(err)
	}
	return msgs, nil
}
