package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pookiesms/pookiesms/internal/models"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

func (s *MessageStore) Create(ctx context.Context, principalID uuid.UUID, nickname, content string, category models.Category) (*models.Message, error) {
	// Messages use bigserial, so Postgres assigns the ID and the insert
	// order doubles as the recency order.
	query := `
		INSERT INTO messages (principal_id, nickname, content, category, sent_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, principal_id, nickname, content, category, sent_at`

	var msg models.Message
	err := s.pool.QueryRow(ctx, query, principalID, nickname, content, string(category)).Scan(
		&msg.ID,
		&msg.PrincipalID,
		&msg.Nickname,
		&msg.Content,
		&msg.Category,
		&msg.SentAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}

func (s *MessageStore) ListByPrincipal(ctx context.Context, principalID uuid.UUID, before int64, limit int) ([]models.Message, error) {
	// Cursor pagination: before=0 is the first page (newest messages);
	// before=N returns messages strictly older than ID N. Both paths
	// ORDER BY id DESC, which matches sent_at order because IDs come from
	// a single insert sequence.
	var query string
	var args []any

	if before > 0 {
		query = `
			SELECT id, principal_id, nickname, content, category, sent_at
			FROM messages
			WHERE principal_id = $1 AND id < $2
			ORDER BY id DESC
			LIMIT $3`
		args = []any{principalID, before, limit}
	} else {
		query = `
			SELECT id, principal_id, nickname, content, category, sent_at
			FROM messages
			WHERE principal_id = $1
			ORDER BY id DESC
			LIMIT $2`
		args = []any{principalID, limit}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.PrincipalID,
			&msg.Nickname,
			&msg.Content,
			&msg.Category,
			&msg.SentAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
