package models

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the registered owner of a shareable link. The slug is the
// opaque token embedded in that link; anyone holding it may send the
// principal anonymous messages. Principals are created once at registration
// and never mutated.
type Principal struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Category tags a message with the sender's declared intent.
type Category string

const (
	CategoryDare       Category = "dare"
	CategoryConfession Category = "confession"
	CategoryFun        Category = "fun"
	CategoryRequest    Category = "request"
	CategoryOther      Category = "other"
)

// Valid reports whether c is one of the fixed category values.
func (c Category) Valid() bool {
	switch c {
	case CategoryDare, CategoryConfession, CategoryFun, CategoryRequest, CategoryOther:
		return true
	}
	return false
}

// Message is a single anonymous message received by a principal.
//
// Nickname is whatever the sender typed. It is attacker-controlled and
// never verified. Messages use bigserial IDs: a single insert sequence
// means higher ID = newer message, which the retrieval cursor relies on.
type Message struct {
	ID          int64     `json:"id"`
	PrincipalID uuid.UUID `json:"principal_id"`
	Nickname    string    `json:"nickname"`
	Content     string    `json:"content"`
	Category    Category  `json:"category"`
	SentAt      time.Time `json:"sent_at"`
}
