package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// slugBytes gives 128 bits of entropy, enough that a collision on the slug
// unique index is effectively a storage fault rather than an expected event.
const slugBytes = 16

// NewSlug issues an opaque, unguessable, URL-safe link token. Slugs are
// generated server-side at registration; clients never supply their own.
func NewSlug() (string, error) {
	buf := make([]byte, slugBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate slug: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
