package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Provider is the identity capability the rest of the server consumes:
// "who is the signed-in principal on this request, if anyone". The core
// never sees tokens, sessions or credentials, only the handle.
type Provider interface {
	CurrentPrincipal(r *http.Request) (username string, ok bool)
}

// Claims is the payload inside every identity token. Username is the stable
// handle the external identity provider vouches for; the server stores no
// credentials of its own.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed HS256 token for a handle. Production
// tokens come from the identity provider; this exists for local
// development and tests, which share the same secret.
func GenerateToken(username, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "pookiesms",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken validates a token string and extracts the claims. The signing
// method check rejects algorithm-switching tokens before the signature is
// even verified.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("token carries no username")
	}

	return claims, nil
}

// TokenProvider implements Provider against bearer tokens in the
// Authorization header.
type TokenProvider struct {
	secret string
}

func NewTokenProvider(secret string) *TokenProvider {
	return &TokenProvider{secret: secret}
}

func (p *TokenProvider) CurrentPrincipal(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	claims, err := ParseToken(parts[1], p.secret)
	if err != nil {
		return "", false
	}
	return claims.Username, true
}
