// Package jwt issues and verifies the HS256 access tokens handed out at
// login. The caller's identity travels in the "payload" claim.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultExpire applies when the manager is built with a non-positive ttl.
const DefaultExpire = time.Hour

var (
	ErrMissingKey   = errors.New("jwt: signing key is empty")
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// Identity is the payload carried by an access token.
type Identity struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claims are the token claims: the registered set plus the identity.
type Claims struct {
	Payload Identity `json:"payload"`
	jwtstd.RegisteredClaims
}

// TokenManager signs and parses access tokens with a shared secret.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenManager creates a manager for the given secret and token lifetime.
func NewTokenManager(key string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultExpire
	}
	return &TokenManager{key: []byte(key), ttl: ttl, now: time.Now}
}

// Issue signs a token for id, valid for the manager's lifetime.
func (m *TokenManager) Issue(id Identity) (string, error) {
	if len(m.key) == 0 {
		return "", ErrMissingKey
	}

	now := m.now()
	claims := &Claims{
		Payload: id,
		RegisteredClaims: jwtstd.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.Email,
			IssuedAt:  jwtstd.NewNumericDate(now),
			ExpiresAt: jwtstd.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims).SignedString(m.key)
}

// Parse verifies signature and expiry and returns the claims. Tokens with
// an incomplete identity are rejected.
func (m *TokenManager) Parse(token string) (*Claims, error) {
	if len(m.key) == 0 {
		return nil, ErrMissingKey
	}

	claims := &Claims{}
	parsed, err := jwtstd.ParseWithClaims(token, claims, func(t *jwtstd.Token) (any, error) {
		if _, ok := t.Method.(*jwtstd.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.key, nil
	}, jwtstd.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Payload.Email == "" || claims.Payload.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
