package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// Kind distinguishes short-lived access tokens from refresh tokens.
type Kind string

const (
	Access  Kind = "access"
	Refresh Kind = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by every token. Subject holds the user ID.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Type     Kind   `json:"token_type"`
	jwt.StandardClaims
}

// Manager signs and verifies HS256 tokens. Parse rejects a token whose
// token_type claim differs from the requested kind, so an access token is
// never accepted as a refresh token or the reverse, even when both kinds
// share one key.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue signs a new token of the given kind for the user.
func (m *Manager) Issue(kind Kind, userID, username, email string) (string, error) {
	secret, ttl, err := m.params(kind)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		Username: username,
		Email:    email,
		Type:     kind,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and kind of a token and returns its claims.
func (m *Manager) Parse(kind Kind, tokenString string) (*Claims, error) {
	secret, _, err := m.params(kind)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != kind {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, kind, claims.Type)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

func (m *Manager) params(kind Kind) ([]byte, time.Duration, error) {
	switch kind {
	case Access:
		return m.accessSecret, m.accessTTL, nil
	case Refresh:
		return m.refreshSecret, m.refreshTTL, nil
	}
	return nil, 0, fmt.Errorf("unknown token kind %q", kind)
}
