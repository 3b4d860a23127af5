package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/duitku/duitku-backend/internal/domain"
)

// Claims is the JWT payload for a signed-in session
type Claims struct {
	Identity string `json:"identity"`
	jwt.RegisteredClaims
}

// Provider establishes identities and issues the bearer tokens the HTTP
// adapter checks on protected routes. Sign-in is anonymous: the credential
// is a user-chosen username and the identity is simply its trimmed form.
// The core only requires a stable identity string back, so a remote-backed
// provider can be swapped in behind the same interface.
type Provider struct {
	secret string
	ttl    time.Duration
}

// NewProvider creates a new identity provider. A non-positive ttl defaults
// to 24 hours.
func NewProvider(secret string, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Provider{secret: secret, ttl: ttl}
}

// SignIn resolves a credential to a stable identity string
func (p *Provider) SignIn(_ context.Context, credential string) (string, error) {
	identity := strings.TrimSpace(credential)
	if identity == "" {
		return "", fmt.Errorf("%w: username cannot be empty", domain.ErrValidation)
	}
	return identity, nil
}

// GenerateToken issues a signed session token for an identity
func (p *Provider) GenerateToken(identity string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(p.secret))
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", domain.ErrAuth, err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns the identity it carries
func (p *Provider) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(p.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Identity == "" {
		return "", fmt.Errorf("%w: invalid token claims", domain.ErrAuth)
	}
	return claims.Identity, nil
}

var _ domain.IdentityProvider = (*Provider)(nil)
