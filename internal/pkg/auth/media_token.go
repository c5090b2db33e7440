package auth

import (
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/apperrors"
	"github.com/golang-jwt/jwt/v5"
)

// MediaClaims grant read access to exactly one storage key
type MediaClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// MediaSigner issues and checks the tokens behind locally signed media URLs.
// It shares the JWT plumbing of the session tokens but uses its own secret.
type MediaSigner struct {
	jwt *JWTService
}

// NewMediaSigner creates a signer for media tokens
func NewMediaSigner(secret, issuer string) *MediaSigner {
	return &MediaSigner{jwt: NewJWTService(JWTConfig{SecretKey: secret, TokenIssuer: issuer})}
}

// Sign returns a token valid for ttl that grants access to key
func (m *MediaSigner) Sign(key string, ttl time.Duration) (string, error) {
	now := m.jwt.now()
	claims := &MediaClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.jwt.config.TokenIssuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.jwt.config.SecretKey))
}

// Verify checks that token is valid and was issued for key
func (m *MediaSigner) Verify(token, key string) error {
	claims := &MediaClaims{}
	if err := m.jwt.parse(token, claims); err != nil {
		return err
	}
	if claims.Key != key {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
