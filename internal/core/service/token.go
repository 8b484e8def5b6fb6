package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

// TokenCodec signs and verifies stateless HS256 access tokens carrying a user
// id as subject. Validity is fully determined by signature plus expiry; there
// is no server-side revocation, so compromise mitigation rests on short TTLs.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue mints a token for the subject expiring after ttl.
func (c *TokenCodec) Issue(subject uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies signature and expiry and returns the subject user id.
// No clock-skew leeway is applied: a token is rejected from the exact expiry
// instant onward. Every failure mode maps to domain.ErrUnauthenticated.
func (c *TokenCodec) Decode(token string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	if claims.ExpiresAt == nil {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	return id, nil
}
