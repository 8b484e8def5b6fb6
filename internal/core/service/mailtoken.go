package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MailTokenIssuer produces the time-limited secret tokens embedded in
// activation and password-reset links. Tokens bind an email address to an
// expiry and are signed the same way as access tokens, with a longer,
// hour-scale TTL. The issuer is action-agnostic: the consuming flow gives a
// token its meaning.
type MailTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewMailTokenIssuer(secret string, ttl time.Duration) *MailTokenIssuer {
	return &MailTokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (m *MailTokenIssuer) TTL() time.Duration {
	return m.ttl
}

// Issue mints a token for the email address.
func (m *MailTokenIssuer) Issue(email string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify returns the email the token was issued for. Malformed, tampered and
// expired tokens all produce the same ("", false) result so callers cannot be
// used as an oracle distinguishing the failure modes.
func (m *MailTokenIssuer) Verify(token string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid || claims.ExpiresAt == nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
