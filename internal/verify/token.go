package verify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"countersign.org/internal/roles"
)

const defaultTokenTTL = 5 * time.Minute

// Token verifies credentials that are short-lived signed tokens minted by an
// identity provider. The token's role claim must match the role the approval
// is being recorded for; possession of a valid token for some other role
// proves nothing here.
type Token struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenOption configures a Token verifier.
type TokenOption func(*Token)

// WithIssuer requires the iss claim to match.
func WithIssuer(issuer string) TokenOption {
	return func(t *Token) {
		t.issuer = strings.TrimSpace(issuer)
	}
}

// WithTimeFunc overrides the time source (useful for tests).
func WithTimeFunc(fn func() time.Time) TokenOption {
	return func(t *Token) {
		if fn != nil {
			t.now = fn
		}
	}
}

// NewToken returns a verifier for HS256-signed role tokens.
func NewToken(secret string, opts ...TokenOption) (*Token, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("verify: token secret is required")
	}
	t := &Token{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue mints a signed token asserting the given role, valid for ttl
// (default 5m). Intended for tests and the smoke binary; production tokens
// come from the identity provider holding the same secret.
func (t *Token) Issue(role roles.Role, ttl time.Duration) (string, error) {
	if !roles.Valid(role) {
		return "", errors.New("verify: unknown role " + string(role))
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := t.now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify implements Verifier.
func (t *Token) Verify(ctx context.Context, role roles.Role, credential string) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	}
	if t.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(t.issuer))
	}
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(credential, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, parserOpts...)
	if err != nil || !token.Valid {
		return false
	}
	return claims.Role == string(role)
}
