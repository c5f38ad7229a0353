// Package auth resolves bearer tokens to user ids.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that does not resolve to a user.
var ErrInvalidToken = errors.New("invalid token")

// Resolver validates HS256 tokens whose subject is the user id.
type Resolver struct {
	secret []byte
	issuer string
}

// NewResolver creates a Resolver. secret should be at least 32 bytes.
func NewResolver(secret, issuer string) *Resolver {
	return &Resolver{secret: []byte(secret), issuer: issuer}
}

// IssueToken signs a token for userID valid for ttl.
func (r *Resolver) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    r.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ResolveUserID validates token and returns its subject.
func (r *Resolver) ResolveUserID(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(r.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject: %v", ErrInvalidToken, err)
	}
	return userID, nil
}

type ctxKey struct{}

// WithUserID returns a context carrying userID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFrom returns the user id stored by WithUserID.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
