package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Claims are the session claims carried in a bearer token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer with the given signing secret.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue generates a signed session token for a user.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(i.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns its claims.
func (i *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// contextKey keeps session values private to this package.
type contextKey string

const sessionContextKey = contextKey("session")

// Session is an authenticated (or anonymous) user context. It implements
// store.Session.
type Session struct {
	userID string
}

// NewSession creates a session for a known user id. An empty id yields an
// unauthenticated session.
func NewSession(userID string) *Session {
	return &Session{userID: userID}
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	return s != nil && s.userID != ""
}

// UserID returns the signed-in user's id, empty when unauthenticated.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.userID
}

// WithSession attaches a session to a request context.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFrom extracts the session from a request context; an absent session
// is returned as an unauthenticated one.
func SessionFrom(ctx context.Context) *Session {
	if session, ok := ctx.Value(sessionContextKey).(*Session); ok {
		return session
	}
	return &Session{}
}
