// Package auth provides bearer-token verification and request identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid token")

type contextKey int

const (
	usernameKey contextKey = iota
	customerIDKey
)

// Claims are the JWT claims carried by a chat bearer token.
type Claims struct {
	jwt.RegisteredClaims
	Username   string `json:"username,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
}

// Verifier validates bearer tokens issued by the identity provider.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier with the given HMAC signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// VerifyToken parses and validates a bearer token, returning its claims.
func (v *Verifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueToken creates a signed token for the given identity. Used by tests
// and local tooling; production tokens come from the identity provider.
func (v *Verifier) IssueToken(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// UsernameFromContext extracts the authenticated username from the request context.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

// CustomerIDFromContext extracts the authenticated customer ID from the request context.
func CustomerIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(customerIDKey).(string); ok {
		return v
	}
	return ""
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// Middleware rejects requests without a valid bearer token and injects the
// token identity into the request context. Verification happens before any
// collaborator is invoked.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeUnauthorized(w, "Missing or invalid authorization header")
				return
			}

			claims, err := v.VerifyToken(token)
			if err != nil {
				writeUnauthorized(w, "Invalid token")
				return
			}

			username := claims.Username
			if username == "" {
				username = claims.Subject
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			ctx = context.WithValue(ctx, customerIDKey, claims.CustomerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error": %q}`, message)
}
