package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifyTokenRoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.IssueToken(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username:   "alice",
		CustomerID: "cust-1",
	})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := v.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.Username != "alice" || claims.CustomerID != "cust-1" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewVerifier("secret-a")
	verifier := NewVerifier("secret-b")

	token, err := issuer.IssueToken(Claims{Username: "alice"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := verifier.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.IssueToken(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := v.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"valid header", "Bearer abc123", "abc123", true},
		{"missing prefix", "abc123", "", false},
		{"empty token", "Bearer ", "", false},
		{"empty header", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMiddlewareRejectsBeforeHandler(t *testing.T) {
	v := NewVerifier("test-secret")
	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})
	protected := Middleware(v)(next)

	tests := []struct {
		name      string
		header    string
		wantError string
	}{
		{"no header", "", "Missing or invalid authorization header"},
		{"not bearer", "Basic abc", "Missing or invalid authorization header"},
		{"garbage token", "Bearer not-a-jwt", "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			req := httptest.NewRequest(http.MethodPost, "/chat", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
			if handlerCalled {
				t.Error("handler invoked despite failed authentication")
			}
		})
	}
}

func TestMiddlewareInjectsIdentity(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.IssueToken(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username:   "alice",
		CustomerID: "cust-1",
	})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var gotUsername, gotCustomer string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUsername = UsernameFromContext(r.Context())
		gotCustomer = CustomerIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Middleware(v)(next).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotUsername != "alice" || gotCustomer != "cust-1" {
		t.Errorf("identity = %q/%q, want alice/cust-1", gotUsername, gotCustomer)
	}
}
