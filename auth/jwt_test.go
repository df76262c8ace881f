package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

var testSecret = []byte("test-signing-secret")

func TestJWTAuthenticator_ValidToken(t *testing.T) {
	cfg := JWTConfig{Secret: testSecret, Issuer: "merakiops"}
	token, err := MintToken(cfg, "client-1", time.Hour)
	if err != nil {
		t.Fatalf("MintToken() = %v", err)
	}

	a := NewJWTAuthenticator(cfg)
	r := httptest.NewRequest("GET", "/mcp", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	id, err := a.Authenticate(context.Background(), r)
	if err != nil {
		t.Fatalf("Authenticate() = %v", err)
	}
	if id.Principal != "client-1" {
		t.Errorf("Principal = %q, want client-1", id.Principal)
	}
	if id.Method != MethodJWT {
		t.Errorf("Method = %q, want jwt", id.Method)
	}
	if id.ExpiresAt.IsZero() {
		t.Error("ExpiresAt not populated from exp claim")
	}
}

func TestJWTAuthenticator_ExpiredToken(t *testing.T) {
	cfg := JWTConfig{Secret: testSecret}
	token, err := MintToken(cfg, "client-1", -time.Hour)
	if err != nil {
		t.Fatalf("MintToken() = %v", err)
	}

	a := NewJWTAuthenticator(cfg)
	r := httptest.NewRequest("GET", "/mcp", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	if _, err := a.Authenticate(context.Background(), r); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Authenticate() err = %v, want ErrTokenExpired", err)
	}
}

func TestJWTAuthenticator_WrongSecret(t *testing.T) {
	token, err := MintToken(JWTConfig{Secret: []byte("other-secret")}, "client-1", time.Hour)
	if err != nil {
		t.Fatalf("MintToken() = %v", err)
	}

	a := NewJWTAuthenticator(JWTConfig{Secret: testSecret})
	r := httptest.NewRequest("GET", "/mcp", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	if _, err := a.Authenticate(context.Background(), r); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() err = %v, want ErrInvalidCredentials", err)
	}
}

func TestJWTAuthenticator_WrongIssuer(t *testing.T) {
	token, err := MintToken(JWTConfig{Secret: testSecret, Issuer: "someone-else"}, "client-1", time.Hour)
	if err != nil {
		t.Fatalf("MintToken() = %v", err)
	}

	a := NewJWTAuthenticator(JWTConfig{Secret: testSecret, Issuer: "merakiops"})
	r := httptest.NewRequest("GET", "/mcp", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	if _, err := a.Authenticate(context.Background(), r); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() err = %v, want ErrInvalidCredentials", err)
	}
}

func TestJWTAuthenticator_Malformed(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{Secret: testSecret})
	r := httptest.NewRequest("GET", "/mcp", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")

	if _, err := a.Authenticate(context.Background(), r); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Authenticate() err = %v, want ErrTokenMalformed", err)
	}
}

func TestJWTAuthenticator_Supports(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{Secret: testSecret})

	r := httptest.NewRequest("GET", "/mcp", nil)
	if a.Supports(r) {
		t.Error("Supports() true without Authorization header")
	}
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if a.Supports(r) {
		t.Error("Supports() true for non-bearer scheme")
	}
	r.Header.Set("Authorization", "Bearer abc")
	if !a.Supports(r) {
		t.Error("Supports() false for bearer token")
	}
}
