package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// DefaultAPIKeyHeader is the header checked for a shared API key.
const DefaultAPIKeyHeader = "X-API-Key"

// APIKeyConfig configures the shared-key authenticator.
type APIKeyConfig struct {
	// HeaderName is the header carrying the key. Default: "X-API-Key".
	HeaderName string

	// Keys maps accepted key values to a principal name. Keys are
	// hashed at construction; plaintext is not retained.
	Keys map[string]string
}

// APIKeyAuthenticator accepts requests carrying one of a fixed set of
// shared keys.
type APIKeyAuthenticator struct {
	header string
	hashes map[[sha256.Size]byte]string
}

// NewAPIKeyAuthenticator creates an authenticator over the configured
// keys.
func NewAPIKeyAuthenticator(cfg APIKeyConfig) *APIKeyAuthenticator {
	header := cfg.HeaderName
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	hashes := make(map[[sha256.Size]byte]string, len(cfg.Keys))
	for key, principal := range cfg.Keys {
		hashes[sha256.Sum256([]byte(key))] = principal
	}
	return &APIKeyAuthenticator{header: header, hashes: hashes}
}

// Name returns "api_key".
func (a *APIKeyAuthenticator) Name() string { return string(MethodAPIKey) }

// Supports reports whether the request carries the key header.
func (a *APIKeyAuthenticator) Supports(r *http.Request) bool {
	return r.Header.Get(a.header) != ""
}

// Authenticate checks the presented key against the configured set in
// constant time per candidate.
func (a *APIKeyAuthenticator) Authenticate(_ context.Context, r *http.Request) (*Identity, error) {
	key := strings.TrimSpace(r.Header.Get(a.header))
	if key == "" {
		return nil, ErrMissingCredentials
	}

	presented := sha256.Sum256([]byte(key))
	for stored, principal := range a.hashes {
		if subtle.ConstantTimeCompare(stored[:], presented[:]) == 1 {
			return &Identity{Principal: principal, Method: MethodAPIKey}, nil
		}
	}
	return nil, ErrInvalidCredentials
}

var _ Authenticator = (*APIKeyAuthenticator)(nil)
