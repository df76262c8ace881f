package auth

import (
	"context"
	"net/http"
	"time"
)

// Method names the authentication method that produced an Identity.
type Method string

const (
	MethodAPIKey Method = "api_key"
	MethodJWT    Method = "jwt"
)

// Identity is an authenticated caller.
type Identity struct {
	// Principal identifies the caller, e.g. a token subject or key name.
	Principal string

	// Method is how the caller authenticated.
	Method Method

	// ExpiresAt is when the credential expires. Zero means no expiry.
	ExpiresAt time.Time

	// Claims carries extra token claims for downstream inspection.
	Claims map[string]any
}

// Authenticator validates one credential style on an HTTP request.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: Authenticate returns the sentinel errors in this package
//     for credential failures; anything else is an internal fault.
type Authenticator interface {
	// Name identifies the method for logging.
	Name() string

	// Supports reports whether the request carries this method's
	// credential shape.
	Supports(r *http.Request) bool

	// Authenticate validates the credential and returns the caller's
	// identity.
	Authenticate(ctx context.Context, r *http.Request) (*Identity, error)
}

type contextKey int

const identityKey contextKey = iota

// WithIdentity attaches an identity to the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the authenticated identity, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}
