package auth

import (
	"encoding/json"
	"net/http"
)

// Middleware wraps an HTTP handler, requiring one of the configured
// authenticators to accept the request. The resolved identity is attached
// to the request context for downstream handlers.
func Middleware(next http.Handler, authenticators ...Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, a := range authenticators {
			if !a.Supports(r) {
				continue
			}
			id, err := a.Authenticate(r.Context(), r)
			if err != nil {
				deny(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
			return
		}
		deny(w, ErrMissingCredentials)
	})
}

func deny(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
