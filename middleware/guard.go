package middleware

import (
	"encoding/json"
	"net/http"

	authcore "github.com/lumenlms/authcore"
)

// IsAuthenticated gates a route on the dual-token state machine. On success
// the resolved principal is attached to the request context; on failure the
// request short-circuits with the structured error payload. Rotated
// credentials are written to the response before the handler runs.
func IsAuthenticated(auth *authcore.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				WriteError(w, authcore.Internal("Internal Server Error"))
				return
			}

			carrier := NewCookies(w, r, auth.Config().Cookie)
			principal, err := auth.Authenticate(r.Context(), carrier)
			if err != nil {
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(authcore.WithPrincipal(r.Context(), principal)))
		})
	}
}

// AuthorizeRoles gates a route on the context principal's role. It must be
// chained after [IsAuthenticated]; a missing principal reads as the empty
// role and is rejected.
func AuthorizeRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := authcore.PrincipalFromContext(r.Context())
			if err := authcore.AuthorizeRoles(principal, roles...); err != nil {
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteError renders any error as the client-facing JSON payload. Raw error
// text never reaches the client; unknown errors become a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	ae := authcore.AsError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ae.Status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": ae.Message,
	})
}
