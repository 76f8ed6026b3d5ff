package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/crucial707/highlow/internal/auth"
	"github.com/crucial707/highlow/internal/metrics"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type key string

const identityKey key = "identity"

// Authorizer decides whether an Authorization header grants access.
type Authorizer interface {
	Authorize(header string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token with 401
// {"error":"Unauthorized request"}; every rejection gets the same body. On
// success the caller's identity is stored in the request context.
func RequireAuth(gate Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := gate.Authorize(r.Header.Get("Authorization"))
			if err != nil {
				slog.Debug("request rejected by auth gate",
					"request_id", chimw.GetReqID(r.Context()),
					"path", r.URL.Path,
					"reason", err.Error())
				metrics.IncAuthRejections()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": auth.UnauthorizedMessage})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return 0, false
	}
	return id.UserID, true
}
