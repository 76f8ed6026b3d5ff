package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/crucial707/highlow/internal/service"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps a domain error kind to its HTTP status. Conflicts and bad
// credentials are 400s, not 409/401, to keep existing clients working.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindAuthorization:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// writeError answers with the domain error's message, or logs the failure and
// sends a generic 500 when err is not a domain error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if e, ok := service.AsError(err); ok {
		JSONError(w, e.Message, statusFor(e.Kind))
		return
	}
	slog.Error("request failed",
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}
