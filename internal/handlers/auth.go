package handlers

import (
	"net/http"

	"github.com/crucial707/highlow/internal/metrics"
	"github.com/crucial707/highlow/internal/models"
	"github.com/crucial707/highlow/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users *service.UserService
}

type loginResponse struct {
	User      models.LoginUser `json:"user"`
	AuthToken string           `json:"authToken"`
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if !decodeJSON(w, r, &input) || !requireFields(w, input) {
		return
	}

	res, err := h.Users.Login(r.Context(), input.UserName, input.Password)
	if err != nil {
		metrics.IncLogins(outcome(err))
		writeError(w, r, err)
		return
	}
	metrics.IncLogins(metrics.ResultSuccess)

	writeJSON(w, http.StatusOK, loginResponse{
		User:      res.User.Summary(),
		AuthToken: res.Token,
	})
}

// outcome labels an error for the auth counters.
func outcome(err error) string {
	if _, ok := service.AsError(err); ok {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}
