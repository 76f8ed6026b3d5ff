package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/crucial707/highlow/internal/metrics"
	"github.com/crucial707/highlow/internal/middleware"
	"github.com/crucial707/highlow/internal/models"
	"github.com/crucial707/highlow/internal/service"
	"github.com/go-chi/chi/v5"
)

type ctxKey string

const userCtxKey ctxKey = "user"

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Users *service.UserService
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SerializeAll(users))
}

// ==========================
// Create User (registration)
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if !decodeJSON(w, r, &input) || !requireFields(w, input) {
		return
	}

	user, err := h.Users.Register(r.Context(), input.UserName, input.Password)
	if err != nil {
		metrics.IncRegistrations(outcome(err))
		writeError(w, r, err)
		return
	}
	metrics.IncRegistrations(metrics.ResultSuccess)

	w.Header().Set("Location", path.Join(r.URL.Path, strconv.Itoa(user.ID)))
	writeJSON(w, http.StatusCreated, models.Serialize(*user))
}

// ==========================
// User loader for /users/{id}
// ==========================

// UserCtx loads the user named by the {id} URL parameter into the request
// context, answering 400 for a malformed id and 404 for an unknown one.
func (h *UserHandler) UserCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id <= 0 {
			JSONError(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		user, err := h.Users.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, user)))
	})
}

func userFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userCtxKey).(*models.User)
	return u, ok
}

// ==========================
// Get User
// ==========================
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		JSONError(w, service.MsgUserNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, models.Serialize(*user))
}

// ==========================
// Update User
// ==========================
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		JSONError(w, service.MsgUserNotFound, http.StatusNotFound)
		return
	}

	var patch service.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	if err := h.Users.Update(r.Context(), user.ID, patch); err != nil {
		writeError(w, r, err)
		return
	}
	callerID, _ := middleware.GetUserID(r.Context())
	slog.Info("user updated", "user_id", user.ID, "by", callerID)
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Delete User
// ==========================
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		JSONError(w, service.MsgUserNotFound, http.StatusNotFound)
		return
	}

	if err := h.Users.Delete(r.Context(), user.ID); err != nil {
		writeError(w, r, err)
		return
	}
	callerID, _ := middleware.GetUserID(r.Context())
	slog.Info("user deleted", "user_id", user.ID, "by", callerID)
	w.WriteHeader(http.StatusNoContent)
}
