package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/highlow/internal/auth"
	"github.com/crucial707/highlow/internal/config"
	"github.com/crucial707/highlow/internal/handlers"
	"github.com/crucial707/highlow/internal/middleware"
	"github.com/crucial707/highlow/internal/repo"
	"github.com/crucial707/highlow/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires the API: repo -> service -> handlers, behind the middleware chain.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(db)
	issuer := auth.NewIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)
	users := service.NewUserService(userRepo, auth.NewHasher(cfg.BcryptCost), issuer)

	authHandler := &handlers.AuthHandler{Users: users}
	userHandler := &handlers.UserHandler{Users: users}
	requireAuth := middleware.RequireAuth(auth.NewGate(issuer))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := userRepo.Ping(ctx); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ready\n"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/login", authHandler.Login)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)
		r.Post("/", userHandler.CreateUser)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(userHandler.UserCtx)
			r.Get("/", userHandler.GetUser)
			r.Patch("/", userHandler.UpdateUser)
			r.Delete("/", userHandler.DeleteUser)
		})
	})

	return r
}
