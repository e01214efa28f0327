package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/todolist-go/apperror"
	"github.com/user/todolist-go/auth"
	_ "github.com/user/todolist-go/docs" // Generated Swagger docs
	"github.com/user/todolist-go/todos"
)

type healthResponse struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage" example:"postgres"`
}

// newRouter assembles middleware and routes. Chi requires all middleware to
// be registered before any routes.
func newRouter(d *dependencies) http.Handler {
	resolver := auth.NewResolver(d.tokens, d.users)
	authHandlers := auth.NewHandlers(auth.NewService(d.users, d.hasher, d.tokens), resolver)
	todoHandlers := todos.NewHandlers(todos.NewService(d.todos))

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(recoverJSON)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(d.metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", handleHealth(d))
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/auth", authHandlers.RegisterRoutes)

	r.Route("/todos", func(r chi.Router) {
		r.Use(auth.Middleware(resolver))
		todoHandlers.RegisterRoutes(r)
	})

	return r
}

// recoverJSON turns a handler panic into the standard JSON 500 body.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				slog.Error("panic recovered",
					"request_id", middleware.GetReqID(r.Context()),
					"panic", rvr,
				)
				auth.WriteError(w, r, apperror.NewInternalError("internal server error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth godoc
// @Summary Liveness and database reachability
// @Tags Health
// @Produce json
// @Success 200 {object} main.healthResponse
// @Failure 503 {object} main.healthResponse "Database unreachable"
// @Router /healthz [get]
func handleHealth(d *dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Storage: string(d.storage)}
		if d.db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.db.Ping(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				resp.Status = "unavailable"
				auth.WriteJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
		}
		auth.WriteJSON(w, http.StatusOK, resp)
	}
}
