// Package auth, as part of the authentication module.
// This file, `handlers.go`, is responsible for handling HTTP requests related to authentication.
// It acts as the "Controller" layer, analogous to an `AuthController` in Nest.js.
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/todolist-go/apperror"
)

// Handlers wraps the Service to provide HTTP handlers.
type Handlers struct {
	service  *Service
	resolver *Resolver
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *Service, resolver *Resolver) *Handlers {
	return &Handlers{service: service, resolver: resolver}
}

// RegisterRoutes mounts the /auth endpoints. Only /me requires a token.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.HandleRegister())
	r.Post("/login", h.HandleLogin())
	r.With(Middleware(h.resolver)).Get("/me", h.HandleMe())
}

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user in the system.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 200 {object} users.User "User created successfully"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or email already registered"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := DecodeJSON(w, r, &req); err != nil {
			WriteError(w, r, err)
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, user)
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Logs in an existing user and returns a bearer access token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.TokenResponse "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := DecodeJSON(w, r, &req); err != nil {
			WriteError(w, r, err)
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleMe godoc
// @Summary Current user
// @Description Returns the user the bearer token belongs to.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.User
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /auth/me [get]
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError(UnauthenticatedMessage, nil))
			return
		}
		WriteJSON(w, http.StatusOK, user)
	}
}
