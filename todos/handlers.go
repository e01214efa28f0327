// Package todos, as part of the todos module.
// This file, `handlers.go`, is responsible for handling HTTP requests for todos.
// It acts as the "Controller" layer, analogous to a `TodosController` in Nest.js:
// decode the request, call the Service, write JSON back.
package todos

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/todolist-go/apperror"
	"github.com/user/todolist-go/auth"
	"github.com/user/todolist-go/users"
)

// Handlers exposes the todo Service over HTTP. Routes must be mounted behind
// auth.Middleware.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the todo endpoints on r.
// main.go mounts this sub-router at "/todos", so "/" here is "/todos" and
// "/{id}" is "/todos/{id}". In Nest.js this is the set of `@Get()`/`@Post()`
// decorators on the controller.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleCreate())
	r.Get("/", h.HandleList())
	r.Get("/{id}", h.HandleGet())
	r.Put("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

// currentUser pulls the resolved user out of the request context.
func currentUser(w http.ResponseWriter, r *http.Request) (*users.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError(auth.UnauthenticatedMessage, nil))
		return nil, false
	}
	return user, true
}

// todoID parses the {id} path segment. Anything that is not a positive
// integer cannot name a todo and is reported as NotFound.
func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		auth.WriteError(w, r, apperror.NewNotFoundError(notFoundMessage, err))
		return 0, false
	}
	return id, true
}

// HandleCreate godoc
// @Summary Create todo
// @Tags Todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param todo body todos.CreateTodoRequest true "Todo to create"
// @Success 200 {object} todos.Todo
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /todos [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req CreateTodoRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		todo, err := h.service.Create(r.Context(), user.ID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, todo)
	}
}

// HandleList godoc
// @Summary List todos
// @Description Returns the caller's todos in creation order.
// @Tags Todos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} todos.Todo
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /todos [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		list, err := h.service.List(r.Context(), user.ID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if list == nil {
			list = []Todo{}
		}
		auth.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleGet godoc
// @Summary Get todo
// @Tags Todos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Success 200 {object} todos.Todo
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Todo not found"
// @Router /todos/{id} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := todoID(w, r)
		if !ok {
			return
		}

		todo, err := h.service.Get(r.Context(), user.ID, id)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, todo)
	}
}

// HandleUpdate godoc
// @Summary Update todo
// @Description Changes only the fields present in the body. "description": null clears the description.
// @Tags Todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Param todo body todos.UpdateTodoRequest true "Fields to change"
// @Success 200 {object} todos.Todo
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Todo not found"
// @Router /todos/{id} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := todoID(w, r)
		if !ok {
			return
		}

		var req UpdateTodoRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if err := req.Validate(); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		todo, err := h.service.Update(r.Context(), user.ID, id, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, todo)
	}
}

// HandleDelete godoc
// @Summary Delete todo
// @Tags Todos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Todo ID"
// @Success 200 {object} todos.DeleteResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 404 {object} apperror.ErrorResponse "Todo not found"
// @Router /todos/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := todoID(w, r)
		if !ok {
			return
		}

		if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, DeleteResponse{Message: "Todo deleted successfully"})
	}
}
