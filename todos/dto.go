// Package todos, as part of the todos module.
// This file, `dto.go` (Data Transfer Object), defines the request and response
// payloads of the todo endpoints and converts them into store inputs.
// In Nest.js these would be the `CreateTodoDto` / `UpdateTodoDto` classes
// decorated with class-validator rules; here the rules are `validate` tags.
package todos

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/user/todolist-go/apperror"
)

const (
	defaultPriority = 1
	maxTitleLength  = 255

	// maxDescriptionLength must match the max= tag on CreateTodoRequest.Description.
	maxDescriptionLength = 10000
)

// CreateTodoRequest is the body of POST /todos.
type CreateTodoRequest struct {
	Title       string  `json:"title" validate:"required,max=255" example:"buy milk"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=10000" example:"two litres"`
	Priority    *int    `json:"priority,omitempty" validate:"omitempty,min=-2147483648,max=2147483647" example:"1"`
	Completed   *bool   `json:"completed,omitempty" example:"false"`
}

// NewTodo converts the request into store input, filling in defaults.
func (r CreateTodoRequest) NewTodo() NewTodo {
	t := NewTodo{
		Title:       r.Title,
		Description: r.Description,
		Priority:    defaultPriority,
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	return t
}

// UpdateTodoRequest is the body of PUT /todos/{id}. Only keys present in the
// body are changed. "description": null clears the description; null for any
// other field is rejected.
type UpdateTodoRequest struct {
	Title       Field[string] `json:"title" swaggertype:"string" example:"buy oat milk"`
	Description Field[string] `json:"description" swaggertype:"string" example:"two litres"`
	Priority    Field[int]    `json:"priority" swaggertype:"integer" example:"2"`
	Completed   Field[bool]   `json:"completed" swaggertype:"boolean" example:"true"`
}

// Validate checks the present fields. It is called explicitly because the
// struct-tag validator cannot see inside Field.
func (r UpdateTodoRequest) Validate() error {
	var problems []string
	for name, null := range map[string]bool{
		"title":     r.Title.Null,
		"priority":  r.Priority.Null,
		"completed": r.Completed.Null,
	} {
		if null {
			problems = append(problems, fmt.Sprintf("field '%s' must not be null", name))
		}
	}
	if r.Title.Set && !r.Title.Null {
		if r.Title.Value == "" {
			problems = append(problems, "field 'title' failed on 'required'")
		} else if utf8.RuneCountInString(r.Title.Value) > maxTitleLength {
			problems = append(problems, "field 'title' failed on 'max'")
		}
	}
	if r.Description.Set && !r.Description.Null && utf8.RuneCountInString(r.Description.Value) > maxDescriptionLength {
		problems = append(problems, "field 'description' failed on 'max'")
	}
	if r.Priority.Set && !r.Priority.Null && (r.Priority.Value < math.MinInt32 || r.Priority.Value > math.MaxInt32) {
		problems = append(problems, "field 'priority' failed on 'max'")
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return apperror.NewValidationError(strings.Join(problems, "; "), nil)
}

// Patch converts the request into store input.
func (r UpdateTodoRequest) Patch() Patch {
	return Patch{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Completed:   r.Completed,
	}
}

// DeleteResponse is returned by DELETE /todos/{id}.
type DeleteResponse struct {
	Message string `json:"message" example:"Todo deleted successfully"`
}
