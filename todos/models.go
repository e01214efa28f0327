// Package todos is responsible for everything related to todo items: the entity,
// its persistence, the use cases and the HTTP handlers.
// It follows the same modular layout as `auth` and `users`, akin to a "TodosModule"
// in Nest.js (entity + repository + service + controller in one folder).
//
// This file, `models.go`, defines the entity and the store inputs.
// Every read and write takes the acting user's id and filters on it together
// with the todo id, so a todo owned by someone else behaves exactly like one
// that does not exist.
package todos

import "time"

// Todo is a task owned by exactly one user.
// This struct is both the row shape and the JSON response body; the `json` tags
// give the snake_case names clients see, `example` tags feed the Swagger docs.
// Description is a pointer so that "no description" serializes as null.
type Todo struct {
	ID          int64     `json:"id" example:"1"`
	UserID      int64     `json:"user_id" example:"1"`
	Title       string    `json:"title" example:"buy milk"`
	Description *string   `json:"description" example:"two litres"`
	Priority    int       `json:"priority" example:"1"`
	Completed   bool      `json:"completed" example:"false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTodo carries the fields of a todo about to be inserted.
type NewTodo struct {
	Title       string
	Description *string
	Priority    int
	Completed   bool
}

// Patch lists the fields an update touches. Think of it as a form where each box
// has a "leave unchanged" tick: Field.Set is that tick. A field with Set=false keeps its
// stored value.
type Patch struct {
	Title       Field[string]
	Description Field[string]
	Priority    Field[int]
	Completed   Field[bool]
}

// apply returns a copy of t with the patch's present fields written over it.
func (p Patch) apply(t Todo) Todo {
	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Ptr()
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.Completed.Set {
		t.Completed = p.Completed.Value
	}
	return t
}
