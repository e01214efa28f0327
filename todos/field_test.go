package todos

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/todolist-go/apperror"
)

func decodeUpdate(t *testing.T, body string) UpdateTodoRequest {
	t.Helper()
	var req UpdateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestFieldDistinguishesAbsentNullAndValue(t *testing.T) {
	req := decodeUpdate(t, `{"description": null, "priority": 3}`)

	assert.False(t, req.Title.Set)
	assert.False(t, req.Completed.Set)

	assert.True(t, req.Description.Set)
	assert.True(t, req.Description.Null)
	assert.Nil(t, req.Description.Ptr())

	assert.Equal(t, Some(3), req.Priority)
}

func TestFieldEmptyStringIsAValue(t *testing.T) {
	req := decodeUpdate(t, `{"description": ""}`)

	require.True(t, req.Description.Set)
	assert.False(t, req.Description.Null)
	require.NotNil(t, req.Description.Ptr())
	assert.Equal(t, "", *req.Description.Ptr())
}

func TestFieldWrongTypeFails(t *testing.T) {
	var req UpdateTodoRequest
	assert.Error(t, json.Unmarshal([]byte(`{"priority": "high"}`), &req))
}

func TestFieldMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Field[int] `json:"a"`
		B Field[int] `json:"b"`
		C Field[int] `json:"c"`
	}{A: Some(2), B: Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2,"b":null,"c":null}`, string(out))
}

func TestUpdateRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"empty body", `{}`, true},
		{"completed only", `{"completed": true}`, true},
		{"clear description", `{"description": null}`, true},
		{"null title", `{"title": null}`, false},
		{"null priority", `{"priority": null}`, false},
		{"null completed", `{"completed": null}`, false},
		{"empty title", `{"title": ""}`, false},
		{"long description", `{"description": "` + strings.Repeat("d", maxDescriptionLength+1) + `"}`, false},
		{"description at limit", `{"description": "` + strings.Repeat("d", maxDescriptionLength) + `"}`, true},
		{"priority out of range", `{"priority": 3000000000}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeUpdate(t, tt.body).Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsValidationError(err), "got %v", err)
		})
	}
}

func TestCreateRequestDefaults(t *testing.T) {
	nt := CreateTodoRequest{Title: "buy milk"}.NewTodo()
	assert.Equal(t, NewTodo{Title: "buy milk", Priority: 1}, nt)

	prio, done := 5, true
	nt = CreateTodoRequest{Title: "x", Priority: &prio, Completed: &done}.NewTodo()
	assert.Equal(t, 5, nt.Priority)
	assert.True(t, nt.Completed)
}
