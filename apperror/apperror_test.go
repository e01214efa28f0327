package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{NewAuthError("nope", nil), http.StatusUnauthorized},
		{NewNotFoundError("Todo not found", nil), http.StatusNotFound},
		{NewValidationError("bad", nil), http.StatusBadRequest},
		{NewBadRequestError("bad", nil), http.StatusBadRequest},
		{NewConflictError("Email already registered", nil), http.StatusBadRequest},
		{NewDatabaseError("db", errors.New("boom")), http.StatusInternalServerError},
		{NewAppError(UnknownError, "?", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Type.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.StatusCode())
		})
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError("failed to get todo", cause)

	assert.Equal(t, "failed to get todo: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorResponse{Error: "failed to get todo"}, err.ToResponse())
}

func TestFromErrorLooksThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("Todo not found", nil))

	ae, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, NotFoundError, ae.Type)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflictError(wrapped))

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)
	_, ok = FromError(nil)
	assert.False(t, ok)
}
