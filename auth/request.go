package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/user/todolist-go/apperror"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into dst and runs struct validation.
// Failures come back as apperror ValidationError/BadRequestError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewBadRequestError("request body is required", err)
		}
		return apperror.NewBadRequestError("invalid request body: "+err.Error(), err)
	}
	if decoder.More() {
		return apperror.NewBadRequestError("request body must contain a single JSON object", nil)
	}
	return Validate(dst)
}

// Validate runs the `validate` struct tags on v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag()))
		}
		return apperror.NewValidationError(strings.Join(msgs, "; "), err)
	}
	return apperror.NewBadRequestError("invalid request", err)
}

// WriteJSON serializes data to JSON and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// WriteError uses the apperror system to write standardized error responses.
// Errors that are not *apperror.AppError become a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"type", appErr.Type.String(),
			"error", err,
		)
		// Never leak internals such as SQL errors to the client.
		appErr = apperror.NewAppError(appErr.Type, "internal server error", appErr.Err)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	WriteJSON(w, status, appErr.ToResponse())
}
