package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

//nolint:gochecknoinits // huma exposes error construction only as a package variable.
func init() {
	huma.NewError = NewError
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"   doc:"Name of the rejected field" example:"email"`
	Message string `json:"message" doc:"Why it was rejected"        example:"expected string to be RFC 5322 email"`
}

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	Status  int          `json:"-"`
	Success bool         `json:"success"         doc:"Always false"`
	Message string       `json:"message"         doc:"Human readable summary" example:"Validation error"`
	Errors  []FieldError `json:"error,omitempty" doc:"Field level validation failures"`
}

func (e *ErrorEnvelope) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorEnvelope) GetStatus() int {
	return e.Status
}

// NewError replaces huma's RFC 9457 errors with the response envelope. Schema
// validation failures are reported as 400 with a per-field breakdown and
// unexpected errors never leak their cause.
func NewError(status int, msg string, errs ...error) huma.StatusError {
	env := &ErrorEnvelope{Status: status, Message: msg}

	switch {
	case status == http.StatusUnprocessableEntity:
		env.Status = http.StatusBadRequest
		env.Message = MsgValidationError
	case status >= http.StatusInternalServerError:
		env.Message = MsgInternalError

		return env
	}

	for _, err := range errs {
		var detailer huma.ErrorDetailer
		if !errors.As(err, &detailer) {
			continue
		}

		detail := detailer.ErrorDetail()
		env.Errors = append(env.Errors, FieldError{
			Field:   fieldName(detail.Location),
			Message: detail.Message,
		})
	}

	if len(env.Errors) > 0 && env.Status == http.StatusBadRequest {
		env.Message = MsgValidationError
	}

	return env
}

// fieldName strips the request part from a huma location such as "body.email".
func fieldName(location string) string {
	if _, field, ok := strings.Cut(location, "."); ok {
		return field
	}

	return location
}

// WriteError writes an error envelope outside of huma, e.g. from chi handlers.
func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(&ErrorEnvelope{Status: status, Message: msg})
}
