package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/go-playground/validator/v10"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func write(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed to write response body", slog.Int("status", status), slog.Any("error", err))
	}
}

func Success(w http.ResponseWriter, status int, data any) {
	write(w, status, APIResponse{Success: true, Data: data})
}

// Error maps an AppError onto its status and code; anything else is reported
// as an internal error without leaking its text.
func Error(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		write(w, http.StatusInternalServerError, APIResponse{Error: &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "An unexpected error occurred",
		}})
		return
	}

	body := &ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	if appErr.Detail != "" {
		body.Details = []string{appErr.Detail}
	}

	write(w, appErr.StatusCode, APIResponse{Error: body})
}

// tag -> message format; %[1]s is the field, %[2]s the tag parameter.
var fieldMessages = map[string]string{
	"required": "Field %[1]s is required",
	"email":    "Field %[1]s must be a valid email address",
	"min":      "Field %[1]s must be at least %[2]s characters",
	"max":      "Field %[1]s must be at most %[2]s characters",
	"gt":       "Field %[1]s must be greater than %[2]s",
	"gte":      "Field %[1]s must be at least %[2]s",
	"lt":       "Field %[1]s must be less than %[2]s",
	"oneof":    "Field %[1]s must be one of: %[2]s",
}

func fieldMessage(fe validator.FieldError) string {
	if format, ok := fieldMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}

	return fmt.Sprintf("Field %s is invalid: %s=%s", fe.Field(), fe.Tag(), fe.Param())
}

// ValidationError writes one detail line per failed field.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fieldMessage(fe))
	}

	write(w, http.StatusBadRequest, APIResponse{Error: &ErrorResponse{
		Code:    errors.ErrCodeValidation,
		Message: "Validation failed",
		Details: details,
	}})
}
