package utils

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// ErrEmptyBody is returned by DecodeJSON when the body has no JSON document.
var ErrEmptyBody = stdErrors.New("request body cannot be empty")

// DecodeJSON reads one JSON document from the request body into dest.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	switch err := dec.Decode(dest); {
	case err == nil:
		return nil
	case stdErrors.Is(err, io.EOF):
		return ErrEmptyBody
	default:
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}

		return fmt.Errorf("invalid JSON format: %w", err)
	}
}

// ParseAndValidate decodes and validates dest, writing the error response itself
// and reporting false when the handler should stop.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSON(w, r, dest); err != nil {
		slog.Warn("Invalid request body", slog.String("endpoint", r.URL.Path), slog.Any("error", err))
		response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
		return false
	}

	err := validate.Struct(dest)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if stdErrors.As(err, &fieldErrs) {
		slog.Warn("Validation failed", slog.String("endpoint", r.URL.Path), slog.Int("fields", len(fieldErrs)))
		response.ValidationError(w, fieldErrs)
		return false
	}

	slog.Error("Unexpected validation error", slog.Any("error", err))
	response.Error(w, errors.ValidationError("Invalid input data").WithError(err))

	return false
}

// ParseID reads a UUID path value.
func ParseID(r *http.Request, name string) (uuid.UUID, error) {

	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, errors.BadRequestError("Invalid " + name).WithError(err)
	}

	return id, nil
}

// ParsePage reads a page number path value; range checks are left to the caller.
func ParsePage(r *http.Request, name string) (int, error) {

	page, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, errors.ValidationError("Invalid page number").WithError(err)
	}

	return page, nil
}
