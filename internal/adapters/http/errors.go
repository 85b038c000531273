package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/codenameuriel/exo-intel/pkg/domain"
)

// Error codes carried by the error envelope.
const (
	CodeValidation     = "validation_error"
	CodeAuthentication = "authentication_error"
	CodeNotFound       = "not_found"
	CodeGeneric        = "generic_error"
)

const (
	msgInvalidInput = "Invalid input provided."
	msgNoCredential = "Authentication credentials were not provided."
	msgNotFound     = "Not found."
	msgGeneric      = "An error occurred."
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message, Details: details})
}

// fieldErrors maps a field name to its messages, the shape of validation details.
type fieldErrors map[string][]string

func fieldError(field, reason string) fieldErrors {
	if field == "" {
		field = "non_field_errors"
	}
	return fieldErrors{field: {reason}}
}

// writeDomainError translates err into the envelope. Unexpected errors are
// logged and reported without their text.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var invalid *domain.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, CodeValidation, msgInvalidInput, fieldError(invalid.Field, invalid.Reason))
	case errors.Is(err, domain.ErrUnknownSimulationKind):
		writeError(w, http.StatusBadRequest, CodeValidation, msgInvalidInput, fieldError("simulation_type", err.Error()))
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, msgNotFound, nil)
	case errors.Is(err, domain.ErrUnauthorized):
		unauthorized(w, msgInvalidKey)
	default:
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, CodeGeneric, msgGeneric, nil)
	}
}
