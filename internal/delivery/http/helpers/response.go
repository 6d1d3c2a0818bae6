package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"conferencecentral/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInvalidFilter = "invalid_filter"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeUnavailable   = "unavailable"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// errorStatus maps domain errors to a status and code, most specific first.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidFilter, http.StatusBadRequest, ErrCodeInvalidFilter},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrConflict, http.StatusConflict, ErrCodeConflict},
	{domain.ErrTransient, http.StatusServiceUnavailable, ErrCodeUnavailable},
}

// WriteServiceError writes the response for an error returned by a service.
// Unmapped errors are logged and reported as 500 without their details.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			WriteJSONError(w, m.status, m.code, err.Error())
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
