package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/garnizeh/feedback/internal/models"
)

type ErrorCode string

const (
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidRole  ErrorCode = "INVALID_ROLE"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"

	CodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// authMessages holds the client-facing text for each authentication failure.
var authMessages = []struct {
	err error
	msg string
}{
	{models.ErrInvalidCredentials, "invalid username or password"},
	{models.ErrTokenMissing, "authorization token is missing"},
	{models.ErrTokenMalformed, "authorization token is malformed"},
	{models.ErrTokenExpired, "authorization token has expired"},
	{models.ErrTokenInvalid, "authorization token is invalid"},
	{models.ErrUserNotFound, "user not found"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}

// WriteError maps err to a status code and writes the error envelope.
// Unexpected errors are logged and replaced with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := mapError(err)

	if status == http.StatusInternalServerError {
		logger.Error("unexpected error", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "code", resp.Error.Code, "error", err)
	}

	writeJSON(w, status, resp)
}

func mapError(err error) (int, ErrorResponse) {
	detail := func(code ErrorCode, msg string) ErrorResponse {
		return ErrorResponse{Error: ErrorDetail{Code: code, Message: msg}}
	}

	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, detail(CodeValidation, err.Error())

	case errors.Is(err, models.ErrAuth):
		for _, m := range authMessages {
			if errors.Is(err, m.err) {
				return http.StatusUnauthorized, detail(CodeUnauthorized, m.msg)
			}
		}
		return http.StatusUnauthorized, detail(CodeUnauthorized, "authentication failed")

	case errors.Is(err, models.ErrInvalidRole):
		return http.StatusForbidden, detail(CodeInvalidRole, "invalid user role")

	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, detail(CodeForbidden, err.Error())

	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, detail(CodeNotFound, err.Error())

	default:
		return http.StatusInternalServerError, detail(CodeInternal, "internal server error")
	}
}
