package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/services/moderation"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes, shared by REST responses and realtime error events
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidPayload     = "INVALID_PAYLOAD"
	CodeUnknownEvent       = "UNKNOWN_EVENT"
	CodeRateLimited        = "RATE_LIMITED"
	CodeNotRegistered      = "NOT_REGISTERED"
	CodeIdentityMismatch   = "IDENTITY_MISMATCH"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeBanned             = "BANNED"
	CodeSelfFriendRequest  = "SELF_FRIEND_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Lookup returns the code and message reported to clients for err
func Lookup(err error) APIError {
	return toHTTPError(err).apiError
}

// Status returns the HTTP status used for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	if be, ok := moderation.AsBanError(err); ok {
		return &httpError{http.StatusForbidden, APIError{CodeBanned, be.Error()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameTaken, "Username already taken"}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, model.ErrBanned):
		return &httpError{http.StatusForbidden, APIError{CodeBanned, "User is banned"}}
	case errors.Is(err, model.ErrSelfFriendRequest):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfFriendRequest, "Cannot send a friend request to yourself"}}
	case errors.Is(err, model.ErrNotRegistered):
		return &httpError{http.StatusUnauthorized, APIError{CodeNotRegistered, "Register a user before sending this event"}}
	case errors.Is(err, model.ErrIdentityMismatch):
		return &httpError{http.StatusForbidden, APIError{CodeIdentityMismatch, "Session is registered as a different user"}}
	case errors.Is(err, model.ErrInvalidPayload):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPayload, err.Error()}}
	case errors.Is(err, model.ErrUnknownEvent):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownEvent, err.Error()}}
	case errors.Is(err, model.ErrRateLimited):
		return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many events, slow down"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
