package errors

import (
	"errors"
	"net/http"
	"strings"
)

type AppError struct {
	Code     string
	Message  string
	Status   int
	Redirect string
	Err      error
}

func (e *AppError) Error() string {
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithRedirect attaches a navigation hint for clients, e.g. "/" or "/sign-in".
func (e *AppError) WithRedirect(path string) *AppError {
	e.Redirect = path
	return e
}

const (
	CodeNotFound        = "NOT_FOUND"
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_ERROR"
)

func New(code string, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound, err)
}

func BadRequest(message string, err error) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest, err)
}

// Validation is raised before any network call is made.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest, nil)
}

func Unauthorized(message string, err error) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized, err)
}

func Forbidden(message string, err error) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden, err)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict, nil)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequests, message, http.StatusTooManyRequests, nil)
}

func Internal(message string, err error) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError, err)
}

// Is reports whether any AppError in err's chain carries code.
func Is(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// FromAuthCode maps an auth gateway error code to the message shown to the user.
// Codes may carry a suffix, e.g. "WEAK_PASSWORD : Password should be at least 6 characters".
func FromAuthCode(code string, err error) *AppError {
	base := strings.TrimSpace(strings.SplitN(code, ":", 2)[0])

	switch base {
	case "INVALID_LOGIN_CREDENTIALS", "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_CREDENTIAL":
		return Unauthorized("Your email or password is incorrect", err)
	case "EMAIL_EXISTS":
		return Conflict("Email already in use")
	case "WEAK_PASSWORD":
		return BadRequest("Password should be at least 6 characters", err)
	case "INVALID_EMAIL":
		return BadRequest("Please enter a valid email address", err)
	case "USER_DISABLED":
		return Forbidden("This account has been disabled", err)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return TooManyRequests("Too many attempts, try again later")
	case "INVALID_IDP_RESPONSE":
		return Unauthorized("Could not authorize with the identity provider", err)
	case "INVALID_REFRESH_TOKEN", "TOKEN_EXPIRED":
		return Unauthorized("Session expired, please sign in again", err)
	default:
		return Unauthorized("Something went wrong signing in", err)
	}
}
