// Package respond writes the JSON envelope every API endpoint answers with:
//
//	{"success": true, "data": ...}
//	{"success": false, "error": "..."}
//
// Error messages are sanitised before they reach clients; internal details are
// logged instead.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"estate-hub/internal/observability/logging"
)

// Envelope is the response body shape shared by all endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent; all that is left is logging.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// OK writes a 200 success envelope carrying data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with a client-facing message.
func Fail(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, Envelope{Success: false, Error: msg})
}

// safeFragments mark error messages that are fine to show to clients.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"cannot be",
	"too long",
	"unsupported",
}

// SafeError writes err as a failure envelope. Client errors whose message is
// known to be safe are returned verbatim. Everything else, and every 5xx, is
// logged and replaced with a generic message.
func SafeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			logging.FromContext(r.Context()).Error("application error",
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		Fail(w, appErr.Code, appErr.UserMsg)
		return
	}

	msg := err.Error()
	if code < 500 && isSafe(msg) {
		Fail(w, code, msg)
		return
	}

	logging.FromContext(r.Context()).Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("path", r.URL.Path),
		slog.String("error", SanitizeError(err)))
	Fail(w, code, genericMessage(code))
}

func isSafe(msg string) bool {
	lower := strings.ToLower(msg)
	for _, frag := range safeFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

func genericMessage(code int) string {
	if code == http.StatusServiceUnavailable {
		return "service temporarily unavailable"
	}
	return "internal server error"
}

// AppError is an error that carries a client-facing message and status code.
type AppError struct {
	UserMsg string
	Err     error
	Code    int
}

// Error returns the internal error message.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}
