package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/scribehq/scribe-api/internal/redact"
)

// DataResponse wraps a single resource or a plain collection in the
// {"data": ...} envelope.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// MessageResponse is the body of every non-validation error response,
// e.g. {"message": "Unauthenticated."}.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse is the 422 body: a top-level message plus a map of
// field names to their failure messages.
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// ValidationFailedMessage is the top-level message of every 422 response.
const ValidationFailedMessage = "The given data was invalid."

// ServerErrorMessage is the body of every 500 response. Details stay in the
// logs.
const ServerErrorMessage = "Server error."

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes the payload wrapped in the {"data": ...} envelope.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	RespondWithJSON(w, r, status, DataResponse{Data: data})
}

// RespondWithMessage writes a {"message": ...} error body with the given
// status code, logging the response with the request's trace ID. 5xx
// responses log at ERROR, 429 at WARN, other client errors at DEBUG.
func RespondWithMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	logResponse(r, status, message, nil)
	RespondWithJSON(w, r, status, MessageResponse{Message: message})
}

// RespondWithValidationErrors writes the 422 validation body with the given
// field error map.
func RespondWithValidationErrors(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	logResponse(r, http.StatusUnprocessableEntity, ValidationFailedMessage, nil)
	RespondWithJSON(w, r, http.StatusUnprocessableEntity, ValidationErrorResponse{
		Message: ValidationFailedMessage,
		Errors:  fieldErrors,
	})
}

// RespondWithServerError logs the underlying error (redacted) and writes the
// generic 500 body. The raw error never reaches the client.
func RespondWithServerError(w http.ResponseWriter, r *http.Request, err error) {
	logResponse(r, http.StatusInternalServerError, ServerErrorMessage, err)
	RespondWithJSON(w, r, http.StatusInternalServerError, MessageResponse{Message: ServerErrorMessage})
}

func logResponse(r *http.Request, status int, message string, err error) {
	attrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("message", message),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", redact.Error(err)))
	}

	level := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status == http.StatusTooManyRequests:
		level = slog.LevelWarn
	}

	slog.LogAttrs(r.Context(), level, "API error response", attrs...)
}
