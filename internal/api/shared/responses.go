package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/modulith/modulith/internal/pipeline"
)

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"-"` // Not serialized to JSON, used for logging
	TraceID string `json:"trace_id,omitempty"`
}

// ResultResponse is the HTTP body for a service result envelope. The
// envelope's status code becomes the HTTP status and is not repeated in
// the body.
type ResultResponse struct {
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Data    any                 `json:"data,omitempty"`
	TraceID string              `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status code
// and message. It also sets the TraceID from the request context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		Code:    status,
		TraceID: traceID,
	})
}

// RespondWithResult translates a service result envelope into an HTTP
// response: the envelope's status code becomes the HTTP status, and
// message/errors/data form the body. Trace IDs are attached to error
// responses only.
func RespondWithResult(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	body := ResultResponse{
		Message: res.Message,
		Errors:  res.Errors,
		Data:    res.Data,
	}
	if !res.OK() {
		body.TraceID = GetTraceID(r.Context())
	}

	RespondWithJSON(w, r, res.StatusCode, body)
}
