// Package response renders every HTTP result of the API: success payloads in
// the Envelope, failures as a ProblemDocument.
package response

import (
	"encoding/json"
	"html"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Envelope is the uniform success shape.
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data"`
	Message   *string   `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// Text is written verbatim as text/plain and never wrapped.
type Text string

// NewEnvelope builds an envelope with a message, for handlers that need one.
func NewEnvelope(data any, message string, path string) Envelope {
	return Envelope{
		Success:   true,
		Data:      data,
		Message:   &message,
		Timestamp: time.Now().UTC(),
		Path:      SanitizePath(path),
	}
}

// Wrap envelopes payload unless it already is one of the opaque shapes.
func Wrap(payload any, path string) any {
	switch payload.(type) {
	case Envelope, *Envelope, ProblemDocument, *ProblemDocument, Text:
		return payload
	}
	return Envelope{
		Success:   true,
		Data:      payload,
		Timestamp: time.Now().UTC(),
		Path:      SanitizePath(path),
	}
}

// (?s) keeps matching across embedded newlines.
var unsafePathPattern = regexp.MustCompile(
	`(?is)<\s*script|<\s*iframe|javascript\s*:|on(load|error|click|mouseover|mouseout|focus|blur|change|submit|keydown|keyup|keypress|dblclick|input)\s*=`,
)

// SanitizePath returns "/" for paths carrying script injection markers and the
// HTML-escaped, trimmed path otherwise.
func SanitizePath(path string) string {
	if unsafePathPattern.MatchString(path) {
		slog.Warn("Potential XSS attempt in request path", "path", path)
		return "/"
	}
	return html.EscapeString(strings.TrimSpace(path))
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return "/"
	}
	return r.URL.Path
}

func writeJSON(w http.ResponseWriter, statusCode int, contentType string, payload any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// Write sends payload with the given status, wrapped when needed.
func Write(w http.ResponseWriter, r *http.Request, statusCode int, payload any) {
	wrapped := Wrap(payload, requestPath(r))
	switch body := wrapped.(type) {
	case Text:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	case ProblemDocument, *ProblemDocument:
		writeJSON(w, statusCode, ProblemContentType, body)
	default:
		writeJSON(w, statusCode, "application/json", body)
	}
}

func OK(w http.ResponseWriter, r *http.Request, payload any) {
	Write(w, r, http.StatusOK, payload)
}

func Created(w http.ResponseWriter, r *http.Request, payload any) {
	Write(w, r, http.StatusCreated, payload)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
