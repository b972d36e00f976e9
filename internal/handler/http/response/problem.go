package response

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/metrics"
	"github.com/getsentry/sentry-go"
)

const ProblemContentType = "application/problem+json"

// ProblemDocument is the failure shape (RFC 7807 with an error_code extension).
type ProblemDocument struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Instance   string         `json:"instance"`
	ErrorCode  string         `json:"error_code"`
	Properties map[string]any `json:"properties,omitempty"`
}

// NewProblem maps err onto a problem document for the given request path.
func NewProblem(err error, path string) ProblemDocument {
	appErr := apperror.From(err)
	if appErr == nil {
		appErr = apperror.Internal(nil)
	}

	doc := ProblemDocument{
		Type:      "about:blank",
		Title:     appErr.Kind.Title(),
		Status:    appErr.Status(),
		Detail:    appErr.PublicDetail(),
		Instance:  SanitizePath(path),
		ErrorCode: appErr.Kind.Code(),
	}
	if len(appErr.Props) > 0 {
		doc.Properties = make(map[string]any, len(appErr.Props))
		for k, v := range appErr.Props {
			doc.Properties[k] = v
		}
	}
	return doc
}

// Problem writes exactly one problem document for err. Internal failures are
// logged with their cause and reported to Sentry; everything else is a warning.
func Problem(w http.ResponseWriter, r *http.Request, err error) {
	doc := NewProblem(err, requestPath(r))

	ctx := r.Context()
	attrs := []any{
		"error_code", doc.ErrorCode,
		"status", doc.Status,
		"instance", doc.Instance,
		"error", err,
	}
	if apperror.KindOf(err) == apperror.KindInternal {
		slog.ErrorContext(ctx, "Request failed", attrs...)
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	} else {
		slog.WarnContext(ctx, "Request rejected", attrs...)
	}
	metrics.Problems.WithLabelValues(doc.ErrorCode).Inc()

	writeJSON(w, doc.Status, ProblemContentType, doc)
}
