package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AppInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Env      string `json:"env"`
	DBDriver string `json:"db_driver"`
	Storage  string `json:"storage"`
}

type HealthHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
	Info(w http.ResponseWriter, r *http.Request)
}

type HealthHandlerImpl struct {
	pinger    Pinger
	info      AppInfo
	startedAt time.Time
}

// NewHealthHandler accepts a nil pinger for stores without a connection.
func NewHealthHandler(pinger Pinger, info AppInfo) HealthHandler {
	return &HealthHandlerImpl{pinger: pinger, info: info, startedAt: time.Now()}
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Health implements HealthHandler.
func (h *HealthHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:   "UP",
		Database: h.info.DBDriver,
		Uptime:   time.Since(h.startedAt).Truncate(time.Second).String(),
	}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			response.Problem(w, r, apperror.Internal(err).With("database", h.info.DBDriver))
			return
		}
	}

	response.OK(w, r, status)
}

// Info implements HealthHandler.
func (h *HealthHandlerImpl) Info(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, h.info)
}
