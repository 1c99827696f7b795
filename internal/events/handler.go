package events

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/httputil"
	licusecase "github.com/leadgrid/leadgrid/internal/licensing/usecase"
	provhttp "github.com/leadgrid/leadgrid/internal/provisioning/http"
)

// EventResponse represents one active event in responses.
type EventResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// ListEventsResponse wraps the active event list.
type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
}

// Handler serves the device-facing event list.
type Handler struct {
	source         EventSource
	licenseUseCase licusecase.LicenseUseCase
	logger         *slog.Logger
}

// NewHandler creates a new events handler.
func NewHandler(source EventSource, licenseUseCase licusecase.LicenseUseCase, logger *slog.Logger) *Handler {
	return &Handler{source: source, licenseUseCase: licenseUseCase, logger: logger}
}

// ListHandler returns the tenant's currently running events.
// GET /v1/events - Requires device credential and an active license.
//
// The entitlement check runs first and promotes the head pending license
// when no window is running; without either the call answers 402 and the
// event list is never touched.
func (h *Handler) ListHandler(c *gin.Context) {
	device, ok := provhttp.GetDevice(c.Request.Context())
	if !ok {
		httputil.FailCoded(c, http.StatusUnauthorized, httputil.CodeUnauthenticated, "missing device")
		return
	}

	if _, err := h.licenseUseCase.Entitle(c.Request.Context(), device.ID); err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	active, err := h.source.ListActive(c.Request.Context(), device.TenantID, time.Now().UTC())
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	resp := ListEventsResponse{Events: []EventResponse{}}
	for _, event := range active {
		resp.Events = append(resp.Events, EventResponse{
			ID:       event.ID,
			Name:     event.Name,
			StartsAt: event.StartsAt,
			EndsAt:   event.EndsAt,
		})
	}

	httputil.OK(c, http.StatusOK, resp)
}
