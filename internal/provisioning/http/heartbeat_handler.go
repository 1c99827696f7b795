package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/httputil"
	licdomain "github.com/leadgrid/leadgrid/internal/licensing/domain"
	licdto "github.com/leadgrid/leadgrid/internal/licensing/http/dto"
	"github.com/leadgrid/leadgrid/internal/provisioning/http/dto"
	"github.com/leadgrid/leadgrid/internal/provisioning/usecase"
)

// LicenseReporter reports a device's license state for the heartbeat
// response. Satisfied by the licensing use case.
type LicenseReporter interface {
	State(ctx context.Context, deviceID uuid.UUID) (*licdomain.StateView, error)
}

// HeartbeatHandler handles device check-ins. The response carries the
// device's view of itself: fresh connection state plus license state, so one
// call tells the gate everything it needs.
type HeartbeatHandler struct {
	deviceUseCase usecase.DeviceUseCase
	licenses      LicenseReporter
	logger        *slog.Logger
}

// NewHeartbeatHandler creates a new heartbeat handler.
func NewHeartbeatHandler(deviceUseCase usecase.DeviceUseCase, licenses LicenseReporter, logger *slog.Logger) *HeartbeatHandler {
	return &HeartbeatHandler{deviceUseCase: deviceUseCase, licenses: licenses, logger: logger}
}

// HeartbeatHandler records a device check-in.
// POST /v1/heartbeat - Requires device credential.
func (h *HeartbeatHandler) HeartbeatHandler(c *gin.Context) {
	device, ok := GetDevice(c.Request.Context())
	if !ok {
		httputil.FailCoded(c, http.StatusUnauthorized, httputil.CodeUnauthenticated, "missing device")
		return
	}

	view, err := h.deviceUseCase.Heartbeat(c.Request.Context(), device.ID)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	licenseState, err := h.licenses.State(c.Request.Context(), device.ID)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusOK, dto.HeartbeatResponse{
		ConnectionState: string(view.ConnectionState),
		License:         licdto.MapStateViewToResponse(licenseState),
	})
}
