package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/httputil"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
	"github.com/leadgrid/leadgrid/internal/provisioning/http/dto"
	"github.com/leadgrid/leadgrid/internal/provisioning/usecase"
	customValidation "github.com/leadgrid/leadgrid/internal/validation"
)

// DeviceHandler handles HTTP requests for device lifecycle operations.
type DeviceHandler struct {
	deviceUseCase usecase.DeviceUseCase
	logger        *slog.Logger
}

// NewDeviceHandler creates a new device handler.
func NewDeviceHandler(deviceUseCase usecase.DeviceUseCase, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{deviceUseCase: deviceUseCase, logger: logger}
}

// CreateHandler registers a new device under the authenticated tenant.
// POST /v1/devices - Requires tenant admin key.
func (h *DeviceHandler) CreateHandler(c *gin.Context) {
	tenant, ok := GetTenant(c.Request.Context())
	if !ok {
		httputil.FailCoded(c, http.StatusUnauthorized, httputil.CodeUnauthenticated, "missing tenant")
		return
	}

	var req dto.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.FailValidation(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.FailValidation(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	device, err := h.deviceUseCase.Create(c.Request.Context(), &domain.CreateDeviceInput{
		TenantID: tenant.ID,
		Name:     req.Name,
	})
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusCreated, dto.MapDeviceToCreatedResponse(device))
}

// ListHandler lists the tenant's devices with derived connection states.
// GET /v1/devices?offset=N&limit=N - Requires tenant admin key.
func (h *DeviceHandler) ListHandler(c *gin.Context) {
	tenant, ok := GetTenant(c.Request.Context())
	if !ok {
		httputil.FailCoded(c, http.StatusUnauthorized, httputil.CodeUnauthenticated, "missing tenant")
		return
	}

	offset := parseIntQuery(c, "offset", 0)
	limit := parseIntQuery(c, "limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	views, err := h.deviceUseCase.List(c.Request.Context(), tenant.ID, offset, limit)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusOK, dto.MapDeviceViewsToListResponse(views))
}

// GetHandler retrieves a single device with its connection state.
// GET /v1/devices/:id - Requires tenant admin key.
func (h *DeviceHandler) GetHandler(c *gin.Context) {
	tenant, ok := GetTenant(c.Request.Context())
	if !ok {
		httputil.FailCoded(c, http.StatusUnauthorized, httputil.CodeUnauthenticated, "missing tenant")
		return
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.FailValidation(c, err, h.logger)
		return
	}

	view, err := h.deviceUseCase.Get(c.Request.Context(), tenant.ID, deviceID)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusOK, dto.MapDeviceViewToResponse(view))
}

// DeleteHandler removes a device and revokes its credential.
// DELETE /v1/devices/:id - Requires tenant admin key.
func (h *DeviceHandler) DeleteHandler(c *gin.Context) {
	tenant, ok := GetTenant(c.Request.Context())
	if !ok {
		httputil.FailCoded(c, http.StatusUnauthorized, httputil.CodeUnauthenticated, "missing tenant")
		return
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.FailValidation(c, err, h.logger)
		return
	}

	output, err := h.deviceUseCase.Delete(c.Request.Context(), tenant.ID, deviceID)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusOK, dto.DeleteDeviceResponse{
		CredentialRevoked: output.CredentialRevoked,
	})
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
