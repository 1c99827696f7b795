// Package http provides the licensing HTTP handlers.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadgrid/leadgrid/internal/httputil"
	"github.com/leadgrid/leadgrid/internal/licensing/domain"
	"github.com/leadgrid/leadgrid/internal/licensing/http/dto"
	"github.com/leadgrid/leadgrid/internal/licensing/usecase"
	provhttp "github.com/leadgrid/leadgrid/internal/provisioning/http"
	customValidation "github.com/leadgrid/leadgrid/internal/validation"
)

// LicenseHandler handles device-facing license endpoints.
type LicenseHandler struct {
	licenseUseCase usecase.LicenseUseCase
	logger         *slog.Logger
}

// NewLicenseHandler creates a new license handler.
func NewLicenseHandler(licenseUseCase usecase.LicenseUseCase, logger *slog.Logger) *LicenseHandler {
	return &LicenseHandler{licenseUseCase: licenseUseCase, logger: logger}
}

// StateHandler reports the device's license state.
// GET /v1/license - Requires device credential.
func (h *LicenseHandler) StateHandler(c *gin.Context) {
	device, ok := provhttp.GetDevice(c.Request.Context())
	if !ok {
		httputil.FailCoded(c, http.StatusUnauthorized, httputil.CodeUnauthenticated, "missing device")
		return
	}

	view, err := h.licenseUseCase.State(c.Request.Context(), device.ID)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusOK, dto.MapStateViewToResponse(view))
}

// CheckoutHandler starts a license purchase by handing out the payment
// collaborator URL.
// POST /v1/license/checkout - Requires device credential.
func (h *LicenseHandler) CheckoutHandler(c *gin.Context) {
	device, ok := provhttp.GetDevice(c.Request.Context())
	if !ok {
		httputil.FailCoded(c, http.StatusUnauthorized, httputil.CodeUnauthenticated, "missing device")
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.FailValidation(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.FailValidation(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	checkoutURL, err := h.licenseUseCase.Checkout(c.Request.Context(), device.ID, domain.LicenseType(req.Type))
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusOK, dto.CheckoutResponse{CheckoutURL: checkoutURL})
}
