package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/httputil"
	"github.com/leadgrid/leadgrid/internal/provisioning/http/dto"
	"github.com/leadgrid/leadgrid/internal/provisioning/usecase"
	customValidation "github.com/leadgrid/leadgrid/internal/validation"
)

// ResendHandler handles provisioning token delivery through the notification
// dispatcher.
type ResendHandler struct {
	resendUseCase usecase.ResendUseCase
	logger        *slog.Logger
}

// NewResendHandler creates a new resend handler.
func NewResendHandler(resendUseCase usecase.ResendUseCase, logger *slog.Logger) *ResendHandler {
	return &ResendHandler{resendUseCase: resendUseCase, logger: logger}
}

// ResendHandler rotates the device's token and mails the claim URL.
// POST /v1/devices/:id/provision-token/resend - Requires tenant admin key.
func (h *ResendHandler) ResendHandler(c *gin.Context) {
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

	var req dto.ResendTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.FailValidation(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.FailValidation(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.resendUseCase.Resend(c.Request.Context(), tenant.ID, deviceID, req.Email)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusOK, dto.MapResendOutputToResponse(output))
}
