package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/httputil"
	"github.com/leadgrid/leadgrid/internal/licensing/domain"
	"github.com/leadgrid/leadgrid/internal/licensing/http/dto"
	"github.com/leadgrid/leadgrid/internal/licensing/usecase"
	customValidation "github.com/leadgrid/leadgrid/internal/validation"
)

// WebhookSecretHeader carries the shared secret on billing webhook calls.
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookHandler handles the billing collaborator's purchase notifications.
type WebhookHandler struct {
	licenseUseCase usecase.LicenseUseCase
	secret         string
	logger         *slog.Logger
}

// NewWebhookHandler creates a new billing webhook handler. An empty secret
// disables the endpoint entirely rather than leaving it open.
func NewWebhookHandler(licenseUseCase usecase.LicenseUseCase, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{licenseUseCase: licenseUseCase, secret: secret, logger: logger}
}

// WebhookHandler records a completed license purchase.
// POST /v1/billing/webhook - Requires the shared webhook secret.
func (h *WebhookHandler) WebhookHandler(c *gin.Context) {
	if !h.authorized(c) {
		httputil.FailCoded(c, http.StatusUnauthorized, httputil.CodeUnauthenticated, "invalid webhook secret")
		return
	}

	var req dto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.FailValidation(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.FailValidation(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	deviceID, err := uuid.Parse(req.DeviceID)
	if err != nil {
		httputil.FailValidation(c, err, h.logger)
		return
	}

	license, err := h.licenseUseCase.CreateFromWebhook(
		c.Request.Context(),
		deviceID,
		domain.LicenseType(req.Type),
		req.Reference,
	)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusCreated, dto.MapLicenseToResponse(license))
}

func (h *WebhookHandler) authorized(c *gin.Context) bool {
	if h.secret == "" {
		return false
	}
	given := c.GetHeader(WebhookSecretHeader)
	return subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) == 1
}
