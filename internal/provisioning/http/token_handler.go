package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/httputil"
	"github.com/leadgrid/leadgrid/internal/provisioning/http/dto"
	"github.com/leadgrid/leadgrid/internal/provisioning/usecase"
)

// TokenHandler handles HTTP requests for provisioning token operations.
type TokenHandler struct {
	tokenUseCase usecase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new provisioning token handler.
func NewTokenHandler(tokenUseCase usecase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{tokenUseCase: tokenUseCase, logger: logger}
}

// CreateHandler mints a provisioning token for a device, or reports the
// metadata of a still-active one.
// POST /v1/devices/:id/provision-token - Requires tenant admin key.
//
// Returns 201 with the plaintext token and claim URL on a fresh mint, 200
// with metadata only when an unexpired token already exists. The plaintext
// of an existing token is gone; callers that lost it rotate instead.
func (h *TokenHandler) CreateHandler(c *gin.Context) {
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

	output, err := h.tokenUseCase.CreateOrReturn(c.Request.Context(), tenant.ID, deviceID)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	if output.Minted != nil {
		httputil.OK(c, http.StatusCreated, dto.MapMintedTokenToResponse(output.Minted))
		return
	}
	httputil.OK(c, http.StatusOK, dto.MapTokenMetadataToResponse(output.Existing))
}

// RotateHandler revokes any active token and mints a fresh one.
// POST /v1/devices/:id/provision-token/rotate - Requires tenant admin key.
func (h *TokenHandler) RotateHandler(c *gin.Context) {
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

	minted, err := h.tokenUseCase.Rotate(c.Request.Context(), tenant.ID, deviceID)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusCreated, dto.MapMintedTokenToResponse(minted))
}

// StatusHandler reports the metadata of the device's active token.
// GET /v1/devices/:id/provision-token - Requires tenant admin key.
func (h *TokenHandler) StatusHandler(c *gin.Context) {
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

	metadata, err := h.tokenUseCase.Status(c.Request.Context(), tenant.ID, deviceID)
	if err != nil {
		httputil.Fail(c, err, h.logger)
		return
	}

	httputil.OK(c, http.StatusOK, dto.MapTokenMetadataToResponse(metadata))
}
