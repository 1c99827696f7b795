package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadgrid/leadgrid/internal/httputil"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
	"github.com/leadgrid/leadgrid/internal/provisioning/http/dto"
	"github.com/leadgrid/leadgrid/internal/provisioning/usecase"
	customValidation "github.com/leadgrid/leadgrid/internal/validation"
)

// ClaimHandler handles the public token redemption endpoint.
type ClaimHandler struct {
	claimUseCase usecase.ClaimUseCase
	logger       *slog.Logger
}

// NewClaimHandler creates a new claim handler.
func NewClaimHandler(claimUseCase usecase.ClaimUseCase, logger *slog.Logger) *ClaimHandler {
	return &ClaimHandler{claimUseCase: claimUseCase, logger: logger}
}

// ClaimHandler redeems a one-time provisioning token for a device credential.
// POST /v1/claim - Unauthenticated, rate limited per IP.
//
// All dead-token outcomes (unknown, used, revoked, expired, concurrent loss)
// answer 409 with code INVALID_PROVISION_TOKEN. The response does not say
// which; a claimer holding a dead token asks the tenant to rotate it.
func (h *ClaimHandler) ClaimHandler(c *gin.Context) {
	var req dto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.FailValidation(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.FailValidation(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.claimUseCase.Redeem(c.Request.Context(), &domain.RedeemInput{
		Token:          req.Token,
		DeviceName:     req.DeviceName,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidProvisionToken) {
			httputil.FailCoded(c, http.StatusConflict, httputil.CodeInvalidToken, "provision token is invalid or already used")
			return
		}
		httputil.Fail(c, err, h.logger)
		return
	}

	// A successful redeem creates a credential, so it answers 201 like the
	// token mint does.
	httputil.OK(c, http.StatusCreated, dto.MapRedeemOutputToResponse(output))
}
