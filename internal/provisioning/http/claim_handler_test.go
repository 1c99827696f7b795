package http

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leadgrid/leadgrid/internal/httputil"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
	"github.com/leadgrid/leadgrid/internal/provisioning/http/dto"
)

func TestClaimHandler_ClaimHandler(t *testing.T) {
	t.Run("Success_ReturnsCredentialOnce", func(t *testing.T) {
		mockUseCase := &mockClaimUseCase{}
		handler := NewClaimHandler(mockUseCase, testLogger())

		deviceID := uuid.Must(uuid.NewV7())
		output := &domain.RedeemOutput{
			DeviceID:        deviceID,
			PlainCredential: "lgk_ab12cd34.secret",
			Prefix:          "lgk_ab12cd34",
		}

		mockUseCase.On("Redeem", mock.Anything, &domain.RedeemInput{
			Token:          "plain-token",
			DeviceName:     "booth-scanner",
			IdempotencyKey: "retry-1",
		}).Return(output, nil)

		c, w := createTestContext(http.MethodPost, "/v1/claim", dto.ClaimRequest{
			Token:          "plain-token",
			DeviceName:     "booth-scanner",
			IdempotencyKey: "retry-1",
		})

		handler.ClaimHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		envelope := decodeEnvelope(t, w)
		assert.True(t, envelope.OK)

		var response dto.ClaimResponse
		require.NoError(t, jsonUnmarshal(envelope.Data, &response))
		assert.Equal(t, deviceID.String(), response.DeviceID)
		assert.Equal(t, "lgk_ab12cd34.secret", response.Credential)
	})

	t.Run("Error_DeadTokenAnswersConflictWithCode", func(t *testing.T) {
		mockUseCase := &mockClaimUseCase{}
		handler := NewClaimHandler(mockUseCase, testLogger())

		mockUseCase.On("Redeem", mock.Anything, mock.AnythingOfType("*domain.RedeemInput")).
			Return(nil, domain.ErrInvalidProvisionToken)

		c, w := createTestContext(http.MethodPost, "/v1/claim", dto.ClaimRequest{Token: "dead-token"})

		handler.ClaimHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)

		envelope := decodeEnvelope(t, w)
		assert.False(t, envelope.OK)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, httputil.CodeInvalidToken, envelope.Error.Code)
	})

	t.Run("Error_MissingTokenFailsValidation", func(t *testing.T) {
		handler := NewClaimHandler(&mockClaimUseCase{}, testLogger())

		c, w := createTestContext(http.MethodPost, "/v1/claim", dto.ClaimRequest{Token: ""})

		handler.ClaimHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		envelope := decodeEnvelope(t, w)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, httputil.CodeValidation, envelope.Error.Code)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler := NewClaimHandler(&mockClaimUseCase{}, testLogger())

		c, w := createTestContext(http.MethodPost, "/v1/claim", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("not json")))

		handler.ClaimHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
