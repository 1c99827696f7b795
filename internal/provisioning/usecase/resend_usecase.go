package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/notification"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// resendUseCase implements ResendUseCase.
type resendUseCase struct {
	tokenUseCase TokenUseCase
	dispatcher   notification.Dispatcher
}

// NewResendUseCase creates a new resend use case.
func NewResendUseCase(tokenUseCase TokenUseCase, dispatcher notification.Dispatcher) ResendUseCase {
	return &resendUseCase{tokenUseCase: tokenUseCase, dispatcher: dispatcher}
}

// Resend rotates the device's provisioning token and dispatches the fresh
// claim URL. With a real transport the plaintext travels through it and the
// output carries metadata and the receipt only. Rotation happens before
// dispatch, so when the dispatcher falls back to logging the output also
// carries the fresh plaintext; otherwise the rotated-away token would be
// unrecoverable.
func (r *resendUseCase) Resend(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
	email string,
) (*domain.ResendOutput, error) {
	minted, err := r.tokenUseCase.Rotate(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}

	receipt, err := r.dispatcher.Dispatch(ctx, notification.Message{
		To:      email,
		Subject: "Your device provisioning token",
		Body: fmt.Sprintf(
			"Open the link below on the device to claim its credential.\n\n%s\n\nThe token expires at %s.",
			minted.ClaimURL,
			minted.Metadata.ExpiresAt.Format("2006-01-02 15:04 MST"),
		),
	})
	if err != nil {
		return nil, err
	}

	output := &domain.ResendOutput{
		Transport:     receipt.Transport,
		MissingConfig: receipt.MissingConfig,
		Metadata:      minted.Metadata,
	}
	if receipt.Transport == notification.TransportLog {
		output.PlainToken = minted.PlainToken
		output.ClaimURL = minted.ClaimURL
	}
	return output, nil
}
