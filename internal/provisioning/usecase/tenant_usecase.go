// Package usecase implements business logic orchestration for device
// provisioning operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
	provService "github.com/leadgrid/leadgrid/internal/provisioning/service"
)

// tenantUseCase implements TenantUseCase.
type tenantUseCase struct {
	tenantRepo TenantRepository
	keyService provService.KeyService
}

// NewTenantUseCase creates a new tenant use case.
func NewTenantUseCase(tenantRepo TenantRepository, keyService provService.KeyService) TenantUseCase {
	return &tenantUseCase{tenantRepo: tenantRepo, keyService: keyService}
}

// Create registers a tenant and mints its admin key.
func (t *tenantUseCase) Create(ctx context.Context, name string) (*domain.Tenant, string, error) {
	plainKey, prefix, keyHash, err := t.keyService.GenerateKey(provService.SchemeAdminKey)
	if err != nil {
		return nil, "", err
	}

	tenant := &domain.Tenant{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		KeyPrefix: prefix,
		KeyHash:   keyHash,
		CreatedAt: time.Now().UTC(),
	}

	if err := t.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, "", err
	}

	return tenant, plainKey, nil
}

// Authenticate resolves an admin key to its tenant.
//
// Malformed keys, unknown prefixes and wrong secrets all collapse into
// ErrInvalidCredential so a caller probing the endpoint cannot tell which
// part of the key was wrong.
func (t *tenantUseCase) Authenticate(ctx context.Context, plainKey string) (*domain.Tenant, error) {
	prefix, secret, err := t.keyService.SplitKey(plainKey)
	if err != nil {
		return nil, domain.ErrInvalidCredential
	}

	tenant, err := t.tenantRepo.GetByKeyPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}

	if !t.keyService.CompareSecret(secret, tenant.KeyHash) {
		return nil, domain.ErrInvalidCredential
	}

	return tenant, nil
}
