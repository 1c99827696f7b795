// Package http provides HTTP handlers and middleware for device provisioning.
package http

import (
	"context"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

type tenantContextKey struct{}

type deviceContextKey struct{}

// WithTenant stores an authenticated tenant in the context.
func WithTenant(ctx context.Context, tenant *domain.Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenant)
}

// GetTenant retrieves the authenticated tenant from the context.
func GetTenant(ctx context.Context) (*domain.Tenant, bool) {
	tenant, ok := ctx.Value(tenantContextKey{}).(*domain.Tenant)
	return tenant, ok
}

// WithDevice stores an authenticated device in the context.
func WithDevice(ctx context.Context, device *domain.Device) context.Context {
	return context.WithValue(ctx, deviceContextKey{}, device)
}

// GetDevice retrieves the authenticated device from the context.
func GetDevice(ctx context.Context) (*domain.Device, bool) {
	device, ok := ctx.Value(deviceContextKey{}).(*domain.Device)
	return device, ok
}
