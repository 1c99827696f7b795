package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
	provisioningUseCase "github.com/leadgrid/leadgrid/internal/provisioning/usecase"
)

// RunCreateDevice registers a device under a tenant.
//
// The device starts unprovisioned; mint a provisioning token through the API
// to bring it online. Supports both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCreateDevice(
	ctx context.Context,
	deviceUseCase provisioningUseCase.DeviceUseCase,
	logger *slog.Logger,
	out io.Writer,
	tenantID string,
	name string,
	format string,
) error {
	parsedTenantID, err := uuid.Parse(tenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	if name == "" {
		return fmt.Errorf("device name must not be empty")
	}

	logger.Info("creating device",
		slog.String("tenant_id", tenantID),
		slog.String("name", name),
	)

	device, err := deviceUseCase.Create(ctx, &domain.CreateDeviceInput{
		TenantID: parsedTenantID,
		Name:     name,
	})
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputJSON(out, map[string]interface{}{
			"id":         device.ID.String(),
			"tenant_id":  device.TenantID.String(),
			"name":       device.Name,
			"status":     string(device.Status),
			"created_at": device.CreatedAt,
		})
	} else {
		fmt.Fprintf(out, "Device created successfully\n")
		fmt.Fprintf(out, "  ID:     %s\n", device.ID)
		fmt.Fprintf(out, "  Tenant: %s\n", device.TenantID)
		fmt.Fprintf(out, "  Name:   %s\n", device.Name)
	}

	logger.Info("device created", slog.String("device_id", device.ID.String()))

	return nil
}
