package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	provisioningUseCase "github.com/leadgrid/leadgrid/internal/provisioning/usecase"
)

// RunCreateTenant registers a tenant and prints its admin key.
//
// The plain admin key is shown exactly once here; only its Argon2id hash is
// stored. Supports both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCreateTenant(
	ctx context.Context,
	tenantUseCase provisioningUseCase.TenantUseCase,
	logger *slog.Logger,
	out io.Writer,
	name string,
	format string,
) error {
	if name == "" {
		return fmt.Errorf("tenant name must not be empty")
	}

	logger.Info("creating tenant", slog.String("name", name))

	tenant, plainKey, err := tenantUseCase.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputJSON(out, map[string]interface{}{
			"id":         tenant.ID.String(),
			"name":       tenant.Name,
			"admin_key":  plainKey,
			"created_at": tenant.CreatedAt,
		})
	} else {
		fmt.Fprintf(out, "Tenant created successfully\n")
		fmt.Fprintf(out, "  ID:        %s\n", tenant.ID)
		fmt.Fprintf(out, "  Name:      %s\n", tenant.Name)
		fmt.Fprintf(out, "  Admin key: %s\n", plainKey)
		fmt.Fprintf(out, "\nStore the admin key now. It cannot be recovered later.\n")
	}

	logger.Info("tenant created", slog.String("tenant_id", tenant.ID.String()))

	return nil
}
