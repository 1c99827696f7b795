package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	provisioningUseCase "github.com/leadgrid/leadgrid/internal/provisioning/usecase"
)

// RunCleanExpiredTokens deletes finished provisioning tokens older than the
// specified number of days. Finished means USED, REVOKED or past expiry; an
// ACTIVE unexpired token is never touched. Supports dry-run mode to preview
// the deletion count and both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(
	ctx context.Context,
	tokenUseCase provisioningUseCase.TokenUseCase,
	logger *slog.Logger,
	out io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	// Validate days parameter
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning finished provisioning tokens",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	// Execute deletion or count operation
	count, err := tokenUseCase.DeleteFinished(ctx, time.Duration(days)*24*time.Hour, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean finished tokens: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputJSON(out, map[string]interface{}{
			"count":   count,
			"days":    days,
			"dry_run": dryRun,
		})
	} else if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would delete %d finished token(s) older than %d day(s)\n", count, days)
	} else {
		fmt.Fprintf(out, "Successfully deleted %d finished token(s) older than %d day(s)\n", count, days)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
