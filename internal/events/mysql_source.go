package events

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/database"
	apperrors "github.com/leadgrid/leadgrid/internal/errors"
)

// MySQLEventSource implements EventSource for MySQL.
type MySQLEventSource struct {
	db *sql.DB
}

// NewMySQLEventSource creates a new MySQL event source.
func NewMySQLEventSource(db *sql.DB) *MySQLEventSource {
	return &MySQLEventSource{db: db}
}

// ListActive returns the tenant's events whose windows contain now.
func (m *MySQLEventSource) ListActive(
	ctx context.Context,
	tenantID uuid.UUID,
	now time.Time,
) ([]*Event, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, tenant_id, name, starts_at, ends_at
			  FROM events
			  WHERE tenant_id = ? AND starts_at <= ? AND ends_at > ?
			  ORDER BY starts_at ASC`

	rows, err := querier.QueryContext(ctx, query, tenantID.String(), now, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active events")
	}
	defer rows.Close()

	return scanEvents(rows)
}
