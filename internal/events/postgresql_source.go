package events

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/database"
	apperrors "github.com/leadgrid/leadgrid/internal/errors"
)

// PostgreSQLEventSource implements EventSource for PostgreSQL.
type PostgreSQLEventSource struct {
	db *sql.DB
}

// NewPostgreSQLEventSource creates a new PostgreSQL event source.
func NewPostgreSQLEventSource(db *sql.DB) *PostgreSQLEventSource {
	return &PostgreSQLEventSource{db: db}
}

// ListActive returns the tenant's events whose windows contain now.
func (p *PostgreSQLEventSource) ListActive(
	ctx context.Context,
	tenantID uuid.UUID,
	now time.Time,
) ([]*Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, name, starts_at, ends_at
			  FROM events
			  WHERE tenant_id = $1 AND starts_at <= $2 AND ends_at > $2
			  ORDER BY starts_at ASC`

	rows, err := querier.QueryContext(ctx, query, tenantID, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active events")
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		var event Event
		err := rows.Scan(
			&event.ID,
			&event.TenantID,
			&event.Name,
			&event.StartsAt,
			&event.EndsAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan event")
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate events")
	}
	return events, nil
}
