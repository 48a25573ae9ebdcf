package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gbax/gbax-core/internal/eventlog"
)

// EventLogRepository implements the event audit repository for PostgreSQL
type EventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository creates a new EventLogRepository
func NewEventLogRepository(db *pgxpool.Pool) *EventLogRepository {
	return &EventLogRepository{db: db}
}

// Log stores one event row. The payload arrives pre-serialized.
func (r *EventLogRepository) Log(ctx context.Context, eventType string, playerID *string, payload []byte) error {
	query := `
		INSERT INTO event_log (event_type, player_id, payload, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := r.db.Exec(ctx, query, eventType, playerID, payload); err != nil {
		return fmt.Errorf("failed to log event: %w", err)
	}
	return nil
}

// Recent retrieves entries matching the filter, newest first.
func (r *EventLogRepository) Recent(ctx context.Context, filter eventlog.Filter) ([]eventlog.Entry, error) {
	query := `
		SELECT id, event_type, player_id, payload, created_at
		FROM event_log
		WHERE ($1::TEXT IS NULL OR player_id = $1)
		  AND ($2::TEXT IS NULL OR event_type = $2)
		  AND ($3::TIMESTAMPTZ IS NULL OR created_at >= $3)
		ORDER BY id DESC
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, query, filter.PlayerID, filter.EventType, filter.Since, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query event log: %w", err)
	}
	defer rows.Close()

	var entries []eventlog.Entry
	for rows.Next() {
		var e eventlog.Entry
		var payloadJSON []byte
		if err := rows.Scan(&e.ID, &e.EventType, &e.PlayerID, &payloadJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event log row: %w", err)
		}
		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode event payload: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event log rows: %w", err)
	}

	return entries, nil
}

// CleanupOldEntries removes entries older than retentionDays.
func (r *EventLogRepository) CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error) {
	query := `
		DELETE FROM event_log
		WHERE created_at < NOW() - ($1 || ' days')::INTERVAL
	`

	tag, err := r.db.Exec(ctx, query, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up event log: %w", err)
	}
	return tag.RowsAffected(), nil
}
