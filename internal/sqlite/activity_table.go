package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// ActivityTable appends to, reads, and clears the activity_log table.
type ActivityTable struct {
	q querier
}

// Append writes one entry stamped with at, formatted as local time at
// second precision. Returns the assigned id.
func (t *ActivityTable) Append(ctx context.Context, action string, at time.Time) (int64, error) {
	res, err := t.q.ExecContext(ctx,
		"INSERT INTO activity_log (action, timestamp) VALUES (?, ?)",
		action, types.FormatTimestamp(at))
	if err != nil {
		return 0, fmt.Errorf("appending activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading activity id: %w", err)
	}
	return id, nil
}

// Restore inserts e with its existing id and timestamp.
func (t *ActivityTable) Restore(ctx context.Context, e types.ActivityEntry) error {
	_, err := t.q.ExecContext(ctx,
		"INSERT INTO activity_log (id, action, timestamp) VALUES (?, ?, ?)",
		e.ID, e.Action, types.FormatTimestamp(e.Timestamp))
	if err != nil {
		return fmt.Errorf("restoring activity %d: %w", e.ID, err)
	}
	return nil
}

// List returns every entry, most recent first.
func (t *ActivityTable) List(ctx context.Context) ([]types.ActivityEntry, error) {
	rows, err := t.q.QueryContext(ctx,
		"SELECT id, action, timestamp FROM activity_log ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying activity log: %w", err)
	}
	defer rows.Close()

	entries := []types.ActivityEntry{}
	for rows.Next() {
		var e types.ActivityEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.Action, &ts); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		e.Timestamp, err = types.ParseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("parsing activity timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every entry and returns how many were removed.
func (t *ActivityTable) Clear(ctx context.Context) (int64, error) {
	res, err := t.q.ExecContext(ctx, "DELETE FROM activity_log")
	if err != nil {
		return 0, fmt.Errorf("clearing activity log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}
