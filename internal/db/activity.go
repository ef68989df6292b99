package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

// RecordActivity logs a change on an issue. It runs on the caller's
// Querier so the entry commits or rolls back with the change itself.
func RecordActivity(ctx context.Context, q Querier, issueID int, field, oldVal, newVal string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO activity_log (issue_id, field_changed, old_value, new_value, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		issueID, field, nullIfEmpty(oldVal), nullIfEmpty(newVal), model.FormatTime(model.Now()),
	)
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// ListActivity retrieves activity entries for an issue, most recent first.
// A limit of zero or less returns every entry.
func ListActivity(ctx context.Context, q Querier, issueID int, limit int) ([]model.Activity, error) {
	if err := requireIssue(ctx, q, issueID); err != nil {
		return nil, err
	}

	query := `SELECT id, issue_id, field_changed, old_value, new_value, created_at
	          FROM activity_log
	          WHERE issue_id = ?
	          ORDER BY created_at DESC, id DESC`
	args := []any{issueID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	defer rows.Close()

	activities := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		var oldVal, newVal sql.NullString
		var createdAt string
		if err := rows.Scan(&a.ID, &a.IssueID, &a.Field, &oldVal, &newVal, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		a.OldValue = oldVal.String
		a.NewValue = newVal.String

		if a.CreatedAt, err = model.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing activity created_at: %w", err)
		}

		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}

	return activities, nil
}
