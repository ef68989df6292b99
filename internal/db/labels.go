package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

// CreateLabel inserts a new label. Names are unique ignoring case; color,
// when given, must be six hex digits without a leading '#'.
func CreateLabel(ctx context.Context, q Querier, name, description, color string) (*model.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: label name must not be empty", ErrInvalidInput)
	}
	if err := model.ValidateColor(color); err != nil {
		return nil, err
	}

	var existing string
	err := q.QueryRowContext(ctx, `SELECT name FROM labels WHERE name = ?`, name).Scan(&existing)
	switch {
	case err == nil:
		return nil, &DuplicateLabelError{Name: existing}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("querying label: %w", err)
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO labels (name, description, color, created_at) VALUES (?, ?, ?, ?)`,
		name, nullIfEmpty(description), nullIfEmpty(color), model.FormatTime(model.Now()),
	)
	if err != nil {
		if IsUniqueConstraint(err) {
			return nil, &DuplicateLabelError{Name: name}
		}
		return nil, fmt.Errorf("inserting label: %w", err)
	}

	id64, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting label id: %w", err)
	}

	return &model.Label{ID: int(id64), Name: name, Description: description, Color: color}, nil
}

// GetLabel retrieves a label by name, ignoring case, along with the number
// of issues carrying it.
func GetLabel(ctx context.Context, q Querier, name string) (*model.LabelWithCount, error) {
	name = strings.TrimSpace(name)
	row := q.QueryRowContext(ctx,
		`SELECT l.id, l.name, l.description, l.color, COUNT(il.issue_id) AS issue_count
		 FROM labels l
		 LEFT JOIN issue_labels il ON il.label_id = l.id
		 WHERE l.name = ?
		 GROUP BY l.id`, name,
	)
	lc, err := scanLabelWithCount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, labelNotFound(name)
		}
		return nil, fmt.Errorf("querying label: %w", err)
	}
	return lc, nil
}

// ListLabels returns every label along with the count of issues using it,
// sorted by name ignoring case.
func ListLabels(ctx context.Context, q Querier) ([]*model.LabelWithCount, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT l.id, l.name, l.description, l.color, COUNT(il.issue_id) AS issue_count
		 FROM labels l
		 LEFT JOIN issue_labels il ON il.label_id = l.id
		 GROUP BY l.id
		 ORDER BY l.name COLLATE NOCASE, l.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	labels := make([]*model.LabelWithCount, 0)
	for rows.Next() {
		lc, err := scanLabelWithCount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		labels = append(labels, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating label rows: %w", err)
	}

	return labels, nil
}

// DeleteLabel removes a label by name, ignoring case. CASCADE constraints
// drop its issue associations. Returns the IDs of issues that carried it.
func DeleteLabel(ctx context.Context, q Querier, name string) ([]int, error) {
	label, err := GetLabel(ctx, q, name)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT issue_id FROM issue_labels WHERE label_id = ? ORDER BY issue_id`, label.ID)
	if err != nil {
		return nil, fmt.Errorf("querying attached issues: %w", err)
	}
	defer rows.Close()

	issueIDs := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning issue id: %w", err)
		}
		issueIDs = append(issueIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issue ids: %w", err)
	}
	rows.Close()

	for _, issueID := range issueIDs {
		if err := RecordActivity(ctx, q, issueID, "label", label.Name, ""); err != nil {
			return nil, err
		}
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, label.ID); err != nil {
		return nil, fmt.Errorf("deleting label: %w", err)
	}

	return issueIDs, nil
}

// AddLabel attaches an existing label to an issue. Attaching a label the
// issue already carries is a no-op. The issue's updated_at is not touched.
func AddLabel(ctx context.Context, q Querier, issueID int, name string) error {
	if err := requireIssue(ctx, q, issueID); err != nil {
		return err
	}
	label, err := GetLabel(ctx, q, name)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO issue_labels (issue_id, label_id) VALUES (?, ?)`,
		issueID, label.ID,
	)
	if err != nil {
		return fmt.Errorf("attaching label: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n > 0 {
		return RecordActivity(ctx, q, issueID, "label", "", label.Name)
	}
	return nil
}

// RemoveLabel detaches a label from an issue. Removing a label the issue
// does not carry is a no-op; an unknown label name is not.
func RemoveLabel(ctx context.Context, q Querier, issueID int, name string) error {
	if err := requireIssue(ctx, q, issueID); err != nil {
		return err
	}
	label, err := GetLabel(ctx, q, name)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx,
		`DELETE FROM issue_labels WHERE issue_id = ? AND label_id = ?`,
		issueID, label.ID,
	)
	if err != nil {
		return fmt.Errorf("detaching label: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n > 0 {
		return RecordActivity(ctx, q, issueID, "label", label.Name, "")
	}
	return nil
}

// IssueLabels returns the full Label records attached to an issue, sorted
// by name ignoring case.
func IssueLabels(ctx context.Context, q Querier, issueID int) ([]*model.Label, error) {
	if err := requireIssue(ctx, q, issueID); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT l.id, l.name, l.description, l.color FROM labels l
		 JOIN issue_labels il ON il.label_id = l.id
		 WHERE il.issue_id = ?
		 ORDER BY l.name COLLATE NOCASE, l.id`, issueID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying issue labels: %w", err)
	}
	defer rows.Close()

	return collectLabels(rows)
}

// ListAllLabels returns every label without usage counts, ordered by ID.
func ListAllLabels(ctx context.Context, q Querier) ([]*model.Label, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, description, color FROM labels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	return collectLabels(rows)
}

// ListIssueLabelMappings returns every row of the issue_labels join table.
func ListIssueLabelMappings(ctx context.Context, q Querier) ([]model.IssueLabelMapping, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT issue_id, label_id FROM issue_labels ORDER BY issue_id, label_id`)
	if err != nil {
		return nil, fmt.Errorf("querying issue labels: %w", err)
	}
	defer rows.Close()

	mappings := make([]model.IssueLabelMapping, 0)
	for rows.Next() {
		var m model.IssueLabelMapping
		if err := rows.Scan(&m.IssueID, &m.LabelID); err != nil {
			return nil, fmt.Errorf("scanning issue label: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// resolveLabels maps label names to IDs, ignoring case and duplicates. The
// first name without a matching label fails the whole lookup.
func resolveLabels(ctx context.Context, q Querier, names []string) ([]int, error) {
	ids := make([]int, 0, len(names))
	seen := make(map[int]bool, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)

		var id int
		err := q.QueryRowContext(ctx, `SELECT id FROM labels WHERE name = ?`, name).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, labelNotFound(name)
		}
		if err != nil {
			return nil, fmt.Errorf("querying label %q: %w", name, err)
		}

		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func collectLabels(rows *sql.Rows) ([]*model.Label, error) {
	labels := make([]*model.Label, 0)
	for rows.Next() {
		var l model.Label
		var description, color sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &description, &color); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		l.Description = description.String
		l.Color = color.String
		labels = append(labels, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating label rows: %w", err)
	}
	return labels, nil
}

func scanLabelWithCount(s scanner) (*model.LabelWithCount, error) {
	var lc model.LabelWithCount
	var description, color sql.NullString
	if err := s.Scan(&lc.ID, &lc.Name, &description, &color, &lc.IssueCount); err != nil {
		return nil, err
	}
	lc.Description = description.String
	lc.Color = color.String
	return &lc, nil
}
