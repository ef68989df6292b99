package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

// issueColumns is the column list every issue query selects, in the order
// scanIssueFrom expects.
const issueColumns = `i.id, i.title, i.body, i.type, i.state, i.state_reason,
	i.created_at, i.updated_at, i.closed_at, i.deleted_at`

// CreateIssue inserts a new open issue and attaches the named labels. Every
// label must already exist; a missing one fails with a label NotFoundError
// before anything is written.
func CreateIssue(ctx context.Context, q Querier, in model.IssueCreate) (*model.Issue, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}

	issueType := model.IssueTypeTask
	if in.Type != "" {
		t, err := model.ParseIssueType(string(in.Type))
		if err != nil {
			return nil, err
		}
		issueType = t
	}

	labelIDs, err := resolveLabels(ctx, q, in.Labels)
	if err != nil {
		return nil, err
	}

	now := model.FormatTime(model.Now())
	res, err := q.ExecContext(ctx,
		`INSERT INTO issues (title, body, type, state, created_at, updated_at)
		 VALUES (?, ?, ?, 'open', ?, ?)`,
		title,
		nullIfEmpty(in.Body),
		string(issueType),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting issue: %w", err)
	}

	id64, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	id := int(id64)

	for _, labelID := range labelIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO issue_labels (issue_id, label_id) VALUES (?, ?)`,
			id, labelID,
		); err != nil {
			return nil, fmt.Errorf("attaching label %d: %w", labelID, err)
		}
	}

	if err := RecordActivity(ctx, q, id, "created", "", title); err != nil {
		return nil, err
	}

	return GetIssue(ctx, q, id)
}

// GetIssue retrieves an issue by ID with its label names. Soft-deleted
// issues are returned like any other.
func GetIssue(ctx context.Context, q Querier, id int) (*model.Issue, error) {
	issue, err := getIssueRow(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if err := HydrateLabels(ctx, q, []*model.Issue{issue}); err != nil {
		return nil, err
	}
	return issue, nil
}

// GetIssuesByIDs retrieves multiple issues by their IDs in a single query.
// The returned map is keyed by issue ID. IDs that don't exist are silently
// skipped. Labels are hydrated on all returned issues.
func GetIssuesByIDs(ctx context.Context, q Querier, ids []int) (map[int]*model.Issue, error) {
	if len(ids) == 0 {
		return make(map[int]*model.Issue), nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	issues, err := queryIssues(ctx, q,
		fmt.Sprintf(`SELECT %s FROM issues i WHERE i.id IN (%s)`, issueColumns, makePlaceholders(len(ids))),
		args...,
	)
	if err != nil {
		return nil, err
	}

	result := make(map[int]*model.Issue, len(issues))
	for _, issue := range issues {
		result[issue.ID] = issue
	}
	return result, nil
}

// ListAllIssues returns every issue, deleted ones included, ordered by ID.
func ListAllIssues(ctx context.Context, q Querier) ([]*model.Issue, error) {
	return queryIssues(ctx, q, fmt.Sprintf(`SELECT %s FROM issues i ORDER BY i.id`, issueColumns))
}

// UpdateIssue changes the supplied fields of an issue and refreshes
// updated_at once. An update that supplies nothing returns the issue
// untouched.
func UpdateIssue(ctx context.Context, q Querier, id int, upd model.IssueUpdate) (*model.Issue, error) {
	old, err := getIssueRow(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return GetIssue(ctx, q, id)
	}

	// field name -> new value; sorted below for deterministic SQL.
	values := make(map[string]string)
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		values["title"] = title
	}
	if upd.Body != nil {
		values["body"] = *upd.Body
	}
	if upd.Type != nil {
		t, err := model.ParseIssueType(string(*upd.Type))
		if err != nil {
			return nil, err
		}
		values["type"] = string(t)
	}

	fields := make([]string, 0, len(values))
	for f := range values {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for _, f := range fields {
		setClauses = append(setClauses, f+" = ?")
		if f == "body" {
			args = append(args, nullIfEmpty(values[f]))
		} else {
			args = append(args, values[f])
		}
	}
	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, model.FormatTime(model.Now()), id)

	// Safe: every field name comes from the fixed set above.
	query := fmt.Sprintf("UPDATE issues SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("updating issue: %w", err)
	}

	for _, f := range fields {
		oldVal := issueFieldValue(old, f)
		if oldVal != values[f] {
			if err := RecordActivity(ctx, q, id, f, oldVal, values[f]); err != nil {
				return nil, err
			}
		}
	}

	return GetIssue(ctx, q, id)
}

// CloseIssue moves an open issue to closed with the given reason. An empty
// reason means completed.
func CloseIssue(ctx context.Context, q Querier, id int, reason model.StateReason) (*model.Issue, error) {
	if reason == "" {
		reason = model.StateReasonCompleted
	}
	r, err := model.ParseStateReason(string(reason))
	if err != nil {
		return nil, err
	}

	issue, err := getIssueRow(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if issue.State == model.StateClosed {
		return nil, &TransitionError{ID: id, State: string(model.StateClosed)}
	}

	now := model.FormatTime(model.Now())
	if _, err := q.ExecContext(ctx,
		`UPDATE issues SET state = 'closed', state_reason = ?, closed_at = ?, updated_at = ? WHERE id = ?`,
		string(r), now, now, id,
	); err != nil {
		return nil, fmt.Errorf("closing issue: %w", err)
	}

	if err := RecordActivity(ctx, q, id, "state", string(model.StateOpen), string(model.StateClosed)+": "+string(r)); err != nil {
		return nil, err
	}

	return GetIssue(ctx, q, id)
}

// ReopenIssue moves a closed issue back to open, clearing state_reason and
// closed_at in the same statement.
func ReopenIssue(ctx context.Context, q Querier, id int) (*model.Issue, error) {
	issue, err := getIssueRow(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if issue.State == model.StateOpen {
		return nil, &TransitionError{ID: id, State: string(model.StateOpen)}
	}

	if _, err := q.ExecContext(ctx,
		`UPDATE issues SET state = 'open', state_reason = NULL, closed_at = NULL, updated_at = ? WHERE id = ?`,
		model.FormatTime(model.Now()), id,
	); err != nil {
		return nil, fmt.Errorf("reopening issue: %w", err)
	}

	if err := RecordActivity(ctx, q, id, "state", string(model.StateClosed), string(model.StateOpen)); err != nil {
		return nil, err
	}

	return GetIssue(ctx, q, id)
}

// DeleteIssue soft-deletes an issue by setting deleted_at. Deleting an
// already deleted issue is a no-op that keeps the original marker.
func DeleteIssue(ctx context.Context, q Querier, id int) error {
	issue, err := getIssueRow(ctx, q, id)
	if err != nil {
		return err
	}
	if issue.IsDeleted() {
		return nil
	}

	now := model.FormatTime(model.Now())
	if _, err := q.ExecContext(ctx,
		`UPDATE issues SET deleted_at = ?, updated_at = ? WHERE id = ?`, now, now, id,
	); err != nil {
		return fmt.Errorf("deleting issue: %w", err)
	}

	return RecordActivity(ctx, q, id, "deleted", "", now)
}

// RestoreIssue clears the soft-delete marker. Restoring an issue that is
// not deleted is a no-op.
func RestoreIssue(ctx context.Context, q Querier, id int) (*model.Issue, error) {
	issue, err := getIssueRow(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if !issue.IsDeleted() {
		return GetIssue(ctx, q, id)
	}

	if _, err := q.ExecContext(ctx,
		`UPDATE issues SET deleted_at = NULL, updated_at = ? WHERE id = ?`,
		model.FormatTime(model.Now()), id,
	); err != nil {
		return nil, fmt.Errorf("restoring issue: %w", err)
	}

	if err := RecordActivity(ctx, q, id, "deleted", model.FormatTime(*issue.DeletedAt), ""); err != nil {
		return nil, err
	}

	return GetIssue(ctx, q, id)
}

// HydrateLabels fills the Labels field of each issue with its label names,
// ordered case-insensitively, in one query.
func HydrateLabels(ctx context.Context, q Querier, issues []*model.Issue) error {
	if len(issues) == 0 {
		return nil
	}

	byID := make(map[int]*model.Issue, len(issues))
	args := make([]any, 0, len(issues))
	for _, issue := range issues {
		issue.Labels = []string{}
		if _, seen := byID[issue.ID]; !seen {
			args = append(args, issue.ID)
		}
		byID[issue.ID] = issue
	}

	rows, err := q.QueryContext(ctx,
		fmt.Sprintf(`SELECT il.issue_id, l.name FROM issue_labels il
		 JOIN labels l ON l.id = il.label_id
		 WHERE il.issue_id IN (%s)
		 ORDER BY l.name COLLATE NOCASE, l.id`, makePlaceholders(len(args))),
		args...,
	)
	if err != nil {
		return fmt.Errorf("querying issue labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var issueID int
		var name string
		if err := rows.Scan(&issueID, &name); err != nil {
			return fmt.Errorf("scanning issue label: %w", err)
		}
		if issue := byID[issueID]; issue != nil {
			issue.Labels = append(issue.Labels, name)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating issue labels: %w", err)
	}

	// Duplicate pointers for the same ID share the first one's labels.
	for _, issue := range issues {
		if canonical := byID[issue.ID]; canonical != issue {
			issue.Labels = canonical.Labels
		}
	}

	return nil
}

// --- helpers ---

func getIssueRow(ctx context.Context, q Querier, id int) (*model.Issue, error) {
	row := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM issues i WHERE i.id = ?`, issueColumns), id)
	issue, err := scanIssueFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, issueNotFound(id)
		}
		return nil, fmt.Errorf("scanning issue: %w", err)
	}
	return issue, nil
}

func queryIssues(ctx context.Context, q Querier, query string, args ...any) ([]*model.Issue, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying issues: %w", err)
	}
	defer rows.Close()

	issues := make([]*model.Issue, 0)
	for rows.Next() {
		issue, err := scanIssueFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning issue row: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issue rows: %w", err)
	}
	rows.Close()

	if err := HydrateLabels(ctx, q, issues); err != nil {
		return nil, fmt.Errorf("hydrating labels: %w", err)
	}
	return issues, nil
}

// scanIssueFrom scans a single issue from any scanner (*sql.Row or *sql.Rows).
func scanIssueFrom(s scanner) (*model.Issue, error) {
	var i model.Issue
	var body, reason, closedAt, deletedAt sql.NullString
	var issueType, state, createdAt, updatedAt string

	err := s.Scan(&i.ID, &i.Title, &body, &issueType, &state, &reason,
		&createdAt, &updatedAt, &closedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	i.Body = body.String
	i.Type = model.IssueType(issueType)
	i.State = model.State(state)
	i.StateReason = model.StateReason(reason.String)

	if i.CreatedAt, err = model.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if i.UpdatedAt, err = model.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if i.ClosedAt, err = parseNullTime(closedAt); err != nil {
		return nil, fmt.Errorf("parsing closed_at: %w", err)
	}
	if i.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, fmt.Errorf("parsing deleted_at: %w", err)
	}

	return &i, nil
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := model.ParseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// issueFieldValue extracts a string form of a field for activity logging.
func issueFieldValue(issue *model.Issue, field string) string {
	switch field {
	case "title":
		return issue.Title
	case "body":
		return issue.Body
	case "type":
		return string(issue.Type)
	default:
		return ""
	}
}
