package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

const commentColumns = `id, issue_id, body, created_at, updated_at`

// AddComment inserts a comment on an existing issue. The body must contain
// something other than whitespace. The issue's updated_at is not touched.
func AddComment(ctx context.Context, q Querier, issueID int, body string) (*model.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: comment body must not be empty", ErrInvalidInput)
	}
	if err := requireIssue(ctx, q, issueID); err != nil {
		return nil, err
	}

	now := model.FormatTime(model.Now())
	res, err := q.ExecContext(ctx,
		`INSERT INTO comments (issue_id, body, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		issueID, body, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	id64, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}

	if err := RecordActivity(ctx, q, issueID, "comment", "", model.FormatID(int(id64))); err != nil {
		return nil, err
	}

	return GetComment(ctx, q, int(id64))
}

// ListComments retrieves all comments for an issue, oldest first.
func ListComments(ctx context.Context, q Querier, issueID int) ([]*model.Comment, error) {
	if err := requireIssue(ctx, q, issueID); err != nil {
		return nil, err
	}
	return queryComments(ctx, q,
		`SELECT `+commentColumns+` FROM comments WHERE issue_id = ? ORDER BY created_at ASC, id ASC`, issueID)
}

// ListAllComments returns every comment across all issues, oldest first.
func ListAllComments(ctx context.Context, q Querier) ([]*model.Comment, error) {
	return queryComments(ctx, q, `SELECT `+commentColumns+` FROM comments ORDER BY created_at ASC, id ASC`)
}

// GetComment retrieves a comment by ID.
func GetComment(ctx context.Context, q Querier, id int) (*model.Comment, error) {
	row := q.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)

	c, err := scanCommentFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commentNotFound(id)
		}
		return nil, fmt.Errorf("scanning comment: %w", err)
	}

	return c, nil
}

// UpdateComment replaces a comment's body and refreshes the comment's own
// updated_at.
func UpdateComment(ctx context.Context, q Querier, id int, body string) (*model.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: comment body must not be empty", ErrInvalidInput)
	}

	res, err := q.ExecContext(ctx,
		`UPDATE comments SET body = ?, updated_at = ? WHERE id = ?`,
		body, model.FormatTime(model.Now()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating comment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return nil, commentNotFound(id)
	}

	return GetComment(ctx, q, id)
}

// DeleteComment removes a comment permanently.
func DeleteComment(ctx context.Context, q Querier, id int) error {
	c, err := GetComment(ctx, q, id)
	if err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	return RecordActivity(ctx, q, c.IssueID, "comment", model.FormatID(id), "")
}

func queryComments(ctx context.Context, q Querier, query string, args ...any) ([]*model.Comment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		c, err := scanCommentFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comment rows: %w", err)
	}

	return comments, nil
}

// scanCommentFrom scans a single comment from any scanner (*sql.Row or *sql.Rows).
func scanCommentFrom(s scanner) (*model.Comment, error) {
	var c model.Comment
	var createdAt, updatedAt string

	if err := s.Scan(&c.ID, &c.IssueID, &c.Body, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = model.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = model.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &c, nil
}
