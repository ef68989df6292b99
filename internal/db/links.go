package db

import (
	"context"
	"fmt"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

// AddLink links two issues. The pair is normalized before any lookup, so
// AddLink(a, b) and AddLink(b, a) name the same link and the second call
// fails with a DuplicateLinkError.
func AddLink(ctx context.Context, q Querier, a, b int) (*model.Link, error) {
	pair, err := model.NewLinkPair(a, b)
	if err != nil {
		return nil, err
	}

	for _, id := range []int{pair.Low, pair.High} {
		if err := requireIssue(ctx, q, id); err != nil {
			return nil, err
		}
	}

	dup, err := exists(ctx, q,
		`SELECT EXISTS(SELECT 1 FROM issue_links WHERE issue_a_id = ? AND issue_b_id = ?)`,
		pair.Low, pair.High,
	)
	if err != nil {
		return nil, fmt.Errorf("checking for existing link: %w", err)
	}
	if dup {
		return nil, &DuplicateLinkError{Low: pair.Low, High: pair.High}
	}

	now := model.Now()
	if _, err := q.ExecContext(ctx,
		`INSERT INTO issue_links (issue_a_id, issue_b_id, created_at) VALUES (?, ?, ?)`,
		pair.Low, pair.High, model.FormatTime(now),
	); err != nil {
		if IsUniqueConstraint(err) {
			return nil, &DuplicateLinkError{Low: pair.Low, High: pair.High}
		}
		return nil, fmt.Errorf("inserting link: %w", err)
	}

	for _, id := range []int{pair.Low, pair.High} {
		if err := RecordActivity(ctx, q, id, "link", "", model.FormatID(pair.Other(id))); err != nil {
			return nil, err
		}
	}

	return &model.Link{LinkPair: pair, CreatedAt: now}, nil
}

// RemoveLink deletes the link between two issues in either argument order.
// A link that does not exist is reported as a NotFoundError.
func RemoveLink(ctx context.Context, q Querier, a, b int) error {
	pair, err := model.NewLinkPair(a, b)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx,
		`DELETE FROM issue_links WHERE issue_a_id = ? AND issue_b_id = ?`, pair.Low, pair.High)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: EntityLink, Key: pair.String()}
	}

	for _, id := range []int{pair.Low, pair.High} {
		if err := RecordActivity(ctx, q, id, "link", model.FormatID(pair.Other(id)), ""); err != nil {
			return err
		}
	}
	return nil
}

// LinkedIDs returns the IDs linked to issueID from either side of the
// stored pair, ascending.
func LinkedIDs(ctx context.Context, q Querier, issueID int) ([]int, error) {
	if err := requireIssue(ctx, q, issueID); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT issue_b_id FROM issue_links WHERE issue_a_id = ?
		 UNION
		 SELECT issue_a_id FROM issue_links WHERE issue_b_id = ?
		 ORDER BY 1`, issueID, issueID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying linked issues: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning linked id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating linked ids: %w", err)
	}

	return ids, nil
}

// LinkedIssues returns a short reference for every issue linked to
// issueID, soft-deleted ones included, ordered by ID.
func LinkedIssues(ctx context.Context, q Querier, issueID int) ([]model.IssueRef, error) {
	ids, err := LinkedIDs(ctx, q, issueID)
	if err != nil {
		return nil, err
	}

	issues, err := GetIssuesByIDs(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	refs := make([]model.IssueRef, 0, len(ids))
	for _, id := range ids {
		issue, ok := issues[id]
		if !ok {
			continue
		}
		refs = append(refs, model.IssueRef{
			ID:      issue.ID,
			Title:   issue.Title,
			State:   issue.State,
			Deleted: issue.IsDeleted(),
		})
	}
	return refs, nil
}

// ListAllLinks returns every stored link ordered by pair.
func ListAllLinks(ctx context.Context, q Querier) ([]model.Link, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT issue_a_id, issue_b_id, created_at FROM issue_links ORDER BY issue_a_id, issue_b_id`)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	links := make([]model.Link, 0)
	for rows.Next() {
		var l model.Link
		var createdAt string
		if err := rows.Scan(&l.Low, &l.High, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		if l.CreatedAt, err = model.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing link created_at: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
