package tracker

import (
	"context"
	"database/sql"

	"github.com/ALT-F4-LLC/skis/internal/db"
	"github.com/ALT-F4-LLC/skis/internal/model"
)

// CreateIssue creates an open issue. Every named label must already exist;
// if one does not, nothing is created.
func (t *Tracker) CreateIssue(ctx context.Context, in model.IssueCreate) (*model.Issue, error) {
	return call(ctx, t, "create issue", func(tx *sql.Tx) (*model.Issue, error) {
		return db.CreateIssue(ctx, tx, in)
	})
}

// GetIssue returns an issue by id, soft-deleted or not.
func (t *Tracker) GetIssue(ctx context.Context, id int) (*model.Issue, error) {
	return call(ctx, t, "get issue", func(tx *sql.Tx) (*model.Issue, error) {
		return db.GetIssue(ctx, tx, id)
	})
}

// ListIssues returns one page of issues matching f and the total number
// of matches.
func (t *Tracker) ListIssues(ctx context.Context, f model.IssueFilter) ([]*model.Issue, int, error) {
	var (
		issues []*model.Issue
		total  int
	)
	err := t.run(ctx, "list issues", func(tx *sql.Tx) error {
		var err error
		issues, total, err = db.ListIssues(ctx, tx, f)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// SearchIssues is ListIssues with a full-text query over title and body.
func (t *Tracker) SearchIssues(ctx context.Context, query string, f model.IssueFilter) ([]*model.Issue, int, error) {
	f.Query = query
	return t.ListIssues(ctx, f)
}

// UpdateIssue changes the fields set in upd.
func (t *Tracker) UpdateIssue(ctx context.Context, id int, upd model.IssueUpdate) (*model.Issue, error) {
	return call(ctx, t, "update issue", func(tx *sql.Tx) (*model.Issue, error) {
		return db.UpdateIssue(ctx, tx, id, upd)
	})
}

// EditIssue applies upd and then attaches addLabels and detaches
// removeLabels, all in one transaction. Any failure leaves the issue as it
// was.
func (t *Tracker) EditIssue(ctx context.Context, id int, upd model.IssueUpdate, addLabels, removeLabels []string) (*model.Issue, error) {
	return call(ctx, t, "edit issue", func(tx *sql.Tx) (*model.Issue, error) {
		if _, err := db.UpdateIssue(ctx, tx, id, upd); err != nil {
			return nil, err
		}
		for _, name := range addLabels {
			if err := db.AddLabel(ctx, tx, id, name); err != nil {
				return nil, err
			}
		}
		for _, name := range removeLabels {
			if err := db.RemoveLabel(ctx, tx, id, name); err != nil {
				return nil, err
			}
		}
		return db.GetIssue(ctx, tx, id)
	})
}

// CloseIssue closes an open issue. An empty reason means completed.
func (t *Tracker) CloseIssue(ctx context.Context, id int, reason model.StateReason) (*model.Issue, error) {
	return call(ctx, t, "close issue", func(tx *sql.Tx) (*model.Issue, error) {
		return db.CloseIssue(ctx, tx, id, reason)
	})
}

// CloseIssueWithComment adds a comment and closes the issue in one
// transaction. If the close fails the comment is not kept.
func (t *Tracker) CloseIssueWithComment(ctx context.Context, id int, reason model.StateReason, body string) (*model.Issue, *model.Comment, error) {
	var (
		issue   *model.Issue
		comment *model.Comment
	)
	err := t.run(ctx, "close issue", func(tx *sql.Tx) error {
		var err error
		if comment, err = db.AddComment(ctx, tx, id, body); err != nil {
			return err
		}
		issue, err = db.CloseIssue(ctx, tx, id, reason)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return issue, comment, nil
}

// ReopenIssue reopens a closed issue.
func (t *Tracker) ReopenIssue(ctx context.Context, id int) (*model.Issue, error) {
	return call(ctx, t, "reopen issue", func(tx *sql.Tx) (*model.Issue, error) {
		return db.ReopenIssue(ctx, tx, id)
	})
}

// DeleteIssue soft-deletes an issue and returns it.
func (t *Tracker) DeleteIssue(ctx context.Context, id int) (*model.Issue, error) {
	return call(ctx, t, "delete issue", func(tx *sql.Tx) (*model.Issue, error) {
		if err := db.DeleteIssue(ctx, tx, id); err != nil {
			return nil, err
		}
		return db.GetIssue(ctx, tx, id)
	})
}

// RestoreIssue clears an issue's soft-delete marker.
func (t *Tracker) RestoreIssue(ctx context.Context, id int) (*model.Issue, error) {
	return call(ctx, t, "restore issue", func(tx *sql.Tx) (*model.Issue, error) {
		return db.RestoreIssue(ctx, tx, id)
	})
}

// ViewIssue gathers an issue with its labels, linked issues and comments
// from a single snapshot.
func (t *Tracker) ViewIssue(ctx context.Context, id int) (*model.IssueView, error) {
	return call(ctx, t, "view issue", func(tx *sql.Tx) (*model.IssueView, error) {
		issue, err := db.GetIssue(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		labels, err := db.IssueLabels(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		linked, err := db.LinkedIssues(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		comments, err := db.ListComments(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		return &model.IssueView{Issue: issue, Labels: labels, Linked: linked, Comments: comments}, nil
	})
}

// Activity returns the change history of an issue, newest first. A limit
// of zero returns everything.
func (t *Tracker) Activity(ctx context.Context, id, limit int) ([]model.Activity, error) {
	return call(ctx, t, "activity", func(tx *sql.Tx) ([]model.Activity, error) {
		return db.ListActivity(ctx, tx, id, limit)
	})
}
