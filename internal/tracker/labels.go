package tracker

import (
	"context"
	"database/sql"

	"github.com/ALT-F4-LLC/skis/internal/db"
	"github.com/ALT-F4-LLC/skis/internal/model"
)

// CreateLabel defines a label. Names are unique ignoring case; color is
// optional and otherwise must be #RRGGBB.
func (t *Tracker) CreateLabel(ctx context.Context, name, description, color string) (*model.Label, error) {
	return call(ctx, t, "create label", func(tx *sql.Tx) (*model.Label, error) {
		return db.CreateLabel(ctx, tx, name, description, color)
	})
}

func (t *Tracker) GetLabel(ctx context.Context, name string) (*model.LabelWithCount, error) {
	return call(ctx, t, "get label", func(tx *sql.Tx) (*model.LabelWithCount, error) {
		return db.GetLabel(ctx, tx, name)
	})
}

func (t *Tracker) ListLabels(ctx context.Context) ([]*model.LabelWithCount, error) {
	return call(ctx, t, "list labels", func(tx *sql.Tx) ([]*model.LabelWithCount, error) {
		return db.ListLabels(ctx, tx)
	})
}

// DeleteLabel removes a label from every issue and then the label itself.
// It returns the ids of the issues that carried it.
func (t *Tracker) DeleteLabel(ctx context.Context, name string) ([]int, error) {
	return call(ctx, t, "delete label", func(tx *sql.Tx) ([]int, error) {
		return db.DeleteLabel(ctx, tx, name)
	})
}

// AddLabels attaches every named label to an issue, or none of them if
// any name is unknown. Labels already attached are left alone.
func (t *Tracker) AddLabels(ctx context.Context, issueID int, names ...string) (*model.Issue, error) {
	return call(ctx, t, "add labels", func(tx *sql.Tx) (*model.Issue, error) {
		for _, name := range names {
			if err := db.AddLabel(ctx, tx, issueID, name); err != nil {
				return nil, err
			}
		}
		return db.GetIssue(ctx, tx, issueID)
	})
}

// RemoveLabels detaches the named labels from an issue. Names that exist
// but are not attached are ignored.
func (t *Tracker) RemoveLabels(ctx context.Context, issueID int, names ...string) (*model.Issue, error) {
	return call(ctx, t, "remove labels", func(tx *sql.Tx) (*model.Issue, error) {
		for _, name := range names {
			if err := db.RemoveLabel(ctx, tx, issueID, name); err != nil {
				return nil, err
			}
		}
		return db.GetIssue(ctx, tx, issueID)
	})
}

// IssueLabels returns the labels attached to an issue, by name.
func (t *Tracker) IssueLabels(ctx context.Context, issueID int) ([]*model.Label, error) {
	return call(ctx, t, "issue labels", func(tx *sql.Tx) ([]*model.Label, error) {
		return db.IssueLabels(ctx, tx, issueID)
	})
}
