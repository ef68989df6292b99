package tracker

import (
	"context"
	"database/sql"

	"github.com/ALT-F4-LLC/skis/internal/db"
	"github.com/ALT-F4-LLC/skis/internal/model"
)

// AddComment appends a comment to an issue. The issue's updated_at does
// not change.
func (t *Tracker) AddComment(ctx context.Context, issueID int, body string) (*model.Comment, error) {
	return call(ctx, t, "add comment", func(tx *sql.Tx) (*model.Comment, error) {
		return db.AddComment(ctx, tx, issueID, body)
	})
}

// ListComments returns an issue's comments, oldest first.
func (t *Tracker) ListComments(ctx context.Context, issueID int) ([]*model.Comment, error) {
	return call(ctx, t, "list comments", func(tx *sql.Tx) ([]*model.Comment, error) {
		return db.ListComments(ctx, tx, issueID)
	})
}

func (t *Tracker) GetComment(ctx context.Context, id int) (*model.Comment, error) {
	return call(ctx, t, "get comment", func(tx *sql.Tx) (*model.Comment, error) {
		return db.GetComment(ctx, tx, id)
	})
}

func (t *Tracker) UpdateComment(ctx context.Context, id int, body string) (*model.Comment, error) {
	return call(ctx, t, "update comment", func(tx *sql.Tx) (*model.Comment, error) {
		return db.UpdateComment(ctx, tx, id, body)
	})
}

func (t *Tracker) DeleteComment(ctx context.Context, id int) error {
	return t.run(ctx, "delete comment", func(tx *sql.Tx) error {
		return db.DeleteComment(ctx, tx, id)
	})
}
