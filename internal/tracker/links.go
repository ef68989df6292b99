package tracker

import (
	"context"
	"database/sql"

	"github.com/ALT-F4-LLC/skis/internal/db"
	"github.com/ALT-F4-LLC/skis/internal/model"
)

// AddLink relates two issues. Links have no direction: linking b to a
// after a to b fails with ErrDuplicateLink.
func (t *Tracker) AddLink(ctx context.Context, a, b int) (*model.Link, error) {
	return call(ctx, t, "add link", func(tx *sql.Tx) (*model.Link, error) {
		return db.AddLink(ctx, tx, a, b)
	})
}

// RemoveLink removes the link between a and b in either order.
func (t *Tracker) RemoveLink(ctx context.Context, a, b int) error {
	return t.run(ctx, "remove link", func(tx *sql.Tx) error {
		return db.RemoveLink(ctx, tx, a, b)
	})
}

// LinkedIDs returns the ids linked to an issue, ascending.
func (t *Tracker) LinkedIDs(ctx context.Context, id int) ([]int, error) {
	return call(ctx, t, "linked ids", func(tx *sql.Tx) ([]int, error) {
		return db.LinkedIDs(ctx, tx, id)
	})
}

// LinkedIssues returns short references to the issues linked to id,
// including soft-deleted ones.
func (t *Tracker) LinkedIssues(ctx context.Context, id int) ([]model.IssueRef, error) {
	return call(ctx, t, "linked issues", func(tx *sql.Tx) ([]model.IssueRef, error) {
		return db.LinkedIssues(ctx, tx, id)
	})
}
