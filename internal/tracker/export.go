package tracker

import (
	"context"
	"database/sql"

	"github.com/ALT-F4-LLC/skis/internal/db"
	"github.com/ALT-F4-LLC/skis/internal/model"
)

// Export returns every record in the store, soft-deleted issues included,
// read from one snapshot.
func (t *Tracker) Export(ctx context.Context) (*model.ExportData, error) {
	return call(ctx, t, "export", func(tx *sql.Tx) (*model.ExportData, error) {
		version, err := db.SchemaVersion(ctx, tx)
		if err != nil {
			return nil, err
		}
		issues, err := db.ListAllIssues(ctx, tx)
		if err != nil {
			return nil, err
		}
		labels, err := db.ListAllLabels(ctx, tx)
		if err != nil {
			return nil, err
		}
		comments, err := db.ListAllComments(ctx, tx)
		if err != nil {
			return nil, err
		}
		links, err := db.ListAllLinks(ctx, tx)
		if err != nil {
			return nil, err
		}
		mappings, err := db.ListIssueLabelMappings(ctx, tx)
		if err != nil {
			return nil, err
		}

		return &model.ExportData{
			Version:            version,
			ExportedAt:         model.FormatTime(model.Now()),
			Issues:             issues,
			Labels:             labels,
			Comments:           comments,
			Links:              links,
			IssueLabelMappings: mappings,
		}, nil
	})
}
