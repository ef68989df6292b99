package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// CurrentSchemaVersion is the schema version this build migrates stores to.
const CurrentSchemaVersion = 2

// schemaV1 creates the core tables. Enumerations, the open/closed coupling
// of state_reason and closed_at, case-insensitive label names and the
// canonical ordering of link pairs are all enforced by the engine.
const schemaV1 = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT
);

CREATE TABLE issues (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL CHECK (length(trim(title)) > 0),
	body         TEXT,
	type         TEXT NOT NULL DEFAULT 'task'
	             CHECK (type IN ('epic', 'task', 'bug', 'request')),
	state        TEXT NOT NULL DEFAULT 'open'
	             CHECK (state IN ('open', 'closed')),
	state_reason TEXT
	             CHECK (state_reason IS NULL OR state_reason IN ('completed', 'not_planned')),
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL,
	closed_at    TEXT,
	deleted_at   TEXT,
	CHECK (
		(state = 'open' AND state_reason IS NULL AND closed_at IS NULL)
		OR state = 'closed'
	)
);

CREATE TABLE labels (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE COLLATE NOCASE CHECK (length(trim(name)) > 0),
	description TEXT,
	color       TEXT CHECK (
		color IS NULL OR (length(color) = 6 AND color NOT GLOB '*[^0-9A-Fa-f]*')
	),
	created_at  TEXT NOT NULL
);

CREATE TABLE issue_labels (
	issue_id INTEGER NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
	label_id INTEGER NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
	PRIMARY KEY (issue_id, label_id)
);

CREATE TABLE comments (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_id   INTEGER NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
	body       TEXT NOT NULL CHECK (length(trim(body)) > 0),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE issue_links (
	issue_a_id INTEGER NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
	issue_b_id INTEGER NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL,
	PRIMARY KEY (issue_a_id, issue_b_id),
	CHECK (issue_a_id < issue_b_id)
);

CREATE TABLE activity_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_id      INTEGER NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
	field_changed TEXT NOT NULL,
	old_value     TEXT,
	new_value     TEXT,
	created_at    TEXT NOT NULL
);

CREATE INDEX idx_issues_type ON issues(type);
CREATE INDEX idx_issues_state ON issues(state);
CREATE INDEX idx_issues_deleted_at ON issues(deleted_at);
CREATE INDEX idx_issues_created_at ON issues(created_at);
CREATE INDEX idx_issues_updated_at ON issues(updated_at);
CREATE INDEX idx_issue_labels_label_id ON issue_labels(label_id);
CREATE INDEX idx_comments_issue_id ON comments(issue_id);
CREATE INDEX idx_issue_links_b ON issue_links(issue_b_id);
CREATE INDEX idx_activity_log_issue_id ON activity_log(issue_id);

INSERT INTO meta (key, value) VALUES ('schema_version', '0');
`

// schemaV2 adds the full-text index over issue titles and bodies. Triggers
// keep it in step with the issues table inside the writing transaction.
const schemaV2 = `
CREATE VIRTUAL TABLE issues_fts USING fts5(
	title,
	body,
	content='issues',
	content_rowid='id'
);

CREATE TRIGGER issues_fts_ai AFTER INSERT ON issues BEGIN
	INSERT INTO issues_fts(rowid, title, body) VALUES (new.id, new.title, new.body);
END;

CREATE TRIGGER issues_fts_ad AFTER DELETE ON issues BEGIN
	INSERT INTO issues_fts(issues_fts, rowid, title, body) VALUES ('delete', old.id, old.title, old.body);
END;

CREATE TRIGGER issues_fts_au AFTER UPDATE OF title, body ON issues BEGIN
	INSERT INTO issues_fts(issues_fts, rowid, title, body) VALUES ('delete', old.id, old.title, old.body);
	INSERT INTO issues_fts(rowid, title, body) VALUES (new.id, new.title, new.body);
END;

INSERT INTO issues_fts(issues_fts) VALUES ('rebuild');
`

type migrationFunc func(ctx context.Context, tx *sql.Tx) error

func execMigration(ddl string) migrationFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, ddl)
		return err
	}
}

// migrations is keyed by the version they migrate TO.
// For example, migrations[2] migrates from version 1 to version 2.
var migrations = map[int]migrationFunc{
	1: execMigration(schemaV1),
	2: execMigration(schemaV2),
}

// SchemaVersion returns the schema version recorded in the store. A store
// without a meta table is version 0.
func SchemaVersion(ctx context.Context, q Querier) (int, error) {
	hasMeta, err := exists(ctx, q,
		`SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'meta')`)
	if err != nil {
		return 0, classify(fmt.Errorf("checking for meta table: %w", err))
	}
	if !hasMeta {
		return 0, nil
	}

	var val string
	err = q.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, classify(fmt.Errorf("reading schema version: %w", err))
	}

	v, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parsing schema version %q: %w", val, err)
	}

	return v, nil
}

// Migrate brings the store up to CurrentSchemaVersion, applying each
// pending migration in ascending order. Every step runs in its own
// transaction together with the version bump, so a failed step leaves the
// store at the previous version. It is a no-op on a current store.
func Migrate(ctx context.Context, conn *sql.DB) error {
	return migrate(ctx, conn, migrations, CurrentSchemaVersion)
}

func migrate(ctx context.Context, conn *sql.DB, steps map[int]migrationFunc, target int) error {
	version, err := SchemaVersion(ctx, conn)
	if err != nil {
		return err
	}

	if version > target {
		return fmt.Errorf("store is at version %d, this build supports %d: %w", version, target, ErrSchemaTooNew)
	}

	for v := version + 1; v <= target; v++ {
		step, ok := steps[v]
		if !ok {
			return fmt.Errorf("missing migration for version %d", v)
		}

		err := runTx(ctx, conn, func(tx *sql.Tx) error {
			if err := step(ctx, tx); err != nil {
				return fmt.Errorf("applying migration %d: %w", v, err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE meta SET value = ? WHERE key = 'schema_version'`,
				strconv.Itoa(v),
			); err != nil {
				return fmt.Errorf("updating schema version to %d: %w", v, err)
			}
			return nil
		})
		if err != nil {
			return classify(err)
		}
	}

	return nil
}
