package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

func TestRunnerCommits(t *testing.T) {
	conn := mustOpen(t)
	r := NewRunner(conn)

	err := r.Run(ctx, "create", func(tx *sql.Tx) error {
		_, err := CreateIssue(ctx, tx, model.IssueCreate{Title: "committed"})
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := GetIssue(ctx, conn, 1); err != nil {
		t.Errorf("issue not committed: %v", err)
	}
}

func TestRunnerRollsBackOnError(t *testing.T) {
	conn := mustOpen(t)
	r := NewRunner(conn)
	boom := errors.New("boom")

	err := r.Run(ctx, "create", func(tx *sql.Tx) error {
		if _, err := CreateIssue(ctx, tx, model.IssueCreate{Title: "discarded"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run = %v, want boom", err)
	}

	var n int
	conn.QueryRow(`SELECT COUNT(*) FROM issues`).Scan(&n)
	if n != 0 {
		t.Errorf("issues after rollback = %d, want 0", n)
	}
}

func TestRunnerPartialFailureLeavesNoTrace(t *testing.T) {
	conn := mustOpen(t)
	r := NewRunner(conn)
	issue := mustCreateIssue(t, conn, "target", "")

	// The link to a missing issue fails after the label was attached.
	mustCreateLabel(t, conn, "bug")
	err := r.Run(ctx, "label+link", func(tx *sql.Tx) error {
		if err := AddLabel(ctx, tx, issue.ID, "bug"); err != nil {
			return err
		}
		_, err := AddLink(ctx, tx, issue.ID, 99)
		return err
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Run = %v, want ErrNotFound", err)
	}

	labels, _ := IssueLabels(ctx, conn, issue.ID)
	if len(labels) != 0 {
		t.Errorf("label survived rollback: %v", labels)
	}
}

func TestRunnerReportsBusyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.db")

	holder, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { holder.Close() })
	if err := Migrate(ctx, holder); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	waiter, err := Open(path, WithBusyTimeout(time.Millisecond))
	if err != nil {
		t.Fatalf("Open second handle: %v", err)
	}
	t.Cleanup(func() { waiter.Close() })

	tx, err := holder.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback()
	if _, err := CreateIssue(ctx, tx, model.IssueCreate{Title: "holding the write lock"}); err != nil {
		t.Fatalf("CreateIssue in held tx: %v", err)
	}

	r := &Runner{DB: waiter, MaxElapsed: 50 * time.Millisecond}
	err = r.Run(ctx, "create", func(tx *sql.Tx) error {
		_, err := CreateIssue(ctx, tx, model.IssueCreate{Title: "blocked"})
		return err
	})

	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Run on locked store = %v, want ErrStoreUnavailable", err)
	}
	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Op != "create" {
		t.Errorf("UnavailableError = %+v", ue)
	}
}

func TestClassify(t *testing.T) {
	plain := errors.New("plain")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"plain passes through", plain, plain},
		{"locked", fmt.Errorf("exec: database is locked"), ErrStoreUnavailable},
		{"constraint", fmt.Errorf("CHECK constraint failed: title"), ErrConstraint},
		{"not found kept", issueNotFound(3), ErrNotFound},
		{"already unavailable", &UnavailableError{Err: plain}, ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("classify = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("classify(%v) = %v, want wrapping %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{issueNotFound(5), "issue #5 not found"},
		{commentNotFound(2), "comment #2 not found"},
		{labelNotFound("bug"), "label 'bug' not found"},
		{&TransitionError{ID: 1, State: "closed"}, "issue #1 is already closed"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestMakePlaceholders(t *testing.T) {
	tests := map[int]string{0: "", 1: "?", 3: "?,?,?"}
	for n, want := range tests {
		if got := makePlaceholders(n); got != want {
			t.Errorf("makePlaceholders(%d) = %q, want %q", n, got, want)
		}
	}
}
