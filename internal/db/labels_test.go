package db

import (
	"errors"
	"testing"
	"time"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

func TestCreateLabel(t *testing.T) {
	db := mustOpen(t)

	l, err := CreateLabel(ctx, db, " bug ", "Something is broken", "ff0000")
	if err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}
	if l.ID <= 0 || l.Name != "bug" || l.Description != "Something is broken" || l.Color != "ff0000" {
		t.Errorf("label = %+v", l)
	}
}

func TestCreateLabelDuplicateIgnoresCase(t *testing.T) {
	db := mustOpen(t)
	mustCreateLabel(t, db, "Bug")

	_, err := CreateLabel(ctx, db, "bug", "", "")
	var dup *DuplicateLabelError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateLabelError, got %v", err)
	}
	if dup.Name != "Bug" {
		t.Errorf("DuplicateLabelError.Name = %q, want existing name Bug", dup.Name)
	}
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Error("error does not match ErrDuplicateLabel")
	}
}

func TestCreateLabelInvalidColor(t *testing.T) {
	db := mustOpen(t)

	for _, c := range []string{"#ff0000", "ff00", "zzzzzz"} {
		_, err := CreateLabel(ctx, db, "x", "", c)
		var ce *model.ColorError
		if !errors.As(err, &ce) || ce.Value != c {
			t.Errorf("CreateLabel color %q = %v, want ColorError", c, err)
		}
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM labels").Scan(&n)
	if n != 0 {
		t.Errorf("label count = %d, want 0", n)
	}
}

func TestCreateLabelEmptyName(t *testing.T) {
	db := mustOpen(t)

	if _, err := CreateLabel(ctx, db, "  ", "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateLabel blank = %v, want ErrInvalidInput", err)
	}
}

func TestListLabelsOrderAndCounts(t *testing.T) {
	db := mustOpen(t)
	mustCreateLabel(t, db, "zeta")
	mustCreateLabel(t, db, "Alpha")
	mustCreateLabel(t, db, "beta")
	mustCreateIssue(t, db, "a", "", "beta")
	mustCreateIssue(t, db, "b", "", "beta", "zeta")

	labels, err := ListLabels(ctx, db)
	if err != nil {
		t.Fatalf("ListLabels: %v", err)
	}

	want := []struct {
		name  string
		count int
	}{{"Alpha", 0}, {"beta", 2}, {"zeta", 1}}
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(labels), len(want))
	}
	for i, w := range want {
		if labels[i].Name != w.name || labels[i].IssueCount != w.count {
			t.Errorf("labels[%d] = %s/%d, want %s/%d", i, labels[i].Name, labels[i].IssueCount, w.name, w.count)
		}
	}
}

func TestGetLabelIgnoresCase(t *testing.T) {
	db := mustOpen(t)
	mustCreateLabel(t, db, "Bug")

	l, err := GetLabel(ctx, db, "BUG")
	if err != nil {
		t.Fatalf("GetLabel: %v", err)
	}
	if l.Name != "Bug" {
		t.Errorf("Name = %q, want Bug", l.Name)
	}

	_, err = GetLabel(ctx, db, "missing")
	if err == nil || err.Error() != "label 'missing' not found" {
		t.Errorf("GetLabel(missing) = %v", err)
	}
}

func TestDeleteLabelCascades(t *testing.T) {
	db := mustOpen(t)
	mustCreateLabel(t, db, "bug")
	a := mustCreateIssue(t, db, "a", "", "bug")
	b := mustCreateIssue(t, db, "b", "", "bug")
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	setTimes(t, db, a.ID, past, past)

	ids, err := DeleteLabel(ctx, db, "BUG")
	if err != nil {
		t.Fatalf("DeleteLabel: %v", err)
	}
	if len(ids) != 2 || ids[0] != a.ID || ids[1] != b.ID {
		t.Errorf("affected ids = %v, want [%d %d]", ids, a.ID, b.ID)
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM issue_labels").Scan(&n)
	if n != 0 {
		t.Errorf("issue_labels rows = %d, want 0", n)
	}

	got, _ := GetIssue(ctx, db, a.ID)
	if len(got.Labels) != 0 {
		t.Errorf("Labels = %v, want none", got.Labels)
	}
	if !got.UpdatedAt.Equal(past) {
		t.Error("deleting a label touched the issue's updated_at")
	}

	if _, err := DeleteLabel(ctx, db, "bug"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteLabel = %v, want ErrNotFound", err)
	}
}

func TestAddAndRemoveLabel(t *testing.T) {
	db := mustOpen(t)
	mustCreateLabel(t, db, "ui")
	issue := mustCreateIssue(t, db, "t", "")
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	setTimes(t, db, issue.ID, past, past)

	if err := AddLabel(ctx, db, issue.ID, "UI"); err != nil {
		t.Fatalf("AddLabel: %v", err)
	}
	if err := AddLabel(ctx, db, issue.ID, "ui"); err != nil {
		t.Fatalf("second AddLabel: %v", err)
	}

	got, _ := GetIssue(ctx, db, issue.ID)
	if len(got.Labels) != 1 || got.Labels[0] != "ui" {
		t.Errorf("Labels = %v, want [ui]", got.Labels)
	}
	if !got.UpdatedAt.Equal(past) {
		t.Error("attaching a label touched updated_at")
	}

	objs, err := IssueLabels(ctx, db, issue.ID)
	if err != nil || len(objs) != 1 || objs[0].Name != "ui" {
		t.Errorf("IssueLabels = %v, %v", objs, err)
	}

	if err := RemoveLabel(ctx, db, issue.ID, "ui"); err != nil {
		t.Fatalf("RemoveLabel: %v", err)
	}
	if err := RemoveLabel(ctx, db, issue.ID, "ui"); err != nil {
		t.Errorf("removing a detached label: %v", err)
	}

	got, _ = GetIssue(ctx, db, issue.ID)
	if len(got.Labels) != 0 {
		t.Errorf("Labels = %v, want none", got.Labels)
	}
}

func TestAddLabelErrors(t *testing.T) {
	db := mustOpen(t)
	mustCreateLabel(t, db, "ui")
	issue := mustCreateIssue(t, db, "t", "")

	var nf *NotFoundError
	err := AddLabel(ctx, db, issue.ID, "nope")
	if !errors.As(err, &nf) || nf.Entity != EntityLabel || nf.Key != "nope" {
		t.Errorf("AddLabel unknown label = %v", err)
	}

	err = AddLabel(ctx, db, 999, "ui")
	if !errors.As(err, &nf) || nf.Entity != EntityIssue {
		t.Errorf("AddLabel unknown issue = %v", err)
	}

	if err := RemoveLabel(ctx, db, issue.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveLabel unknown label = %v", err)
	}
}
