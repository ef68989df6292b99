package db

import (
	"errors"
	"testing"
	"time"
)

func TestAddAndListComments(t *testing.T) {
	db := mustOpen(t)
	issue := mustCreateIssue(t, db, "t", "")
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	setTimes(t, db, issue.ID, past, past)

	first, err := AddComment(ctx, db, issue.ID, "first")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	second, err := AddComment(ctx, db, issue.ID, "second")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if first.IssueID != issue.ID || first.Body != "first" {
		t.Errorf("comment = %+v", first)
	}

	comments, err := ListComments(ctx, db, issue.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Errorf("comments out of order: %v", comments)
	}

	got, _ := GetIssue(ctx, db, issue.ID)
	if !got.UpdatedAt.Equal(past) {
		t.Error("adding a comment touched the issue's updated_at")
	}
}

func TestAddCommentErrors(t *testing.T) {
	db := mustOpen(t)
	issue := mustCreateIssue(t, db, "t", "")

	if _, err := AddComment(ctx, db, issue.ID, " \n\t "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank body = %v, want ErrInvalidInput", err)
	}

	_, err := AddComment(ctx, db, 77, "hello")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Entity != EntityIssue || nf.Key != "77" {
		t.Errorf("missing issue = %v", err)
	}

	if _, err := ListComments(ctx, db, 77); !errors.Is(err, ErrNotFound) {
		t.Errorf("ListComments missing issue = %v", err)
	}
}

func TestUpdateComment(t *testing.T) {
	db := mustOpen(t)
	issue := mustCreateIssue(t, db, "t", "")
	c, _ := AddComment(ctx, db, issue.ID, "draft")
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	db.Exec(`UPDATE comments SET created_at = ?, updated_at = ? WHERE id = ?`, "2020-01-01T00:00:00.000000Z", "2020-01-01T00:00:00.000000Z", c.ID)
	setTimes(t, db, issue.ID, past, past)

	updated, err := UpdateComment(ctx, db, c.ID, "final")
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if updated.Body != "final" || !updated.UpdatedAt.After(past) || !updated.CreatedAt.Equal(past) {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.Edited() {
		t.Error("Edited() = false after update")
	}

	got, _ := GetIssue(ctx, db, issue.ID)
	if !got.UpdatedAt.Equal(past) {
		t.Error("editing a comment touched the issue's updated_at")
	}

	if _, err := UpdateComment(ctx, db, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateComment(999) = %v", err)
	}
	if _, err := UpdateComment(ctx, db, c.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateComment blank = %v", err)
	}
}

func TestDeleteComment(t *testing.T) {
	db := mustOpen(t)
	issue := mustCreateIssue(t, db, "t", "")
	c, _ := AddComment(ctx, db, issue.ID, "bye")

	if err := DeleteComment(ctx, db, c.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	_, err := GetComment(ctx, db, c.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Entity != EntityComment {
		t.Errorf("GetComment after delete = %v", err)
	}

	if err := DeleteComment(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteComment = %v", err)
	}
}
