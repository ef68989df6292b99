package db

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

func TestAddLinkNormalizesPair(t *testing.T) {
	db := mustOpen(t)
	a := mustCreateIssue(t, db, "a", "")
	b := mustCreateIssue(t, db, "b", "")

	link, err := AddLink(ctx, db, b.ID, a.ID)
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if link.Low != a.ID || link.High != b.ID {
		t.Errorf("link = %+v, want low %d high %d", link, a.ID, b.ID)
	}

	var low, high int
	if err := db.QueryRow(`SELECT issue_a_id, issue_b_id FROM issue_links`).Scan(&low, &high); err != nil {
		t.Fatalf("reading link: %v", err)
	}
	if low != a.ID || high != b.ID {
		t.Errorf("stored pair = (%d, %d)", low, high)
	}
}

func TestAddLinkDuplicateEitherOrder(t *testing.T) {
	db := mustOpen(t)
	a := mustCreateIssue(t, db, "a", "")
	b := mustCreateIssue(t, db, "b", "")

	if _, err := AddLink(ctx, db, a.ID, b.ID); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	for _, args := range [][2]int{{a.ID, b.ID}, {b.ID, a.ID}} {
		_, err := AddLink(ctx, db, args[0], args[1])
		var dup *DuplicateLinkError
		if !errors.As(err, &dup) {
			t.Errorf("AddLink(%d, %d) = %v, want DuplicateLinkError", args[0], args[1], err)
			continue
		}
		if dup.Low != a.ID || dup.High != b.ID {
			t.Errorf("DuplicateLinkError = %+v", dup)
		}
	}
}

func TestAddLinkSelf(t *testing.T) {
	db := mustOpen(t)
	a := mustCreateIssue(t, db, "a", "")

	if _, err := AddLink(ctx, db, a.ID, a.ID); !errors.Is(err, model.ErrSelfLink) {
		t.Errorf("AddLink self = %v, want ErrSelfLink", err)
	}
}

func TestAddLinkMissingIssue(t *testing.T) {
	db := mustOpen(t)
	a := mustCreateIssue(t, db, "a", "")

	_, err := AddLink(ctx, db, a.ID, 99)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Key != "99" {
		t.Errorf("AddLink missing = %v", err)
	}
}

func TestLinkedIDsFromBothSides(t *testing.T) {
	db := mustOpen(t)
	a := mustCreateIssue(t, db, "a", "")
	b := mustCreateIssue(t, db, "b", "")
	c := mustCreateIssue(t, db, "c", "")

	AddLink(ctx, db, a.ID, b.ID)
	AddLink(ctx, db, c.ID, b.ID)

	tests := []struct {
		id   int
		want []int
	}{
		{a.ID, []int{b.ID}},
		{b.ID, []int{a.ID, c.ID}},
		{c.ID, []int{b.ID}},
	}
	for _, tt := range tests {
		got, err := LinkedIDs(ctx, db, tt.id)
		if err != nil {
			t.Fatalf("LinkedIDs(%d): %v", tt.id, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("LinkedIDs(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}

	if _, err := LinkedIDs(ctx, db, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("LinkedIDs(404) = %v", err)
	}
}

func TestLinksSurviveSoftDelete(t *testing.T) {
	db := mustOpen(t)
	a := mustCreateIssue(t, db, "a", "")
	b := mustCreateIssue(t, db, "b", "")
	AddLink(ctx, db, a.ID, b.ID)

	if err := DeleteIssue(ctx, db, b.ID); err != nil {
		t.Fatalf("DeleteIssue: %v", err)
	}

	refs, err := LinkedIssues(ctx, db, a.ID)
	if err != nil {
		t.Fatalf("LinkedIssues: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != b.ID || refs[0].Title != "b" || !refs[0].Deleted {
		t.Errorf("LinkedIssues = %+v", refs)
	}
}

func TestRemoveLink(t *testing.T) {
	db := mustOpen(t)
	a := mustCreateIssue(t, db, "a", "")
	b := mustCreateIssue(t, db, "b", "")
	AddLink(ctx, db, a.ID, b.ID)

	if err := RemoveLink(ctx, db, b.ID, a.ID); err != nil {
		t.Fatalf("RemoveLink reversed: %v", err)
	}

	ids, _ := LinkedIDs(ctx, db, a.ID)
	if len(ids) != 0 {
		t.Errorf("LinkedIDs after remove = %v", ids)
	}

	err := RemoveLink(ctx, db, a.ID, b.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Entity != EntityLink {
		t.Errorf("RemoveLink missing = %v, want link NotFoundError", err)
	}

	if err := RemoveLink(ctx, db, a.ID, a.ID); !errors.Is(err, model.ErrSelfLink) {
		t.Errorf("RemoveLink self = %v", err)
	}
}
