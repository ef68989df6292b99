package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// LinkPair is the canonical identity of an undirected link between two
// issues: Low is always strictly less than High.
type LinkPair struct {
	Low  int
	High int
}

// NewLinkPair orders a and b into a LinkPair. It returns ErrSelfLink when
// both ids are equal.
func NewLinkPair(a, b int) (LinkPair, error) {
	if a == b {
		return LinkPair{}, ErrSelfLink
	}
	if a > b {
		a, b = b, a
	}
	return LinkPair{Low: a, High: b}, nil
}

// Other returns the member of the pair that is not id.
func (p LinkPair) Other(id int) int {
	if id == p.Low {
		return p.High
	}
	return p.Low
}

func (p LinkPair) String() string {
	return fmt.Sprintf("%s <-> %s", FormatID(p.Low), FormatID(p.High))
}

// Link is a stored link between two issues.
type Link struct {
	LinkPair
	CreatedAt time.Time
}

type linkJSON struct {
	IssueA    int    `json:"issue_a_id"`
	IssueB    int    `json:"issue_b_id"`
	CreatedAt string `json:"created_at"`
}

// MarshalJSON implements custom JSON serialization for Link.
func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(linkJSON{
		IssueA:    l.Low,
		IssueB:    l.High,
		CreatedAt: FormatTime(l.CreatedAt),
	})
}
