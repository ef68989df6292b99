package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Comment is a note attached to an issue.
type Comment struct {
	ID        int
	IssueID   int
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Edited reports whether the comment changed after it was written.
func (c Comment) Edited() bool {
	return c.UpdatedAt.After(c.CreatedAt)
}

// commentJSON is the JSON wire format for Comment.
type commentJSON struct {
	ID        int    `json:"id"`
	IssueID   int    `json:"issue_id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MarshalJSON implements custom JSON serialization for Comment.
func (c Comment) MarshalJSON() ([]byte, error) {
	return json.Marshal(commentJSON{
		ID:        c.ID,
		IssueID:   c.IssueID,
		Body:      c.Body,
		CreatedAt: FormatTime(c.CreatedAt),
		UpdatedAt: FormatTime(c.UpdatedAt),
	})
}

// UnmarshalJSON implements custom JSON deserialization for Comment.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var j commentJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}

	c.ID = j.ID
	c.IssueID = j.IssueID
	c.Body = j.Body

	var err error
	if c.CreatedAt, err = ParseTime(j.CreatedAt); err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = ParseTime(j.UpdatedAt); err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}

	return nil
}
