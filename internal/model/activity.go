package model

import (
	"encoding/json"
	"time"
)

// Activity is one recorded change to an issue.
type Activity struct {
	ID        int
	IssueID   int
	Field     string
	OldValue  string
	NewValue  string
	CreatedAt time.Time
}

type activityJSON struct {
	ID        int    `json:"id"`
	IssueID   int    `json:"issue_id"`
	Field     string `json:"field"`
	OldValue  string `json:"old_value,omitempty"`
	NewValue  string `json:"new_value,omitempty"`
	CreatedAt string `json:"created_at"`
}

// MarshalJSON implements custom JSON serialization for Activity.
func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(activityJSON{
		ID:        a.ID,
		IssueID:   a.IssueID,
		Field:     a.Field,
		OldValue:  a.OldValue,
		NewValue:  a.NewValue,
		CreatedAt: FormatTime(a.CreatedAt),
	})
}
