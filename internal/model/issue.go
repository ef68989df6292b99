package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IssueType is the category of an issue.
type IssueType string

const (
	IssueTypeEpic    IssueType = "epic"
	IssueTypeTask    IssueType = "task"
	IssueTypeBug     IssueType = "bug"
	IssueTypeRequest IssueType = "request"
)

var validIssueTypes = []IssueType{
	IssueTypeEpic,
	IssueTypeTask,
	IssueTypeBug,
	IssueTypeRequest,
}

// ParseIssueType converts free text into an IssueType. Matching ignores case
// and surrounding whitespace.
func ParseIssueType(s string) (IssueType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, t := range validIssueTypes {
		if v == string(t) {
			return t, nil
		}
	}
	return "", &ParseError{Kind: "issue type", Value: s, Allowed: enumStrings(validIssueTypes)}
}

// Color returns a color name string suitable for terminal rendering.
func (t IssueType) Color() string {
	switch t {
	case IssueTypeEpic:
		return "magenta"
	case IssueTypeTask:
		return "blue"
	case IssueTypeBug:
		return "red"
	case IssueTypeRequest:
		return "cyan"
	default:
		return "white"
	}
}

// State is the open/closed lifecycle state of an issue.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

var validStates = []State{StateOpen, StateClosed}

// ParseState converts free text into a State.
func ParseState(s string) (State, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, st := range validStates {
		if v == string(st) {
			return st, nil
		}
	}
	return "", &ParseError{Kind: "state", Value: s, Allowed: enumStrings(validStates)}
}

// Color returns a color name string suitable for terminal rendering.
func (s State) Color() string {
	switch s {
	case StateOpen:
		return "green"
	case StateClosed:
		return "magenta"
	default:
		return "white"
	}
}

// StateReason records why an issue was closed. The zero value means no
// reason, which is the only valid value for open issues.
type StateReason string

const (
	StateReasonCompleted  StateReason = "completed"
	StateReasonNotPlanned StateReason = "not_planned"
)

var validStateReasons = []StateReason{StateReasonCompleted, StateReasonNotPlanned}

// ParseStateReason converts free text into a StateReason. "not-planned" and
// "notplanned" are accepted as spellings of not_planned.
func ParseStateReason(s string) (StateReason, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "completed":
		return StateReasonCompleted, nil
	case "not_planned", "not-planned", "notplanned":
		return StateReasonNotPlanned, nil
	}
	return "", &ParseError{Kind: "state reason", Value: s, Allowed: enumStrings(validStateReasons)}
}

// FormatID returns the display form of an issue ID, e.g. "#5".
func FormatID(id int) string {
	return "#" + strconv.Itoa(id)
}

// ParseID accepts both "#5" and "5" and returns the numeric ID.
func ParseID(input string) (int, error) {
	s := strings.TrimPrefix(strings.TrimSpace(input), "#")
	if s == "" {
		return 0, fmt.Errorf("empty issue ID")
	}

	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid issue ID %q: %w", input, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid issue ID %q: must be positive", input)
	}

	return id, nil
}

// Issue is a tracked work item.
type Issue struct {
	ID          int
	Title       string
	Body        string
	Type        IssueType
	State       State
	StateReason StateReason
	Labels      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
	DeletedAt   *time.Time
}

// IsDeleted reports whether the issue carries a soft-delete marker.
func (i *Issue) IsDeleted() bool {
	return i.DeletedAt != nil
}

// IssueCreate holds the input for creating an issue. An empty Type means task.
type IssueCreate struct {
	Title  string
	Body   string
	Type   IssueType
	Labels []string
}

// IssueUpdate holds the fields to change on an issue. Nil fields are left
// untouched; a non-nil empty Body clears the body.
type IssueUpdate struct {
	Title *string
	Body  *string
	Type  *IssueType
}

// IsEmpty reports whether the update changes nothing.
func (u IssueUpdate) IsEmpty() bool {
	return u.Title == nil && u.Body == nil && u.Type == nil
}

// IssueRef is a short reference to an issue, used for linked issue lists.
type IssueRef struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	State   State  `json:"state"`
	Deleted bool   `json:"deleted"`
}

// issueJSON is the JSON wire format for Issue.
type issueJSON struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Body        *string  `json:"body"`
	Type        string   `json:"type"`
	State       string   `json:"state"`
	StateReason *string  `json:"state_reason"`
	Labels      []string `json:"labels"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	ClosedAt    *string  `json:"closed_at"`
	DeletedAt   *string  `json:"deleted_at"`
}

// MarshalJSON implements custom JSON serialization for Issue.
func (i Issue) MarshalJSON() ([]byte, error) {
	j := issueJSON{
		ID:        i.ID,
		Title:     i.Title,
		Body:      optionalString(i.Body),
		Type:      string(i.Type),
		State:     string(i.State),
		Labels:    i.Labels,
		CreatedAt: FormatTime(i.CreatedAt),
		UpdatedAt: FormatTime(i.UpdatedAt),
		ClosedAt:  optionalTime(i.ClosedAt),
		DeletedAt: optionalTime(i.DeletedAt),
	}
	if j.Labels == nil {
		j.Labels = []string{}
	}
	if i.StateReason != "" {
		r := string(i.StateReason)
		j.StateReason = &r
	}

	return json.Marshal(j)
}

// UnmarshalJSON implements custom JSON deserialization for Issue.
func (i *Issue) UnmarshalJSON(data []byte) error {
	var j issueJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}

	i.ID = j.ID
	i.Title = j.Title
	if j.Body != nil {
		i.Body = *j.Body
	}

	var err error
	if i.Type, err = ParseIssueType(j.Type); err != nil {
		return err
	}
	if i.State, err = ParseState(j.State); err != nil {
		return err
	}
	i.StateReason = ""
	if j.StateReason != nil {
		if i.StateReason, err = ParseStateReason(*j.StateReason); err != nil {
			return err
		}
	}
	i.Labels = j.Labels

	if i.CreatedAt, err = ParseTime(j.CreatedAt); err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	if i.UpdatedAt, err = ParseTime(j.UpdatedAt); err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	if i.ClosedAt, err = parseOptionalTime(j.ClosedAt); err != nil {
		return fmt.Errorf("parsing closed_at: %w", err)
	}
	if i.DeletedAt, err = parseOptionalTime(j.DeletedAt); err != nil {
		return fmt.Errorf("parsing deleted_at: %w", err)
	}

	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func enumStrings[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}
