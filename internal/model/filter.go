package model

import "strings"

// DefaultLimit is the page size used when a filter does not set one.
const DefaultLimit = 30

// StateFilter selects issues by state. StateFilterAll disables the predicate.
type StateFilter string

const (
	StateFilterOpen   StateFilter = "open"
	StateFilterClosed StateFilter = "closed"
	StateFilterAll    StateFilter = "all"
)

var validStateFilters = []StateFilter{StateFilterOpen, StateFilterClosed, StateFilterAll}

// ParseStateFilter converts free text into a StateFilter.
func ParseStateFilter(s string) (StateFilter, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, f := range validStateFilters {
		if v == string(f) {
			return f, nil
		}
	}
	return "", &ParseError{Kind: "state filter", Value: s, Allowed: enumStrings(validStateFilters)}
}

// SortField is a column issues may be ordered by.
type SortField string

const (
	SortUpdated SortField = "updated"
	SortCreated SortField = "created"
	SortID      SortField = "id"
)

var validSortFields = []SortField{SortUpdated, SortCreated, SortID}

// ParseSortField converts free text into a SortField. The column names
// "updated_at" and "created_at" are accepted too.
func ParseSortField(s string) (SortField, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_at")
	for _, f := range validSortFields {
		if v == string(f) {
			return f, nil
		}
	}
	return "", &ParseError{Kind: "sort field", Value: s, Allowed: enumStrings(validSortFields)}
}

// Column returns the issues table column backing the sort field.
func (f SortField) Column() string {
	switch f {
	case SortCreated:
		return "created_at"
	case SortID:
		return "id"
	default:
		return "updated_at"
	}
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder converts free text into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	}
	return "", &ParseError{Kind: "sort order", Value: s, Allowed: []string{string(SortAsc), string(SortDesc)}}
}

// IssueFilter selects, orders and pages issues for listing and search.
// Zero values mean the defaults: open issues, any type, no labels, deleted
// issues hidden, sorted by updated time descending, 30 per page.
type IssueFilter struct {
	State          StateFilter
	Type           IssueType
	Labels         []string // issue must carry all of them
	IncludeDeleted bool
	Query          string // full-text terms matched against title and body
	Sort           SortField
	Order          SortOrder
	Limit          int
	Offset         int
}

// WithDefaults returns a copy of f with unset fields replaced by defaults.
func (f IssueFilter) WithDefaults() IssueFilter {
	if f.State == "" {
		f.State = StateFilterOpen
	}
	if f.Sort == "" {
		f.Sort = SortUpdated
	}
	if f.Order == "" {
		f.Order = SortDesc
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
