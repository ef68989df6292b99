package model

// IssueLabelMapping represents a row in the issue_labels join table.
type IssueLabelMapping struct {
	IssueID int `json:"issue_id"`
	LabelID int `json:"label_id"`
}

// IssueView bundles an issue with everything a detail screen shows.
type IssueView struct {
	Issue    *Issue     `json:"issue"`
	Labels   []*Label   `json:"labels"`
	Linked   []IssueRef `json:"linked_issues"`
	Comments []*Comment `json:"comments"`
}

// ExportData is the top-level structure for a full store export.
type ExportData struct {
	Version            int                 `json:"version"`
	ExportedAt         string              `json:"exported_at"`
	Issues             []*Issue            `json:"issues"`
	Labels             []*Label            `json:"labels"`
	Comments           []*Comment          `json:"comments"`
	Links              []Link              `json:"links"`
	IssueLabelMappings []IssueLabelMapping `json:"issue_label_mappings"`
}
