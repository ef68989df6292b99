package model

// Label is a named tag that can be attached to issues.
type Label struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// LabelWithCount extends Label with the number of issues using it.
type LabelWithCount struct {
	Label
	IssueCount int `json:"issue_count"`
}

// ValidateColor checks that c is exactly six hexadecimal characters with no
// leading '#'. The empty string means no color and is valid.
func ValidateColor(c string) error {
	if c == "" {
		return nil
	}
	if len(c) != 6 {
		return &ColorError{Value: c}
	}
	for _, r := range c {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return &ColorError{Value: c}
		}
	}
	return nil
}
