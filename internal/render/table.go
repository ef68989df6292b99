package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

const maxTitleWidth = 50

// StyledText applies a lipgloss style to text when colors are enabled.
// When colors are disabled, it returns the plain text unchanged.
func StyledText(text string, style lipgloss.Style) string {
	if ColorsEnabled() {
		return style.Render(text)
	}
	return text
}

// ColorFromName maps model color name strings to lipgloss colors.
func ColorFromName(name string) lipgloss.Color {
	switch name {
	case "red":
		return lipgloss.Color("9")
	case "yellow":
		return lipgloss.Color("11")
	case "blue":
		return lipgloss.Color("12")
	case "green":
		return lipgloss.Color("10")
	case "magenta":
		return lipgloss.Color("13")
	case "cyan":
		return lipgloss.Color("14")
	case "gray":
		return lipgloss.Color("8")
	default:
		return lipgloss.Color("15")
	}
}

// labelColor returns the label's own RRGGBB color, or white when unset.
func labelColor(l *model.Label) lipgloss.Color {
	if l.Color == "" {
		return lipgloss.Color("15")
	}
	return lipgloss.Color("#" + l.Color)
}

// truncate shortens a string to maxLen runes, appending an ellipsis if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// stateLabel returns e.g. "● open" or "✔ closed (not_planned)".
func stateLabel(issue *model.Issue) string {
	if issue.State == model.StateClosed {
		if issue.StateReason != "" {
			return fmt.Sprintf("✔ closed (%s)", issue.StateReason)
		}
		return "✔ closed"
	}
	return "● open"
}

// EmptyState renders a styled empty-state message with an optional contextual hint.
// When colors are enabled the message is rendered in dim gray and the hint is italic.
// When quiet is true the hint is suppressed.
func EmptyState(message, hint string, quiet bool) string {
	if !ColorsEnabled() {
		if quiet || hint == "" {
			return message
		}
		return message + "\n" + hint
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)

	result := dimStyle.Render(message)
	if !quiet && hint != "" {
		result += "\n" + hintStyle.Render(hint)
	}
	return result
}

// RenderIssueTable renders one page of issues. When total exceeds the
// page a "showing n of total" footer is appended.
func RenderIssueTable(issues []*model.Issue, total int) string {
	if len(issues) == 0 {
		return EmptyState("No issues found.", "Create one with: skis create <title>", false)
	}

	var out string
	if !ColorsEnabled() {
		out = renderPlainIssueTable(issues)
	} else {
		out = renderColorIssueTable(issues)
	}

	if total > len(issues) {
		out = strings.TrimRight(out, "\n") + "\n" + StyledText(
			fmt.Sprintf("showing %d of %d", len(issues), total),
			lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		)
	}
	return out
}

func issueToRow(issue *model.Issue) []string {
	title := truncate(issue.Title, maxTitleWidth)
	if issue.IsDeleted() {
		title += " [deleted]"
	}
	return []string{
		model.FormatID(issue.ID),
		stateLabel(issue),
		string(issue.Type),
		title,
		strings.Join(issue.Labels, ", "),
		humanize.Time(issue.UpdatedAt),
	}
}

func renderColorIssueTable(issues []*model.Issue) string {
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, issueToRow(issue))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("ID", "State", "Type", "Title", "Labels", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)

			if row == table.HeaderRow {
				return s.Bold(true).Foreground(lipgloss.Color("15"))
			}
			if row < 0 || row >= len(issues) {
				return s
			}

			issue := issues[row]
			if issue.IsDeleted() {
				return s.Foreground(lipgloss.Color("8")).Strikethrough(col == 3)
			}
			switch col {
			case 1:
				return s.Foreground(ColorFromName(issue.State.Color()))
			case 2:
				return s.Foreground(ColorFromName(issue.Type.Color()))
			case 3:
				return s.Bold(true)
			case 5:
				return s.Foreground(lipgloss.Color("8"))
			default:
				return s
			}
		})

	return t.Render()
}

func renderPlainIssueTable(issues []*model.Issue) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-6s %-24s %-8s %-50s %-20s %s\n",
		"ID", "State", "Type", "Title", "Labels", "Updated")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 120))

	for _, issue := range issues {
		row := issueToRow(issue)
		fmt.Fprintf(&b, "%-6s %-24s %-8s %-50s %-20s %s\n",
			row[0], row[1], row[2], row[3], row[4], row[5])
	}

	return b.String()
}

// RenderLabelTable renders labels with their usage counts.
func RenderLabelTable(labels []*model.LabelWithCount) string {
	if len(labels) == 0 {
		return EmptyState("No labels defined.", "Create one with: skis label create <name>", false)
	}

	if !ColorsEnabled() {
		var b strings.Builder
		fmt.Fprintf(&b, "%-20s %-8s %-7s %s\n", "Name", "Color", "Issues", "Description")
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 72))
		for _, l := range labels {
			fmt.Fprintf(&b, "%-20s %-8s %-7d %s\n", l.Name, l.Color, l.IssueCount, l.Description)
		}
		return b.String()
	}

	rows := make([][]string, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []string{l.Name, l.Color, fmt.Sprint(l.IssueCount), l.Description})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("Name", "Color", "Issues", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(lipgloss.Color("15"))
			}
			if row >= 0 && row < len(labels) && col == 0 {
				return s.Bold(true).Foreground(labelColor(&labels[row].Label))
			}
			return s
		})

	return t.Render()
}
