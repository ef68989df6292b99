package render

import (
	"fmt"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ALT-F4-LLC/skis/internal/model"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderDetail renders a full issue view: header, metadata, body, linked
// issues, comments and recent activity.
func RenderDetail(view *model.IssueView, activity []model.Activity) string {
	if !ColorsEnabled() {
		return renderPlainDetail(view, activity)
	}

	issue := view.Issue
	sections := []string{renderHeader(issue), renderMetadata(view)}

	if issue.Body != "" {
		rendered, err := RenderMarkdown(issue.Body)
		if err != nil {
			rendered = issue.Body
		}
		sections = append(sections, sectionStyle.Render("Description")+"\n"+rendered)
	}

	if len(view.Linked) > 0 {
		sections = append(sections, RenderLinks(issue, view.Linked))
	}

	if len(view.Comments) > 0 {
		sections = append(sections, RenderCommentList(view.Comments))
	}

	if len(activity) > 0 {
		sections = append(sections, RenderActivity(activity))
	}

	return strings.Join(sections, "\n\n")
}

func renderHeader(issue *model.Issue) string {
	idStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	titleStyle := lipgloss.NewStyle().Bold(true)
	typeStyle := lipgloss.NewStyle().Foreground(ColorFromName(issue.Type.Color())).Bold(true)
	stateStyle := lipgloss.NewStyle().Foreground(ColorFromName(issue.State.Color())).Bold(true)

	header := fmt.Sprintf("%s  %s\n%s  %s",
		idStyle.Render(model.FormatID(issue.ID)),
		titleStyle.Render(issue.Title),
		stateStyle.Render(stateLabel(issue)),
		typeStyle.Render(string(issue.Type)),
	)
	if issue.IsDeleted() {
		header += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("deleted")
	}
	return header
}

func renderMetadata(view *model.IssueView) string {
	issue := view.Issue
	labelStyle := dimStyle

	var lines []string
	if len(view.Labels) > 0 {
		names := make([]string, 0, len(view.Labels))
		for _, l := range view.Labels {
			names = append(names, lipgloss.NewStyle().Foreground(labelColor(l)).Render(l.Name))
		}
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Labels:"), strings.Join(names, ", ")))
	}

	lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Created:"), humanize.Time(issue.CreatedAt)))
	lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Updated:"), humanize.Time(issue.UpdatedAt)))
	if issue.ClosedAt != nil {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Closed:"), humanize.Time(*issue.ClosedAt)))
	}
	if issue.DeletedAt != nil {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Deleted:"), humanize.Time(*issue.DeletedAt)))
	}

	return strings.Join(lines, "\n")
}

// RenderLinks renders the issues linked to issue as a tree rooted at it.
func RenderLinks(issue *model.Issue, linked []model.IssueRef) string {
	if !ColorsEnabled() {
		var b strings.Builder
		b.WriteString("Linked issues\n")
		for _, ref := range linked {
			fmt.Fprintf(&b, "  <-> %s\n", refLine(ref))
		}
		return strings.TrimRight(b.String(), "\n")
	}

	t := tree.New().Root(sectionStyle.Render("Linked issues"))
	for _, ref := range linked {
		style := lipgloss.NewStyle().Foreground(ColorFromName(ref.State.Color()))
		if ref.Deleted {
			style = dimStyle.Strikethrough(true)
		}
		t.Child(style.Render(refLine(ref)))
	}
	return t.String()
}

func refLine(ref model.IssueRef) string {
	line := fmt.Sprintf("%s %s (%s)", model.FormatID(ref.ID), truncate(ref.Title, maxTitleWidth), ref.State)
	if ref.Deleted {
		line += " [deleted]"
	}
	return line
}

// RenderCommentList renders comments oldest first with their ids so they
// can be edited or deleted.
func RenderCommentList(comments []*model.Comment) string {
	if !ColorsEnabled() {
		var b strings.Builder
		b.WriteString("Comments\n")
		for _, c := range comments {
			fmt.Fprintf(&b, "  %s  %s\n  %s\n\n", commentHeading(c), humanize.Time(c.CreatedAt), c.Body)
		}
		return strings.TrimRight(b.String(), "\n")
	}

	idStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	var parts []string
	for _, c := range comments {
		body, err := RenderMarkdown(c.Body)
		if err != nil {
			body = c.Body
		}
		heading := fmt.Sprintf("%s  %s",
			idStyle.Render(commentHeading(c)),
			dimStyle.Render(humanize.Time(c.CreatedAt)),
		)
		parts = append(parts, heading+"\n"+body)
	}

	return sectionStyle.Render("Comments") + "\n" + strings.Join(parts, "\n\n")
}

func commentHeading(c *model.Comment) string {
	if c.Edited() {
		return fmt.Sprintf("comment %s (edited)", model.FormatID(c.ID))
	}
	return "comment " + model.FormatID(c.ID)
}

// activityIcon returns a semantic icon for an activity entry.
func activityIcon(a model.Activity) string {
	switch a.Field {
	case "created":
		return "\u2728" // ✨
	case "state":
		if strings.HasPrefix(a.NewValue, string(model.StateClosed)) {
			return "\u2714" // ✔
		}
		return "\u25cb" // ○
	case "link":
		return "\u2194" // ↔
	case "deleted":
		return "\u2717" // ✗
	default:
		return "\u270e" // ✎
	}
}

func activityLine(a model.Activity) string {
	if a.Field == "created" {
		return fmt.Sprintf("%s issue created", activityIcon(a))
	}

	var detail string
	switch {
	case a.OldValue != "" && a.NewValue != "":
		detail = fmt.Sprintf("%s -> %s", truncate(a.OldValue, maxTitleWidth), truncate(a.NewValue, maxTitleWidth))
	case a.NewValue != "":
		detail = "added " + truncate(a.NewValue, maxTitleWidth)
	case a.OldValue != "":
		detail = "removed " + truncate(a.OldValue, maxTitleWidth)
	}
	return fmt.Sprintf("%s %s: %s", activityIcon(a), a.Field, detail)
}

// RenderActivity renders activity entries in the order given.
func RenderActivity(activity []model.Activity) string {
	var lines []string
	for _, a := range activity {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			activityLine(a),
			StyledText(humanize.Time(a.CreatedAt), dimStyle),
		))
	}
	return StyledText("Activity", sectionStyle) + "\n" + strings.Join(lines, "\n")
}

// renderPlainDetail renders a detail view without any color or styling.
func renderPlainDetail(view *model.IssueView, activity []model.Activity) string {
	issue := view.Issue
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", model.FormatID(issue.ID), issue.Title)
	fmt.Fprintf(&b, "%s  %s", stateLabel(issue), issue.Type)
	if issue.IsDeleted() {
		b.WriteString("  deleted")
	}
	b.WriteString("\n\n")

	if len(view.Labels) > 0 {
		names := make([]string, 0, len(view.Labels))
		for _, l := range view.Labels {
			names = append(names, l.Name)
		}
		fmt.Fprintf(&b, "Labels: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "Created: %s\n", humanize.Time(issue.CreatedAt))
	fmt.Fprintf(&b, "Updated: %s\n", humanize.Time(issue.UpdatedAt))
	if issue.ClosedAt != nil {
		fmt.Fprintf(&b, "Closed: %s\n", humanize.Time(*issue.ClosedAt))
	}
	if issue.DeletedAt != nil {
		fmt.Fprintf(&b, "Deleted: %s\n", humanize.Time(*issue.DeletedAt))
	}

	if issue.Body != "" {
		fmt.Fprintf(&b, "\nDescription\n%s\n", issue.Body)
	}
	if len(view.Linked) > 0 {
		fmt.Fprintf(&b, "\n%s\n", RenderLinks(issue, view.Linked))
	}
	if len(view.Comments) > 0 {
		fmt.Fprintf(&b, "\n%s\n", RenderCommentList(view.Comments))
	}
	if len(activity) > 0 {
		fmt.Fprintf(&b, "\n%s\n", RenderActivity(activity))
	}

	return b.String()
}
