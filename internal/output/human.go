package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ALT-F4-LLC/skis/internal/render"
)

// tone is the prefix and color of a one-line human message.
type tone struct {
	icon   string
	label  string // plain-text prefix, also shown without colors
	color  lipgloss.Color
	bold   bool
	italic bool
}

var (
	toneSuccess = tone{icon: "\u2714", color: "2"}
	toneError   = tone{icon: "\u2718", label: "Error:", color: "1", bold: true}
	toneWarn    = tone{icon: "\u26a0", label: "Warning:", color: "3", bold: true}
	toneInfo    = tone{icon: "\u2139", color: "8"}
	toneHint    = tone{label: "hint:", color: "8", italic: true}
)

// writeNotice writes msg on one line in tone t.
func writeNotice(w io.Writer, t tone, msg string) {
	if !render.ColorsEnabled() {
		if t.label != "" {
			msg = t.label + " " + msg
		}
		fmt.Fprintln(w, msg)
		return
	}

	style := lipgloss.NewStyle().Foreground(t.color).Bold(t.bold).Italic(t.italic)
	var parts []string
	if t.icon != "" {
		parts = append(parts, style.Render(t.icon))
	}
	if t.label != "" {
		parts = append(parts, style.Render(t.label))
	}
	if t == toneInfo || t == toneHint {
		msg = style.Render(msg)
	}
	fmt.Fprintln(w, strings.Join(append(parts, msg), " "))
}

// writeHumanSuccess prints message. Single lines get a check mark; tables
// and detail views are printed untouched.
func writeHumanSuccess(w io.Writer, message string) {
	if message == "" {
		return
	}
	if strings.Contains(message, "\n") {
		fmt.Fprintln(w, strings.TrimRight(message, "\n"))
		return
	}
	writeNotice(w, toneSuccess, message)
}
