package render

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const (
	defaultTermWidth = 100
	maxWrapWidth     = 120
)

// ColorsEnabled reports whether output may carry ANSI styling. NO_COLOR
// (any value) and TERM=dumb turn it off.
func ColorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

func wrapWidth() int {
	return min(terminalWidth()-4, maxWrapWidth)
}

var (
	renderersMu sync.Mutex
	renderers   = map[int]*glamour.TermRenderer{}
)

// markdownRenderer returns a renderer wrapping at width, built once per
// width. A detail view renders the body and every comment with it.
func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	renderersMu.Lock()
	defer renderersMu.Unlock()

	if r, ok := renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers[width] = r
	return r, nil
}

// RenderMarkdown renders an issue or comment body for the terminal. With
// colors disabled the body is returned as written.
func RenderMarkdown(content string) (string, error) {
	if content == "" || !ColorsEnabled() {
		return content, nil
	}

	r, err := markdownRenderer(wrapWidth())
	if err != nil {
		return content, err
	}

	renderersMu.Lock()
	rendered, err := r.Render(content)
	renderersMu.Unlock()
	if err != nil {
		return content, err
	}
	return strings.TrimSpace(rendered), nil
}
