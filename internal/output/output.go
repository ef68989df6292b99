// Package output writes command results either as JSON envelopes or as
// human-readable text, and maps tracker errors to codes and exit statuses.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Writer sends command output to Stdout and diagnostics to Stderr.
// JSONMode makes Stdout carry exactly one envelope per command.
type Writer struct {
	JSONMode  bool
	QuietMode bool
	Stdout    io.Writer
	Stderr    io.Writer
}

// New returns a Writer on the process streams.
func New(jsonMode, quietMode bool) *Writer {
	return NewTo(os.Stdout, os.Stderr, jsonMode, quietMode)
}

// NewTo returns a Writer on the given streams.
func NewTo(stdout, stderr io.Writer, jsonMode, quietMode bool) *Writer {
	return &Writer{
		JSONMode:  jsonMode,
		QuietMode: quietMode,
		Stdout:    stdout,
		Stderr:    stderr,
	}
}

// Success reports a result: data inside a success envelope in JSON mode,
// message otherwise.
func (w *Writer) Success(data any, message string) {
	if w.JSONMode {
		writeJSONSuccess(w.Stdout, data, message)
		return
	}
	writeHumanSuccess(w.Stdout, message)
}

// Raw writes v to Stdout as indented JSON with no envelope, for output
// meant to be saved and read back, such as an export.
func (w *Writer) Raw(v any) error {
	enc := json.NewEncoder(w.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// Error reports err and returns the exit status for it. An empty code is
// derived from err with Classify. Human output goes to Stderr, followed by
// a hint line when Hint has one.
func (w *Writer) Error(err error, code ErrorCode) int {
	if code == "" {
		code = Classify(err)
	}
	exit := ExitCodeForError(code)
	hint := Hint(err)

	if w.JSONMode {
		writeJSONError(w.Stdout, errorEnvelope{
			Error:    err.Error(),
			Code:     code,
			ExitCode: exit,
			Hint:     hint,
		})
		return exit
	}
	writeNotice(w.Stderr, toneError, err.Error())
	if hint != "" {
		writeNotice(w.Stderr, toneHint, hint)
	}
	return exit
}

// Info writes a side note to Stderr. Silent in quiet and JSON modes.
func (w *Writer) Info(format string, args ...any) {
	if w.QuietMode || w.JSONMode {
		return
	}
	writeNotice(w.Stderr, toneInfo, fmt.Sprintf(format, args...))
}

// Hint suggests a follow-up command on Stderr. Silent in quiet and JSON
// modes.
func (w *Writer) Hint(format string, args ...any) {
	if w.QuietMode || w.JSONMode {
		return
	}
	writeNotice(w.Stderr, toneHint, fmt.Sprintf(format, args...))
}

// Warn writes a warning to Stderr. Quiet mode keeps warnings; JSON mode
// drops them so Stdout stays a single envelope.
func (w *Writer) Warn(format string, args ...any) {
	if w.JSONMode {
		return
	}
	writeNotice(w.Stderr, toneWarn, fmt.Sprintf(format, args...))
}
