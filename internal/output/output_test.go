package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/ALT-F4-LLC/skis/internal/config"
	"github.com/ALT-F4-LLC/skis/internal/db"
	"github.com/ALT-F4-LLC/skis/internal/model"
)

func newTestWriter(jsonMode, quiet bool) (*Writer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewTo(&stdout, &stderr, jsonMode, quiet), &stdout, &stderr
}

func TestSuccessJSONEnvelope(t *testing.T) {
	w, stdout, stderr := newTestWriter(true, false)
	w.Success(map[string]int{"id": 7}, "Created issue #7")

	var env struct {
		OK      bool           `json:"ok"`
		Data    map[string]int `json:"data"`
		Message string         `json:"message"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !env.OK || env.Data["id"] != 7 || env.Message != "Created issue #7" {
		t.Errorf("envelope = %+v", env)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
}

func TestSuccessJSONOmitsEmptyMessage(t *testing.T) {
	w, stdout, _ := newTestWriter(true, false)
	w.Success([]int{}, "")

	var raw map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["message"]; ok {
		t.Error("message present, want omitted")
	}
	if _, ok := raw["data"]; !ok {
		t.Error("data missing")
	}
}

func TestSuccessHuman(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"single line", "Closed issue #3", "Closed issue #3\n"},
		{"table keeps layout", "ID  TITLE\n#1  first\n\n", "ID  TITLE\n#1  first\n"},
		{"empty prints nothing", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter(false, false)
			w.Success(nil, tt.message)
			if stdout.String() != tt.want {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestRawIsIndentedWithoutEnvelope(t *testing.T) {
	w, stdout, _ := newTestWriter(false, false)
	if err := w.Raw(map[string]string{"title": "a <b>"}); err != nil {
		t.Fatalf("Raw: %v", err)
	}
	want := "{\n  \"title\": \"a <b>\"\n}\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestErrorJSONEnvelope(t *testing.T) {
	w, stdout, stderr := newTestWriter(true, false)

	err := fmt.Errorf("creating issue: %w", &db.NotFoundError{Entity: db.EntityLabel, Key: "bug"})
	if code := w.Error(err, ""); code != ExitNotFound {
		t.Errorf("exit code = %d, want %d", code, ExitNotFound)
	}

	var env errorEnvelope
	if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.OK {
		t.Error("ok = true, want false")
	}
	if env.Code != ErrNotFound || env.ExitCode != ExitNotFound {
		t.Errorf("code = %q exit_code = %d", env.Code, env.ExitCode)
	}
	if env.Hint != `create it with: skis label create "bug"` {
		t.Errorf("hint = %q", env.Hint)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
}

func TestErrorExplicitCodeWins(t *testing.T) {
	w, stdout, _ := newTestWriter(true, false)

	if code := w.Error(errors.New("bad flag"), ErrValidation); code != ExitValidation {
		t.Errorf("exit code = %d, want %d", code, ExitValidation)
	}
	var env errorEnvelope
	if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Code != ErrValidation {
		t.Errorf("code = %q, want %q", env.Code, ErrValidation)
	}
}

func TestErrorHuman(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name string
		err  error
		exit int
		want string
	}{
		{
			name: "plain",
			err:  errors.New("fail"),
			exit: ExitGeneral,
			want: "Error: fail\n",
		},
		{
			name: "with hint",
			err:  &config.NotARepositoryError{Start: "/tmp/x"},
			exit: ExitNotFound,
			want: "Error: not a skis repository (or any parent up to /): /tmp/x\nhint: run 'skis init' to create one\n",
		},
		{
			name: "store busy",
			err:  &db.UnavailableError{Op: "create issue", Err: errors.New("database is locked")},
			exit: ExitUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, stderr := newTestWriter(false, false)
			if code := w.Error(tt.err, ""); code != tt.exit {
				t.Errorf("exit code = %d, want %d", code, tt.exit)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}
			if tt.want != "" && stderr.String() != tt.want {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.want)
			}
		})
	}
}

func TestNoticeModes(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name  string
		json  bool
		quiet bool
		emit  func(w *Writer)
		want  string
	}{
		{"info", false, false, func(w *Writer) { w.Info("hello %s", "world") }, "hello world\n"},
		{"info quiet", false, true, func(w *Writer) { w.Info("x") }, ""},
		{"info json", true, false, func(w *Writer) { w.Info("x") }, ""},
		{"hint", false, false, func(w *Writer) { w.Hint("restore it with: skis restore %d", 4) }, "hint: restore it with: skis restore 4\n"},
		{"hint quiet", false, true, func(w *Writer) { w.Hint("x") }, ""},
		{"warn quiet", false, true, func(w *Writer) { w.Warn("careful") }, "Warning: careful\n"},
		{"warn json", true, false, func(w *Writer) { w.Warn("careful") }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, stderr := newTestWriter(tt.json, tt.quiet)
			tt.emit(w)
			if stderr.String() != tt.want {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.want)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"issue not found", &db.NotFoundError{Entity: db.EntityIssue, Key: "3"}, ErrNotFound},
		{"not a repository", &config.NotARepositoryError{Start: "/tmp"}, ErrNotFound},
		{"bad enum", &model.ParseError{Kind: "type", Value: "story"}, ErrValidation},
		{"bad color", &model.ColorError{Value: "red"}, ErrValidation},
		{"self link", model.ErrSelfLink, ErrValidation},
		{"empty title", fmt.Errorf("%w: title must not be empty", db.ErrInvalidInput), ErrValidation},
		{"closed twice", &db.TransitionError{ID: 1, State: "closed"}, ErrConflict},
		{"duplicate label", &db.DuplicateLabelError{Name: "bug"}, ErrConflict},
		{"duplicate link", &db.DuplicateLinkError{Low: 1, High: 2}, ErrConflict},
		{"already initialized", &config.AlreadyInitializedError{Path: "/x/.skis"}, ErrConflict},
		{"busy", &db.UnavailableError{Err: errors.New("locked")}, ErrUnavailable},
		{"other", errors.New("disk on fire"), ErrGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&config.NotARepositoryError{Start: "/tmp"}, "run 'skis init' to create one"},
		{&db.NotFoundError{Entity: db.EntityLabel, Key: "ui"}, `create it with: skis label create "ui"`},
		{&db.NotFoundError{Entity: db.EntityLabel, Key: "needs review"}, `create it with: skis label create "needs review"`},
		{&db.NotFoundError{Entity: db.EntityIssue, Key: "3"}, ""},
		{errors.New("other"), ""},
	}
	for _, tt := range tests {
		if got := Hint(tt.err); got != tt.want {
			t.Errorf("Hint(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrGeneral, ExitGeneral},
		{ErrNotFound, ExitNotFound},
		{ErrValidation, ExitValidation},
		{ErrConflict, ExitConflict},
		{ErrUnavailable, ExitUnavailable},
		{ErrorCode("unknown"), ExitGeneral},
	}

	for _, tt := range tests {
		if got := ExitCodeForError(tt.code); got != tt.want {
			t.Errorf("ExitCodeForError(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
