package output

import (
	"encoding/json"
	"io"
)

type successEnvelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type errorEnvelope struct {
	OK       bool      `json:"ok"`
	Error    string    `json:"error"`
	Code     ErrorCode `json:"code"`
	ExitCode int       `json:"exit_code"`
	Hint     string    `json:"hint,omitempty"`
}

func writeEnvelope(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	// A failed write to stdout has nowhere left to be reported.
	_ = enc.Encode(v)
}

func writeJSONSuccess(w io.Writer, data any, message string) {
	writeEnvelope(w, successEnvelope{OK: true, Data: data, Message: message})
}

func writeJSONError(w io.Writer, env errorEnvelope) {
	env.OK = false
	writeEnvelope(w, env)
}
