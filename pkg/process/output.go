package process

import (
	"encoding/json"
	"strings"
)

// Envelope is the result of one process invocation. A non-zero ReturnCode
// is a result, not an error.
type Envelope struct {
	ReturnCode int    `json:"returncode"`
	Out        string `json:"out"`
	Err        string `json:"err"`
}

// JSON returns the envelope encoded as {"returncode", "out", "err"}.
func (e *Envelope) JSON() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// OutputHolder accumulates the output of a single invocation. It is owned
// by the goroutine driving that invocation and is not safe for concurrent
// use.
type OutputHolder struct {
	b strings.Builder
}

// Add appends a chunk of output.
func (h *OutputHolder) Add(s string) {
	h.b.WriteString(s)
}

// String returns everything added so far.
func (h *OutputHolder) String() string {
	return h.b.String()
}

// ProgressSink receives the accumulated output after every line a streaming
// invocation produces.
type ProgressSink interface {
	Progress(state string)
}

// SinkFunc adapts a function to a ProgressSink.
type SinkFunc func(state string)

func (f SinkFunc) Progress(state string) { f(state) }

// Discard is a ProgressSink that drops every update.
var Discard ProgressSink = SinkFunc(func(string) {})
