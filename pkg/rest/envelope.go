package rest

import (
	"bytes"
	"encoding/json"

	"github.com/systemstart/skillet-runner/pkg/extract"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	defaultMessage = "A-OK"
)

// State is the outcome of a sequence run.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateAborted   State = "aborted"
)

// SnippetResult is the raw response text and captured outputs of one
// snippet. For the snippet that aborted a sequence, Results holds the error
// response or transport error text.
type SnippetResult struct {
	Results string          `json:"results"`
	Outputs extract.Outputs `json:"outputs"`
}

// Envelope is the result of one sequence execution. Snippets are kept in
// execution order.
type Envelope struct {
	Status   string
	Message  string
	Snippets map[string]*SnippetResult
	Order    []string

	State State
	// AbortedAt is the index of the snippet that stopped the sequence,
	// or -1.
	AbortedAt int
}

func newEnvelope() *Envelope {
	return &Envelope{
		Status:    StatusSuccess,
		Message:   defaultMessage,
		Snippets:  make(map[string]*SnippetResult),
		State:     StateRunning,
		AbortedAt: -1,
	}
}

func (e *Envelope) record(name, results string, outputs extract.Outputs) {
	if outputs == nil {
		outputs = extract.Outputs{}
	}
	if _, seen := e.Snippets[name]; !seen {
		e.Order = append(e.Order, name)
	}
	e.Snippets[name] = &SnippetResult{Results: results, Outputs: outputs}
}

func (e *Envelope) abort(index int, name, results, message string) {
	e.record(name, results, nil)
	e.Status = StatusError
	e.Message = message
	e.State = StateAborted
	e.AbortedAt = index
}

// fail marks an error that happened outside any snippet.
func (e *Envelope) fail(message string) {
	e.Status = StatusError
	e.Message = message
	e.State = StateAborted
}

func (e *Envelope) complete() {
	e.State = StateCompleted
}

// MarshalJSON encodes {status, message, snippets} with snippets in
// execution order.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"status":`)
	if err := writeJSON(&buf, e.Status); err != nil {
		return nil, err
	}
	buf.WriteString(`,"message":`)
	if err := writeJSON(&buf, e.Message); err != nil {
		return nil, err
	}
	buf.WriteString(`,"snippets":{`)
	for i, name := range e.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, e.Snippets[name]); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
