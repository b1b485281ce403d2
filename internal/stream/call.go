package stream

import (
	"encoding/json"
	"fmt"
)

// Fragment is one incremental piece of a tool call as delivered in a single
// event line.
type Fragment struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// PendingCall accumulates the fragments that share a call index.
type PendingCall struct {
	ID            string
	Name          string
	ArgumentsText string
}

func (p *PendingCall) apply(f Fragment) {
	// Names and ids arrive whole; arguments arrive as a character stream.
	if f.Name != "" {
		p.Name = f.Name
	}
	if f.ID != "" {
		p.ID = f.ID
	}
	p.ArgumentsText += f.Arguments
}

// CompletedCall is a fully assembled tool invocation whose arguments parsed as
// JSON.
type CompletedCall struct {
	Index     int             `json:"index"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Arguments any             `json:"-"`
	Raw       json.RawMessage `json:"arguments"`
}

// Decode unmarshals the call arguments into v.
func (c CompletedCall) Decode(v any) error {
	if err := json.Unmarshal(c.Raw, v); err != nil {
		return fmt.Errorf("failed to decode arguments of %s: %w", c.Name, err)
	}
	return nil
}

// ArgumentsError reports a call dropped at finalization because its
// accumulated arguments were not valid JSON.
type ArgumentsError struct {
	Index int
	Name  string
	Text  string
	Err   error
}

func (e *ArgumentsError) Error() string {
	return fmt.Sprintf("tool call %d (%s): invalid arguments: %v", e.Index, e.Name, e.Err)
}

func (e *ArgumentsError) Unwrap() error {
	return e.Err
}
