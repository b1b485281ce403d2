package llm

import (
	"github.com/isaacphi/mapsxplr/internal/events"
	"github.com/isaacphi/mapsxplr/internal/stream"
)

// TextEvent represents a chunk of prose from the LLM
type TextEvent struct {
	Content string
}

func (e TextEvent) Type() events.EventType {
	return events.EventTypeText
}

// ToolCallStartEvent is sent once per call index, when its name is known
type ToolCallStartEvent struct {
	Index        int
	ToolCallID   string
	FunctionName string
}

func (e ToolCallStartEvent) Type() events.EventType {
	return events.EventTypeToolCallStart
}

// ToolArgumentChunkEvent carries newly decoded text of a string argument
type ToolArgumentChunkEvent struct {
	Index        int
	ToolCallID   string
	Name         string
	ArgumentName string
	Chunk        string
}

func (e ToolArgumentChunkEvent) Type() events.EventType {
	return events.EventTypeToolArgumentChunk
}

// LLMStream represents an ongoing LLM response stream
type LLMStream struct {
	Events <-chan events.Event
	Done   <-chan struct{}
}

// MessageCompleteEvent is sent after the response body has been fully read
type MessageCompleteEvent struct {
	Content   string
	ToolCalls []stream.CompletedCall
	// Dropped joins an *stream.ArgumentsError for every call whose arguments
	// were not valid JSON.
	Dropped error
	// Skipped counts event payloads that were not valid JSON.
	Skipped int
}

func (e MessageCompleteEvent) Type() events.EventType {
	return events.EventTypeMessageComplete
}
