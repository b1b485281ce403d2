package events

// EventType defines the type of streaming event
type EventType int

const (
	EventTypeText EventType = iota
	EventTypeToolCallStart
	EventTypeToolArgumentChunk
	EventTypeMessageComplete
	EventTypeRecommendation
	EventTypeError
)

func (t EventType) String() string {
	switch t {
	case EventTypeText:
		return "text"
	case EventTypeToolCallStart:
		return "tool_call_start"
	case EventTypeToolArgumentChunk:
		return "tool_argument_chunk"
	case EventTypeMessageComplete:
		return "message_complete"
	case EventTypeRecommendation:
		return "recommendation"
	case EventTypeError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is the interface for all streaming events
type Event interface {
	Type() EventType
}

// ErrorEvent represents an error during processing
type ErrorEvent struct {
	Error error
}

func (e ErrorEvent) Type() EventType {
	return EventTypeError
}
