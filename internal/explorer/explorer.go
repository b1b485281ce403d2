package explorer

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/events"
	"github.com/isaacphi/mapsxplr/internal/llm"
	"github.com/isaacphi/mapsxplr/internal/stream"
)

// ContentStreamer opens a streamed chat completion.
type ContentStreamer interface {
	GenerateContentStream(ctx context.Context, prompt string) *llm.LLMStream
}

// PlaceRenderer shows a place to the user.
type PlaceRenderer interface {
	Render(ctx context.Context, place domain.Place) domain.Recommendation
}

// RecommendationEvent is sent for every recommendPlace call once it has
// been rendered.
type RecommendationEvent struct {
	Index          int
	ToolCallID     string
	Recommendation domain.Recommendation
}

func (e RecommendationEvent) Type() events.EventType {
	return events.EventTypeRecommendation
}

// Explorer asks for recommendations and hands the places to a renderer.
type Explorer struct {
	llm      ContentStreamer
	renderer PlaceRenderer
	validate *validator.Validate
	logger   *slog.Logger
}

func New(l ContentStreamer, r PlaceRenderer, logger *slog.Logger) *Explorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Explorer{
		llm:      l,
		renderer: r,
		validate: validator.New(),
		logger:   logger,
	}
}

// Stream forwards the events of one request. When the response completes,
// each recommendPlace call is rendered and reported as a RecommendationEvent
// before the final llm.MessageCompleteEvent. A failed request ends with a
// single events.ErrorEvent and renders nothing.
func (e *Explorer) Stream(ctx context.Context, prompt string) *llm.LLMStream {
	out := make(chan events.Event)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(out)

		upstream := e.llm.GenerateContentStream(ctx, prompt)
		for ev := range upstream.Events {
			complete, ok := ev.(llm.MessageCompleteEvent)
			if !ok {
				if !send(ctx, out, ev) {
					break
				}
				continue
			}
			for _, rec := range e.dispatch(ctx, complete.ToolCalls) {
				if !send(ctx, out, rec) {
					break
				}
			}
			send(ctx, out, complete)
		}
		<-upstream.Done
	}()

	return &llm.LLMStream{Events: out, Done: done}
}

func (e *Explorer) dispatch(ctx context.Context, calls []stream.CompletedCall) []RecommendationEvent {
	var recs []RecommendationEvent
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			e.logger.Debug("dropping tool calls of abandoned request", "index", call.Index, "error", err)
			break
		}
		if call.Name != domain.RecommendPlaceTool {
			e.logger.Debug("ignoring tool call", "name", call.Name, "index", call.Index)
			continue
		}

		var place domain.Place
		if err := call.Decode(&place); err != nil {
			e.logger.Warn("failed to parse function arguments", "index", call.Index, "error", err)
			continue
		}
		if err := e.validate.Struct(place); err != nil {
			e.logger.Warn("invalid place", "index", call.Index, "error", err)
			continue
		}

		recs = append(recs, RecommendationEvent{
			Index:          call.Index,
			ToolCallID:     call.ID,
			Recommendation: e.renderer.Render(ctx, place),
		})
	}
	return recs
}

func send(ctx context.Context, out chan<- events.Event, ev events.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Result is the outcome of a completed request.
type Result struct {
	Content         string
	Recommendations []domain.Recommendation
	// Dropped reports calls whose arguments were not valid JSON.
	Dropped error
}

// Recommend runs prompt to completion. onText, if set, receives prose as it
// streams.
func (e *Explorer) Recommend(ctx context.Context, prompt string, onText func(string)) (Result, error) {
	var res Result
	var failed error

	s := e.Stream(ctx, prompt)
	for ev := range s.Events {
		switch ev := ev.(type) {
		case llm.TextEvent:
			if onText != nil {
				onText(ev.Content)
			}
		case RecommendationEvent:
			res.Recommendations = append(res.Recommendations, ev.Recommendation)
		case llm.MessageCompleteEvent:
			res.Content = ev.Content
			res.Dropped = ev.Dropped
		case events.ErrorEvent:
			failed = ev.Error
		}
	}
	<-s.Done

	if failed != nil {
		return Result{}, failed
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return res, nil
}
