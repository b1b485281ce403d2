package llm

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/isaacphi/mapsxplr/internal/events"
	"github.com/isaacphi/mapsxplr/internal/stream"
	"github.com/pkg/errors"
)

// GenerateContentStream sends prompt and streams the response as events.
// The stream ends with exactly one MessageCompleteEvent, or with a single
// events.ErrorEvent when the request or the read fails. Cancelling ctx
// abandons the request.
func (c *Client) GenerateContentStream(ctx context.Context, prompt string) *LLMStream {
	out := make(chan events.Event)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(out)

		// Events are delivered until the caller cancels; the timeout only
		// aborts the request.
		reqCtx := ctx
		if c.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
			defer cancel()
		}

		logger := c.logger.With("request", uuid.NewString())
		logger.Debug("sending chat completion request", "model", c.cfg.Model)

		resp, err := c.open(reqCtx, prompt)
		if err != nil {
			logger.Error("request failed", "error", err)
			send(ctx, out, events.ErrorEvent{Error: err})
			return
		}
		defer resp.Body.Close()

		p := newPump(ctx, out, logger)
		complete, err := p.run(resp.Body, c.chunkSize)
		if err != nil {
			logger.Error("reading response stream failed", "error", err)
			send(ctx, out, events.ErrorEvent{Error: err})
			return
		}
		logger.Debug("response complete", "toolCalls", len(complete.ToolCalls), "skipped", complete.Skipped)
		send(ctx, out, complete)
	}()

	return &LLMStream{Events: out, Done: done}
}

func send(ctx context.Context, out chan<- events.Event, ev events.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// pump feeds one response body through a Decoder and an Aggregator and
// forwards prose and argument previews as they arrive.
type pump struct {
	ctx    context.Context
	out    chan<- events.Event
	logger *slog.Logger

	starts map[int]bool
	ids    map[int]string
	names  map[int]string
	args   map[int]*ToolCallArgumentParser
}

func newPump(ctx context.Context, out chan<- events.Event, logger *slog.Logger) *pump {
	return &pump{
		ctx:    ctx,
		out:    out,
		logger: logger,
		starts: make(map[int]bool),
		ids:    make(map[int]string),
		names:  make(map[int]string),
		args:   make(map[int]*ToolCallArgumentParser),
	}
}

func (p *pump) run(body io.Reader, chunkSize int) (MessageCompleteEvent, error) {
	dec := stream.NewDecoder()
	agg := stream.NewAggregator(stream.WithLogger(p.logger), stream.WithListener(p))

	buf := make([]byte, chunkSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, frame := range dec.Feed(buf[:n]) {
				agg.Observe(frame)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return MessageCompleteEvent{}, errors.Wrap(err, "failed to read response stream")
		}
	}
	if rest, ok := dec.Flush(); ok {
		agg.Observe(rest)
	}

	calls, dropped := agg.Finalize()
	if dropped != nil {
		p.logger.Warn("dropped tool calls with invalid arguments", "error", dropped)
	}
	return MessageCompleteEvent{
		Content:   agg.Content(),
		ToolCalls: calls,
		Dropped:   dropped,
		Skipped:   agg.Skipped(),
	}, nil
}

func (p *pump) OnContent(text string) {
	send(p.ctx, p.out, TextEvent{Content: text})
}

func (p *pump) OnFragment(f stream.Fragment) {
	if f.ID != "" {
		p.ids[f.Index] = f.ID
	}
	if f.Name != "" {
		p.names[f.Index] = f.Name
	}
	if !p.starts[f.Index] && p.names[f.Index] != "" {
		p.starts[f.Index] = true
		send(p.ctx, p.out, ToolCallStartEvent{Index: f.Index, ToolCallID: p.ids[f.Index], FunctionName: p.names[f.Index]})
	}
	if f.Arguments == "" {
		return
	}

	parser, ok := p.args[f.Index]
	if !ok {
		parser = NewToolCallArgumentParser()
		p.args[f.Index] = parser
	}
	for _, chunk := range parser.AddChunk(f.Arguments) {
		send(p.ctx, p.out, ToolArgumentChunkEvent{
			Index:        f.Index,
			ToolCallID:   p.ids[f.Index],
			Name:         p.names[f.Index],
			ArgumentName: chunk.ArgumentName,
			Chunk:        chunk.Chunk,
		})
	}
}
