package stream

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

const (
	// EventPrefix marks a payload-bearing line of the event stream.
	EventPrefix = "data: "
	// DoneSentinel is the payload that ends the service's event stream.
	DoneSentinel = "[DONE]"
)

// Listener observes fragments and prose as the Aggregator consumes them.
type Listener interface {
	OnContent(text string)
	OnFragment(f Fragment)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used to report skipped payloads.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithListener registers a listener for incremental updates.
func WithListener(l Listener) Option {
	return func(a *Aggregator) {
		a.listener = l
	}
}

// Aggregator reassembles streamed tool calls from decoded frames. It belongs
// to a single response and is not safe for concurrent use.
type Aggregator struct {
	logger   *slog.Logger
	listener Listener

	calls   map[int]*PendingCall
	content strings.Builder

	halted  bool
	drained bool
	skipped int
	ignored int
}

// NewAggregator creates an empty aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		logger: slog.Default(),
		calls:  make(map[int]*PendingCall),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Observe consumes one decoded frame. Frames that are not event lines are
// ignored; malformed payloads are logged and skipped.
func (a *Aggregator) Observe(frame string) {
	if a.drained {
		return
	}
	if !strings.HasPrefix(frame, EventPrefix) {
		return
	}
	if a.halted {
		a.ignored++
		return
	}

	payload := strings.TrimSpace(frame[len(EventPrefix):])
	if payload == DoneSentinel {
		a.halted = true
		return
	}
	if !gjson.Valid(payload) {
		a.skipped++
		a.logger.Warn("skipping malformed stream payload", "payload", truncate(payload, 120))
		return
	}

	delta := gjson.Get(payload, "choices.0.delta")
	if content := delta.Get("content"); content.Type == gjson.String && content.Str != "" {
		a.content.WriteString(content.Str)
		if a.listener != nil {
			a.listener.OnContent(content.Str)
		}
	}

	delta.Get("tool_calls").ForEach(func(_, raw gjson.Result) bool {
		f, ok := parseFragment(raw)
		if !ok {
			a.logger.Warn("skipping tool call fragment without index", "fragment", truncate(raw.Raw, 120))
			return true
		}
		a.apply(f)
		return true
	})
}

func (a *Aggregator) apply(f Fragment) {
	call, ok := a.calls[f.Index]
	if !ok {
		call = &PendingCall{}
		a.calls[f.Index] = call
	}
	call.apply(f)
	if a.listener != nil {
		a.listener.OnFragment(f)
	}
}

func parseFragment(raw gjson.Result) (Fragment, bool) {
	idx := raw.Get("index")
	if idx.Type != gjson.Number || idx.Num != math.Trunc(idx.Num) {
		return Fragment{}, false
	}
	f := Fragment{Index: int(idx.Int())}
	if id := raw.Get("id"); id.Type == gjson.String {
		f.ID = id.Str
	}
	if name := raw.Get("function.name"); name.Type == gjson.String {
		f.Name = name.Str
	}
	if args := raw.Get("function.arguments"); args.Type == gjson.String {
		f.Arguments = args.Str
	}
	return f, true
}

// Finalize parses every pending call in ascending index order. Calls whose
// arguments are not valid JSON are omitted from the result and reported in the
// returned error as *ArgumentsError values. The pending calls are consumed: a
// second call returns nothing.
func (a *Aggregator) Finalize() ([]CompletedCall, error) {
	if a.drained {
		return nil, nil
	}
	a.drained = true
	if a.ignored > 0 {
		a.logger.Debug("frames ignored after stream sentinel", "count", a.ignored)
	}

	indices := lo.Keys(a.calls)
	slices.Sort(indices)

	completed := make([]CompletedCall, 0, len(indices))
	var errs []error
	for _, idx := range indices {
		call := a.calls[idx]
		var args any
		if err := json.Unmarshal([]byte(call.ArgumentsText), &args); err != nil {
			errs = append(errs, &ArgumentsError{Index: idx, Name: call.Name, Text: call.ArgumentsText, Err: err})
			continue
		}
		completed = append(completed, CompletedCall{
			Index:     idx,
			ID:        call.ID,
			Name:      call.Name,
			Arguments: args,
			Raw:       json.RawMessage(call.ArgumentsText),
		})
	}
	a.calls = nil
	return completed, errors.Join(errs...)
}

// Content returns the prose streamed alongside the tool calls.
func (a *Aggregator) Content() string {
	return a.content.String()
}

// Halted reports whether the stream sentinel has been seen.
func (a *Aggregator) Halted() bool {
	return a.halted
}

// Skipped returns the number of event lines whose payload was not valid JSON.
func (a *Aggregator) Skipped() int {
	return a.skipped
}

// Pending returns a copy of the call accumulated at index, if any.
func (a *Aggregator) Pending(index int) (PendingCall, bool) {
	call, ok := a.calls[index]
	if !ok {
		return PendingCall{}, false
	}
	return *call, true
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
