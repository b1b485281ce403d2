package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/events"
	"github.com/isaacphi/mapsxplr/internal/geocode"
	"github.com/isaacphi/mapsxplr/internal/llm"
	"github.com/isaacphi/mapsxplr/internal/render"
	"github.com/isaacphi/mapsxplr/internal/stream"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type cannedStreamer struct {
	events []events.Event
	prompt string
}

func (c *cannedStreamer) GenerateContentStream(ctx context.Context, prompt string) *llm.LLMStream {
	c.prompt = prompt
	out := make(chan events.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(out)
		for _, ev := range c.events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return &llm.LLMStream{Events: out, Done: done}
}

type recordingRenderer struct {
	mu     sync.Mutex
	places []domain.Place
}

func (r *recordingRenderer) Render(_ context.Context, place domain.Place) domain.Recommendation {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.places = append(r.places, place)
	return domain.Recommendation{Place: place, Found: true}
}

func call(t *testing.T, index int, name string, args any) stream.CompletedCall {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	var parsed any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return stream.CompletedCall{Index: index, ID: "call", Name: name, Arguments: parsed, Raw: raw}
}

func TestRecommendDispatchesOnlyRecommendPlace(t *testing.T) {
	ub := domain.Place{Location: "Ulaanbaatar, Mongolia", Caption: "Remote capital with low light pollution."}
	streamer := &cannedStreamer{events: []events.Event{
		llm.TextEvent{Content: "Try "},
		llm.TextEvent{Content: "Mongolia."},
		llm.MessageCompleteEvent{
			Content: "Try Mongolia.",
			ToolCalls: []stream.CompletedCall{
				call(t, 0, "recommendPlace", ub),
				call(t, 1, "getWeather", map[string]string{"city": "Ulaanbaatar"}),
				call(t, 2, "recommendPlace", map[string]string{"location": "Nowhere"}),
				call(t, 3, "recommendPlace", []int{1, 2}),
			},
		},
	}}
	renderer := &recordingRenderer{}
	e := New(streamer, renderer, quietLogger)

	var text string
	res, err := e.Recommend(context.Background(), "Where is somewhere really cold?", func(s string) { text += s })
	require.NoError(t, err)

	assert.Equal(t, "Where is somewhere really cold?", streamer.prompt)
	assert.Equal(t, "Try Mongolia.", text)
	assert.Equal(t, "Try Mongolia.", res.Content)
	assert.Equal(t, []domain.Place{ub}, renderer.places)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, ub, res.Recommendations[0].Place)
}

func TestStreamOrdersRecommendationsBeforeCompletion(t *testing.T) {
	streamer := &cannedStreamer{events: []events.Event{
		llm.MessageCompleteEvent{ToolCalls: []stream.CompletedCall{
			call(t, 0, "recommendPlace", domain.Place{Location: "Oslo", Caption: "Cold"}),
			call(t, 1, "recommendPlace", domain.Place{Location: "Lima", Caption: "Fog"}),
		}},
	}}
	e := New(streamer, &recordingRenderer{}, quietLogger)

	var types []events.EventType
	s := e.Stream(context.Background(), "p")
	for ev := range s.Events {
		types = append(types, ev.Type())
	}
	<-s.Done

	assert.Equal(t, []events.EventType{
		events.EventTypeRecommendation,
		events.EventTypeRecommendation,
		events.EventTypeMessageComplete,
	}, types)
}

func TestRecommendTransportFailure(t *testing.T) {
	boom := errors.New("chat completion request failed with status 500")
	streamer := &cannedStreamer{events: []events.Event{
		llm.TextEvent{Content: "partial"},
		events.ErrorEvent{Error: boom},
	}}
	renderer := &recordingRenderer{}

	res, err := New(streamer, renderer, quietLogger).Recommend(context.Background(), "p", nil)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, res.Recommendations)
	assert.Empty(t, renderer.places)
	assert.Equal(t, domain.RecommendationFailedMessage, domain.UserMessage(err))
}

func TestRecommendCancelled(t *testing.T) {
	streamer := &cannedStreamer{events: []events.Event{llm.TextEvent{Content: "never read"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(streamer, &recordingRenderer{}, quietLogger).Recommend(ctx, "p", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// slowGeocoder blocks lookups of "slow" until the request is cancelled.
type slowGeocoder struct {
	entered chan struct{}
	known   map[string]domain.Geocoded
}

func (g *slowGeocoder) Lookup(ctx context.Context, query string) (domain.Geocoded, error) {
	if geocode.Normalize(query) == "slow" {
		close(g.entered)
		<-ctx.Done()
		return domain.Geocoded{}, ctx.Err()
	}
	hit, ok := g.known[geocode.Normalize(query)]
	if !ok {
		return domain.Geocoded{}, domain.ErrPlaceNotFound
	}
	return hit, nil
}

func TestSupersededRequestLeavesMapAlone(t *testing.T) {
	lisbon := domain.Geocoded{Point: orb.Point{10, 20}, DisplayName: "Lisbon"}
	geo := &slowGeocoder{entered: make(chan struct{}), known: map[string]domain.Geocoded{"cached": lisbon}}
	cached := geocode.NewCached(geo, nil, 0, quietLogger)
	_, err := cached.Lookup(context.Background(), "Cached")
	require.NoError(t, err)

	view := render.NewMapView(config.Map{CenterLat: 20, CenterLon: 0, Zoom: 2, FocusZoom: 10})
	renderer := render.NewRenderer(cached, view, nil, quietLogger)
	streamer := &cannedStreamer{events: []events.Event{
		llm.MessageCompleteEvent{ToolCalls: []stream.CompletedCall{
			call(t, 0, "recommendPlace", domain.Place{Location: "Slow", Caption: "Takes a while."}),
			call(t, 1, "recommendPlace", domain.Place{Location: "Cached", Caption: "Already known."}),
		}},
	}}

	var session Session
	defer session.Close()
	ctx, ticket := session.Begin(context.Background())
	s := New(streamer, renderer, quietLogger).Stream(ctx, "p")

	<-geo.entered
	_, next := session.Begin(context.Background())
	assert.False(t, session.IsCurrent(ticket))
	assert.True(t, session.IsCurrent(next))

	for ev := range s.Events {
		if rec, ok := ev.(RecommendationEvent); ok {
			assert.Equal(t, "Slow", rec.Recommendation.Place.Location)
			assert.False(t, rec.Recommendation.Found)
		}
	}
	<-s.Done

	snap := view.Snapshot()
	assert.Nil(t, snap.Marker)
	assert.Equal(t, orb.Point{0, 20}, snap.Center)
	assert.Equal(t, 2, snap.Zoom)
	assert.Zero(t, view.MarkerCreations())
}

// cancellingRenderer cancels the request while the first place renders.
type cancellingRenderer struct {
	recordingRenderer
	cancel context.CancelFunc
}

func (r *cancellingRenderer) Render(ctx context.Context, place domain.Place) domain.Recommendation {
	r.cancel()
	return r.recordingRenderer.Render(ctx, place)
}

func TestDispatchStopsOnceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	renderer := &cancellingRenderer{cancel: cancel}
	e := New(&cannedStreamer{}, renderer, quietLogger)

	recs := e.dispatch(ctx, []stream.CompletedCall{
		call(t, 0, "recommendPlace", domain.Place{Location: "Oslo", Caption: "Cold"}),
		call(t, 1, "recommendPlace", domain.Place{Location: "Lima", Caption: "Fog"}),
		call(t, 2, "recommendPlace", domain.Place{Location: "Pune", Caption: "Warm"}),
	})

	require.Len(t, renderer.places, 1)
	assert.Equal(t, "Oslo", renderer.places[0].Location)
	assert.Len(t, recs, 1)
}
