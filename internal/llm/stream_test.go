package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/events"
	"github.com/isaacphi/mapsxplr/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const ulaanbaatarStream = `data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"Ulaanbaatar is the coldest capital."}}]}

data: {"choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call_0","type":"function","function":{"name":"recommendPlace","arguments":""}}]}}]}

data: {"choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"locat"}}]}}]}

data: {"choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"ion\":\"Ulaan"}}]}}]}

data: {"choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"baatar, Mongolia\",\"caption\":\"Remote capital with low light pollution.\"}"}}]}}]}

data: [DONE]

`

func newTestClient(t *testing.T, url string, cfg config.Provider) *Client {
	t.Helper()
	cfg.BaseURL = url
	if cfg.Model == "" {
		cfg.Model = "deepseek-chat"
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "sk-test"
	}
	c, err := NewClient(cfg, "Act as a travel agent.", WithLogger(quietLogger), WithChunkSize(7))
	require.NoError(t, err)
	return c
}

func drain(s *LLMStream) []events.Event {
	var got []events.Event
	for ev := range s.Events {
		got = append(got, ev)
	}
	<-s.Done
	return got
}

func sseHandler(body string, check func(r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for len(body) > 0 {
			n := min(5, len(body))
			if _, err := io.WriteString(w, body[:n]); err != nil {
				return
			}
			flusher.Flush()
			body = body[n:]
		}
	}
}

func TestGenerateContentStream(t *testing.T) {
	var request map[string]any
	srv := httptest.NewServer(sseHandler(ulaanbaatarStream, func(r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
	}))
	defer srv.Close()

	temp := 0.5
	c := newTestClient(t, srv.URL, config.Provider{Temperature: &temp})
	got := drain(c.GenerateContentStream(context.Background(), "Where is somewhere really cold?"))

	assert.Equal(t, "deepseek-chat", request["model"])
	assert.Equal(t, true, request["stream"])
	assert.Equal(t, "auto", request["tool_choice"])
	assert.Equal(t, 0.5, request["temperature"])
	messages := request["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "Where is somewhere really cold?", messages[1].(map[string]any)["content"])
	tools := request["tools"].([]any)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "recommendPlace", fn["name"])
	assert.Equal(t, "Shows the user a map of the place provided.", fn["description"])

	require.NotEmpty(t, got)
	var (
		text    strings.Builder
		starts  []ToolCallStartEvent
		caption strings.Builder
	)
	for _, ev := range got[:len(got)-1] {
		switch e := ev.(type) {
		case TextEvent:
			text.WriteString(e.Content)
		case ToolCallStartEvent:
			starts = append(starts, e)
		case ToolArgumentChunkEvent:
			assert.Equal(t, "recommendPlace", e.Name)
			if e.ArgumentName == "caption" {
				caption.WriteString(e.Chunk)
			}
		default:
			t.Fatalf("unexpected event %T", ev)
		}
	}
	assert.Equal(t, "Ulaanbaatar is the coldest capital.", text.String())
	assert.Equal(t, []ToolCallStartEvent{{Index: 0, ToolCallID: "call_0", FunctionName: "recommendPlace"}}, starts)
	assert.Equal(t, "Remote capital with low light pollution.", caption.String())

	complete, ok := got[len(got)-1].(MessageCompleteEvent)
	require.True(t, ok)
	assert.NoError(t, complete.Dropped)
	assert.Equal(t, "Ulaanbaatar is the coldest capital.", complete.Content)
	require.Len(t, complete.ToolCalls, 1)

	var place domain.Place
	require.NoError(t, complete.ToolCalls[0].Decode(&place))
	assert.Equal(t, domain.Place{Location: "Ulaanbaatar, Mongolia", Caption: "Remote capital with low light pollution."}, place)
}

func TestGenerateContentStreamOmitsUnsetTemperature(t *testing.T) {
	var request map[string]any
	srv := httptest.NewServer(sseHandler("data: [DONE]\n\n", func(r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
	}))
	defer srv.Close()

	got := drain(newTestClient(t, srv.URL, config.Provider{}).GenerateContentStream(context.Background(), "hi"))
	require.Len(t, got, 1)
	assert.IsType(t, MessageCompleteEvent{}, got[0])
	assert.NotContains(t, request, "temperature")
}

func TestGenerateContentStreamReportsDroppedCalls(t *testing.T) {
	body := `data: {"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"name":"recommendPlace","arguments":"{\"location\":"}}]}}]}
data: {"choices":[{"delta":{"tool_calls":[{"index":1,"function":{"name":"recommendPlace","arguments":"{\"location\":\"Lima\",\"caption\":\"Fog\"}"}}]}}]}
data: not json
data: [DONE]
`
	srv := httptest.NewServer(sseHandler(body, nil))
	defer srv.Close()

	got := drain(newTestClient(t, srv.URL, config.Provider{}).GenerateContentStream(context.Background(), "hi"))
	complete, ok := got[len(got)-1].(MessageCompleteEvent)
	require.True(t, ok)

	require.Len(t, complete.ToolCalls, 1)
	assert.Equal(t, 1, complete.ToolCalls[0].Index)
	assert.Equal(t, 1, complete.Skipped)
	var argErr *stream.ArgumentsError
	assert.True(t, errors.As(complete.Dropped, &argErr))
}

func TestGenerateContentStreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid key","type":"authentication_error"}}`)
	}))
	defer srv.Close()

	got := drain(newTestClient(t, srv.URL, config.Provider{}).GenerateContentStream(context.Background(), "hi"))
	require.Len(t, got, 1)
	errEv, ok := got[0].(events.ErrorEvent)
	require.True(t, ok)
	assert.Contains(t, errEv.Error.Error(), "401")
}

func TestGenerateContentStreamTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, `data: {"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"name":"recommendPlace","arguments":"{}"}}]}}]}`+"\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, config.Provider{Timeout: 200 * time.Millisecond})
	got := drain(c.GenerateContentStream(context.Background(), "hi"))

	last := got[len(got)-1]
	_, isErr := last.(events.ErrorEvent)
	assert.True(t, isErr, "expected error event, got %T", last)
	for _, ev := range got {
		assert.NotEqual(t, events.EventTypeMessageComplete, ev.Type())
	}
}

func TestGenerateContentStreamCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := newTestClient(t, srv.URL, config.Provider{}).GenerateContentStream(ctx, "hi")
	cancel()

	select {
	case <-s.Done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(config.Provider{BaseURL: "http://localhost", Model: "m", APIKey: "  "}, "")
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestPumpTracksFragmentsBeforeRun(t *testing.T) {
	out := make(chan events.Event, 4)
	p := newPump(context.Background(), out, quietLogger)

	p.OnFragment(stream.Fragment{Index: 1, ID: "call_1"})
	p.OnFragment(stream.Fragment{Index: 1, Name: "recommendPlace"})
	p.OnFragment(stream.Fragment{Index: 1, Name: "recommendPlace"})

	require.Len(t, out, 1)
	assert.Equal(t, ToolCallStartEvent{Index: 1, ToolCallID: "call_1", FunctionName: "recommendPlace"}, <-out)
}
