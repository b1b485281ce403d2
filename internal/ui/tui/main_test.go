package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/events"
	"github.com/isaacphi/mapsxplr/internal/explorer"
	"github.com/isaacphi/mapsxplr/internal/llm"
	"github.com/isaacphi/mapsxplr/internal/render"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRecommender struct {
	scripts [][]events.Event
	prompts []string
}

func (s *scriptedRecommender) Stream(ctx context.Context, prompt string) *llm.LLMStream {
	evs := s.scripts[len(s.prompts)]
	s.prompts = append(s.prompts, prompt)

	out := make(chan events.Event, len(evs))
	done := make(chan struct{})
	for _, ev := range evs {
		out <- ev
	}
	close(out)
	close(done)
	return &llm.LLMStream{Events: out, Done: done}
}

func testConfig() *config.ConfigSchema {
	return &config.ConfigSchema{
		Presets: []domain.Preset{
			{Label: "❄️ Cold", Prompt: "cold prompt"},
			{Label: "🗿 Ancient", Prompt: "ancient prompt"},
		},
		Map: config.Map{CenterLat: 20, Zoom: 2, FocusZoom: 10},
		KeyMap: config.KeyMap{
			Quit:         []string{"ctrl+c", "q"},
			ToggleHelp:   []string{"?"},
			NextPreset:   []string{"right", "l"},
			PrevPreset:   []string{"left", "h"},
			ChoosePreset: []string{"enter"},
			FocusInput:   []string{"/", "i"},
			ExitInput:    []string{"esc"},
			SendPrompt:   []string{"enter"},
		},
	}
}

func newTestModel(t *testing.T, r Recommender) Model {
	t.Helper()
	cfg := testConfig()
	m := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	next, _ := m.Update(servicesLoadedMsg{recommender: r, view: render.NewMapView(cfg.Map)})
	return next.(Model)
}

// drain runs cmd and feeds stream messages back until the request ends.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 100; i++ {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			cmd = nil
			for _, c := range batch {
				if c == nil {
					continue
				}
				sub := c()
				switch sub.(type) {
				case streamEventMsg, streamDoneMsg:
					msg = sub
				}
			}
		}
		switch msg.(type) {
		case streamEventMsg, streamDoneMsg:
		default:
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, s string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyMsg(s))
	return next.(Model), cmd
}

func TestChoosePresetShowsRecommendation(t *testing.T) {
	rec := domain.Recommendation{
		Place: domain.Place{Location: "Ancient Petra, Jordan", Caption: "Rose-red city carved into cliffs."},
	}
	r := &scriptedRecommender{scripts: [][]events.Event{{
		llm.TextEvent{Content: "Consider Petra."},
		llm.ToolCallStartEvent{Index: 0, FunctionName: domain.RecommendPlaceTool},
		llm.ToolArgumentChunkEvent{Index: 0, Name: domain.RecommendPlaceTool, ArgumentName: "caption", Chunk: "Rose-red"},
		explorer.RecommendationEvent{Index: 0, Recommendation: rec},
		llm.MessageCompleteEvent{Content: "Consider Petra."},
	}}}
	m := newTestModel(t, r)

	m, _ = press(m, "right")
	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	m = drain(t, m, cmd)
	assert.Equal(t, []string{"ancient prompt"}, r.prompts)
	assert.Equal(t, "Consider Petra.", m.prose)
	assert.Equal(t, "Rose-red", m.preview)
	assert.Equal(t, "Rose-red city carved into cliffs.", m.caption)
	assert.False(t, m.loading)
	assert.False(t, m.failed)
	require.NotNil(t, m.last)
	assert.Equal(t, rec.Location, m.last.Location)
	assert.Contains(t, m.View(), "Rose-red city carved into cliffs.")
}

func TestCustomPrompt(t *testing.T) {
	r := &scriptedRecommender{scripts: [][]events.Event{{llm.MessageCompleteEvent{}}}}
	m := newTestModel(t, r)

	m, _ = press(m, "i")
	assert.Equal(t, keymap.InputMode, m.mode)

	// keys bound in normal mode are typed while the input is focused
	for _, r := range "quiet lakes" {
		m, _ = press(m, string(r))
	}
	assert.Equal(t, "quiet lakes", m.input.Value())

	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)
	next, cmd := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, keymap.NormalMode, m.mode)
	assert.Empty(t, m.input.Value())

	m = drain(t, m, cmd)
	assert.Equal(t, []string{"quiet lakes"}, r.prompts)
	assert.Equal(t, "No place was recommended.", m.status)

	m, _ = press(m, "i")
	m, _ = press(m, "esc")
	assert.Equal(t, keymap.NormalMode, m.mode)
}

func TestSupersededResultsAreDiscarded(t *testing.T) {
	stale := domain.Recommendation{Place: domain.Place{Location: "Oslo", Caption: "stale"}}
	fresh := domain.Recommendation{Place: domain.Place{Location: "Lima", Caption: "fresh"}}
	r := &scriptedRecommender{scripts: [][]events.Event{
		{explorer.RecommendationEvent{Recommendation: stale}},
		{explorer.RecommendationEvent{Recommendation: fresh}},
	}}
	m := newTestModel(t, r)

	m, first := press(m, "enter")
	m, second := press(m, "enter")

	// the first request's event arrives after the second began
	m = drain(t, m, first)
	assert.Empty(t, m.caption)

	m = drain(t, m, second)
	assert.Equal(t, "fresh", m.caption)
}

func TestFailureMessages(t *testing.T) {
	r := &scriptedRecommender{scripts: [][]events.Event{
		{llm.TextEvent{Content: "partial"}, events.ErrorEvent{Error: errors.New("status 500")}},
	}}
	m := newTestModel(t, r)

	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)
	assert.True(t, m.failed)
	assert.Equal(t, domain.RecommendationFailedMessage, m.caption)
	assert.Nil(t, m.last)

	missing := New(context.Background(), testConfig(), nil)
	next, _ := missing.Update(servicesLoadedMsg{err: domain.ErrMissingAPIKey})
	missing = next.(Model)
	missing, cmd = press(missing, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, domain.MissingAPIKeyMessage, missing.caption)
}

func TestQuitAndHelp(t *testing.T) {
	m := newTestModel(t, &scriptedRecommender{})

	m, _ = press(m, "?")
	assert.True(t, m.help.ShowAll)

	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
