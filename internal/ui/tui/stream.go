package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/events"
	"github.com/isaacphi/mapsxplr/internal/explorer"
	"github.com/isaacphi/mapsxplr/internal/llm"
	"github.com/isaacphi/mapsxplr/internal/render"
)

// Recommender streams the events of one recommendation request.
type Recommender interface {
	Stream(ctx context.Context, prompt string) *llm.LLMStream
}

type servicesLoadedMsg struct {
	recommender Recommender
	view        *render.MapView
	closer      io.Closer
	err         error
}

type streamEventMsg struct {
	ticket uuid.UUID
	stream *llm.LLMStream
	event  events.Event
}

type streamDoneMsg struct {
	ticket uuid.UUID
}

// waitForEvent reads the next event of a request.
func waitForEvent(ticket uuid.UUID, s *llm.LLMStream) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-s.Events
		if !ok {
			<-s.Done
			return streamDoneMsg{ticket: ticket}
		}
		return streamEventMsg{ticket: ticket, stream: s, event: ev}
	}
}

// ask starts a request for prompt, superseding the current one.
func (m Model) ask(prompt string) (tea.Model, tea.Cmd) {
	m.prose, m.preview, m.caption, m.status = "", "", "", ""
	m.failed = false
	m.previewIndex = -1

	if m.loadErr != nil {
		m.failed = true
		m.caption = domain.UserMessage(m.loadErr)
		return m, nil
	}
	if m.recommender == nil {
		m.status = "Still starting up, try again in a moment."
		return m, nil
	}

	ctx, ticket := m.session.Begin(m.ctx)
	m.ticket = ticket
	m.loading = true
	m.logger.Debug("asking for recommendation", "ticket", ticket)

	s := m.recommender.Stream(ctx, prompt)
	return m, tea.Batch(waitForEvent(ticket, s), m.spinner.Tick)
}

func (m Model) handleStreamEvent(msg streamEventMsg) (tea.Model, tea.Cmd) {
	if !m.session.IsCurrent(msg.ticket) {
		// superseded; its context is cancelled so the stream winds down unread
		return m, nil
	}

	switch ev := msg.event.(type) {
	case llm.TextEvent:
		m.prose += ev.Content

	case llm.ToolCallStartEvent:
		if ev.FunctionName == domain.RecommendPlaceTool {
			m.status = "Finding a place…"
		}

	case llm.ToolArgumentChunkEvent:
		if ev.Name == domain.RecommendPlaceTool && ev.ArgumentName == "caption" {
			if ev.Index != m.previewIndex {
				m.preview, m.previewIndex = "", ev.Index
			}
			m.preview += ev.Chunk
		}

	case explorer.RecommendationEvent:
		rec := ev.Recommendation
		m.last = &rec
		m.caption = rec.Caption

	case llm.MessageCompleteEvent:
		m.loading = false
		if m.caption == "" {
			m.preview = ""
			m.status = "No place was recommended."
		}

	case events.ErrorEvent:
		m.loading = false
		if !errors.Is(ev.Error, context.Canceled) {
			m.logger.Error("recommendation failed", "error", ev.Error)
			m.failed = true
			m.caption = domain.UserMessage(ev.Error)
		}
	}

	return m, waitForEvent(msg.ticket, msg.stream)
}
