package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/isaacphi/mapsxplr/internal/explorer"
	"github.com/isaacphi/mapsxplr/internal/render"
	"github.com/isaacphi/mapsxplr/internal/shared"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/components/help"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/components/input"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/components/mappanel"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/components/presets"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/keymap"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/layout"
	"github.com/isaacphi/mapsxplr/internal/ui/tui/theme"
)

// Model represents the application state
type Model struct {
	ctx    context.Context
	cfg    *config.ConfigSchema
	logger *slog.Logger
	theme  *theme.Theme
	keyMap *config.KeyMap
	mode   keymap.AppMode
	load   func(context.Context) tea.Msg

	presets presets.Model
	input   input.Model
	help    help.Model
	spinner spinner.Model

	recommender Recommender
	view        *render.MapView
	closer      io.Closer
	loadErr     error
	session     *explorer.Session

	ticket       uuid.UUID
	loading      bool
	prose        string
	preview      string
	previewIndex int
	caption      string
	failed       bool
	status       string
	last         *domain.Recommendation

	width  int
	height int
}

// StartTUI runs the explorer until the user quits
func StartTUI(ctx context.Context, cfg *config.ConfigSchema, logger *slog.Logger) error {
	m := New(ctx, cfg, logger)
	m.load = loadServices(cfg, logger)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	}
	if err != nil {
		return fmt.Errorf("error running explorer TUI: %w", err)
	}
	return nil
}

// New creates the model. Services are loaded by Init.
func New(ctx context.Context, cfg *config.ConfigSchema, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	thm := theme.DefaultTheme()

	sp := spinner.New()
	sp.Spinner = spinner.Globe

	m := Model{
		ctx:     ctx,
		cfg:     cfg,
		logger:  logger,
		theme:   thm,
		keyMap:  &cfg.KeyMap,
		mode:    keymap.NormalMode,
		presets: presets.New(cfg.Presets, thm),
		input:   input.New(thm),
		spinner: sp,
		session: &explorer.Session{},
		width:   80,
	}
	m.help = help.New(nil, thm)
	return m
}

func loadServices(cfg *config.ConfigSchema, logger *slog.Logger) func(context.Context) tea.Msg {
	return func(ctx context.Context) tea.Msg {
		svc, err := shared.InitializeExplorer(ctx, cfg, logger)
		if err != nil {
			return servicesLoadedMsg{err: err}
		}
		return servicesLoadedMsg{recommender: svc.Explorer, view: svc.Renderer.View(), closer: svc}
	}
}

func (m Model) Init() tea.Cmd {
	if m.load == nil {
		return nil
	}
	ctx, load := m.ctx, m.load
	return func() tea.Msg { return load(ctx) }
}

// Close cancels the current request and releases the services.
func (m Model) Close() {
	m.session.Close()
	if m.closer != nil {
		if err := m.closer.Close(); err != nil {
			m.logger.Warn("failed to close services", "error", err)
		}
	}
}

// Update handles all the application updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetWidth(msg.Width)
		contentWidth, _ := layout.Panes(msg.Width - 4)
		m.input.SetWidth(contentWidth)
		return m, nil

	case servicesLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			m.logger.Error("failed to start explorer", "error", msg.err)
			return m, nil
		}
		m.recommender, m.view, m.closer = msg.recommender, msg.view, msg.closer
		if m.view != nil {
			m.view.Init()
		}
		return m, nil

	case streamEventMsg:
		return m.handleStreamEvent(msg)

	case streamDoneMsg:
		m.session.End(msg.ticket)
		if msg.ticket == m.ticket {
			m.loading = false
		}
		return m, nil

	case input.InputSubmitMsg:
		m.mode = keymap.NormalMode
		m.input.Blur()
		return m.ask(msg.Value)

	case keymap.SetModeMsg:
		return m.setMode(msg.Mode)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.mode == keymap.InputMode {
		switch {
		case key.Matches(msg, m.binding(config.KeyActionExitInput)):
			return m.setMode(keymap.NormalMode)
		case key.Matches(msg, m.binding(config.KeyActionSendPrompt)):
			cmd := m.input.Submit()
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.binding(config.KeyActionQuit)):
		return m, tea.Quit
	case key.Matches(msg, m.binding(config.KeyActionToggleHelp)):
		m.help.Toggle()
	case key.Matches(msg, m.binding(config.KeyActionNextPreset)):
		m.presets.Next()
	case key.Matches(msg, m.binding(config.KeyActionPrevPreset)):
		m.presets.Prev()
	case key.Matches(msg, m.binding(config.KeyActionFocusInput)):
		return m.setMode(keymap.InputMode)
	case key.Matches(msg, m.binding(config.KeyActionChoosePreset)):
		if p, ok := m.presets.Selected(); ok {
			return m.ask(p.Prompt)
		}
	}
	return m, nil
}

func (m Model) binding(action string) key.Binding {
	return keymap.Binding(m.keyMap, action, action)
}

func (m Model) setMode(mode keymap.AppMode) (tea.Model, tea.Cmd) {
	m.mode = mode
	if mode == keymap.InputMode {
		cmd := m.input.Focus()
		return m, cmd
	}
	m.input.Blur()
	return m, nil
}

// View renders the application UI
func (m Model) View() string {
	width := max(m.width-4, 20)
	contentWidth, mapWidth := layout.Panes(width)
	if mapWidth == 0 {
		mapWidth = width
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.TitleStyle.Render("mapsxplr"),
		"",
		m.presets.View(m.mode == keymap.NormalMode),
		m.input.View(),
	)

	var content strings.Builder
	if m.loading {
		content.WriteString(m.spinner.View() + " Thinking…\n\n")
	}
	if m.prose != "" {
		content.WriteString(m.theme.ProseStyle.Width(contentWidth).Render(m.prose))
		content.WriteString("\n\n")
	}
	switch {
	case m.failed:
		content.WriteString(m.theme.ErrorStyle.Width(contentWidth).Render(m.caption))
	case m.caption != "":
		content.WriteString(m.theme.CaptionStyle.Width(contentWidth).Render(m.caption))
	case m.preview != "":
		content.WriteString(m.theme.CaptionStyle.Faint(true).Width(contentWidth).Render(m.preview))
	case m.status != "":
		content.WriteString(m.theme.ProseStyle.Faint(true).Render(m.status))
	}

	var mapView string
	if m.view != nil {
		mapView = mappanel.View(m.theme, m.view.Snapshot(), m.last, mapWidth)
	} else {
		mapView = m.theme.PanelStyle.Width(mapWidth).Render("Loading map…")
	}

	m.help.SetKeybindings(m)
	body := layout.Body(width, strings.TrimRight(content.String(), "\n"), mapView)
	return m.theme.DocStyle.Render(layout.Screen(m.height-2, header, body, m.help.View()))
}
