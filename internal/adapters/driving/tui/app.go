package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/keymap"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/messages"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/styles"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/views/chat"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/views/history"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/views/reader"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/views/settings"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/views/sources"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// chatView is the conversation view.
	chatView *chat.View

	// historyView is the saved conversations list.
	historyView *history.View

	// sourcesView is the source panel for the current answer.
	sourcesView *sources.View

	// readerView is the full-chapter document reader.
	readerView *reader.View

	// settingsView is the settings configuration view.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		chatView:     chat.NewView(s, km, ports.Chat),
		historyView:  history.NewView(s, km, ports.Chat),
		sourcesView:  sources.NewView(s, km, ports.Chat),
		readerView:   reader.NewView(s, km, ports.Reader, ports.Settings),
		settingsView: settings.NewView(s, km, ports.Settings),
		currentView:  messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	a.readerView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("shuka - Vedabase Assistant"),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.historyView.SetDimensions(msg.Width, msg.Height)
		a.sourcesView.SetDimensions(msg.Width, msg.Height)
		a.readerView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	// Turn events route to the chat view even when another view is
	// active, so streaming continues while the user browses.
	case messages.StepAppended, messages.TurnEventsClosed, spinner.TickMsg:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.TurnFinished:
		a.sourcesView.Refresh()
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.SourcesUpdated:
		a.sourcesView.SetChunks(msg.Sources)
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.IndexLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.ConversationOpened:
		if msg.Err != nil {
			a.err = msg.Err
			a.historyView, cmd = a.historyView.Update(messages.IndexLoaded{Err: msg.Err})
			return a, cmd
		}
		a.chatView.Refresh()
		a.sourcesView.Refresh()
		a.currentView = messages.ViewChat
		return a, nil

	case messages.ChunkSelected:
		a.currentView = messages.ViewReader
		return a, a.readerView.OpenChunk(msg.Chunk)

	case messages.DocumentLoaded:
		a.readerView, cmd = a.readerView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil
	}

	return a, a.forwardToCurrent(msg)
}

// handleKeyMsg routes keyboard input: global bindings first, then the
// active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// While a settings field edit is in progress all keys belong to the
	// form.
	intercept := !(a.currentView == messages.ViewSettings && a.settingsView.Editing())
	if intercept {
		switch msg.String() {
		case "ctrl+n":
			a.ports.Chat.NewChat()
			a.chatView.Refresh()
			a.sourcesView.Refresh()
			a.currentView = messages.ViewChat
			return a, nil
		case "ctrl+h":
			return a, a.switchView(messages.ViewHistory)
		case "ctrl+s":
			if a.currentView != messages.ViewSettings {
				return a, a.switchView(messages.ViewSettings)
			}
			return a, nil
		case "tab":
			if a.currentView == messages.ViewChat {
				return a, a.switchView(messages.ViewSources)
			}
		}
	}

	return a, a.forwardToCurrent(msg)
}

// switchView activates a view and runs its initialisation.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewChat:
		a.chatView.Refresh()
		return nil
	case messages.ViewHistory:
		return a.historyView.Init()
	case messages.ViewSources:
		return a.sourcesView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewReader:
		return a.readerView.Init()
	}
	return nil
}

// forwardToCurrent sends a message to the active view.
func (a *App) forwardToCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSources:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
	case messages.ViewReader:
		a.readerView, cmd = a.readerView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSources:
		return a.sourcesView.View()
	case messages.ViewReader:
		return a.readerView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	default:
		return a.chatView.View()
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
	a.sourcesView.SetDimensions(width, height)
}
