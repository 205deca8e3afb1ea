// Package history provides the saved conversations list view for the TUI.
package history

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/keymap"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/messages"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/styles"
	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

// View lists persisted conversations, most recent first.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	chatService driving.ChatService
	ctx         context.Context

	headers  []domain.ConversationHeader
	selected int
	err      error
	loading  bool

	width  int
	height int
	ready  bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:      s,
		keymap:      km,
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init refreshes the index from the store.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadIndex()
}

// loadIndex returns a command that refreshes the conversation index.
func (v *View) loadIndex() tea.Cmd {
	return func() tea.Msg {
		if err := v.chatService.LoadIndex(v.ctx); err != nil {
			return messages.IndexLoaded{Err: err}
		}
		return messages.IndexLoaded{Headers: v.chatService.Conversations()}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.IndexLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.headers = msg.Headers
		}
		if v.selected >= len(v.headers) {
			v.selected = 0
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil
	case "down", "j":
		if v.selected < len(v.headers)-1 {
			v.selected++
		}
		return v, nil
	case "enter":
		if v.selected >= len(v.headers) {
			return v, nil
		}
		id := v.headers[v.selected].ID
		return v, v.openConversation(id)
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}
	return v, nil
}

// openConversation returns a command that loads a persisted conversation.
func (v *View) openConversation(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.chatService.Load(v.ctx, id)
		return messages.ConversationOpened{ID: id, Err: err}
	}
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Conversations"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case len(v.headers) == 0:
		b.WriteString(v.styles.Muted.Render("No saved conversations."))
		b.WriteString("\n")
	default:
		visible := v.visibleLines()
		start := v.windowStart(visible)
		for i := start; i < len(v.headers) && i < start+visible; i++ {
			b.WriteString(v.renderHeader(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderHeader renders one index entry.
func (v *View) renderHeader(i int) string {
	h := v.headers[i]
	line := h.CreatedAt.Format("2006-01-02 15:04") + "  " + h.Title
	if i == v.selected {
		return v.styles.Selected.Render("> " + line)
	}
	return v.styles.Normal.Render("  " + line)
}

// windowStart keeps the selection inside the visible window.
func (v *View) windowStart(visible int) int {
	if v.selected < visible {
		return 0
	}
	return v.selected - visible + 1
}

// visibleLines returns the number of entries that fit.
func (v *View) visibleLines() int {
	reserved := 6
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	hints := make([]string, 0, 4)
	for _, bind := range v.keymap.ListHelp() {
		h := bind.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return v.styles.Help.Render(strings.Join(hints, " | "))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Headers returns the loaded index.
func (v *View) Headers() []domain.ConversationHeader {
	return v.headers
}

// Selected returns the selected index position.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
