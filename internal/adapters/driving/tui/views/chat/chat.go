// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/keymap"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/messages"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/styles"
	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

// eventBuffer bounds the per-turn event channel. A turn produces a handful
// of step and source events, far below this.
const eventBuffer = 64

// View is the conversation view: transcript, agent trace, and input line.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	chatService driving.ChatService
	ctx         context.Context

	input textinput.Model
	spin  spinner.Model

	conversation *domain.Conversation
	events       chan tea.Msg
	streaming    bool
	status       string

	lines        []string
	scrollOffset int
	follow       bool

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &View{
		styles:      s,
		keymap:      km,
		chatService: chatService,
		ctx:         context.Background(),
		input:       ti,
		spin:        sp,
		follow:      true,
		width:       80,
		height:      24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StepAppended:
		v.Refresh()
		return v, v.waitForEvent()

	case messages.SourcesUpdated:
		v.status = fmt.Sprintf("%d sources gathered", len(msg.Sources))
		return v, v.waitForEvent()

	case messages.TurnFinished:
		return v, v.handleTurnFinished(msg)

	case messages.TurnEventsClosed:
		return v, nil

	case spinner.TickMsg:
		if !v.streaming {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up":
		v.scrollBy(-1)
		return v, nil
	case "down":
		v.scrollBy(1)
		return v, nil
	case "pgup", "ctrl+u":
		v.scrollBy(-v.visibleLines())
		return v, nil
	case "pgdown", "ctrl+d":
		v.scrollBy(v.visibleLines())
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		if v.streaming {
			return v, nil
		}
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		v.input.SetValue("")
		v.status = ""
		return v, v.startTurn(query)
	}

	if v.streaming {
		// Typing is held until the turn settles.
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// startTurn runs one conversation turn. The turn executes on its own
// goroutine; step and source events arrive through the event channel while
// TurnFinished carries the final state.
func (v *View) startTurn(query string) tea.Cmd {
	events := make(chan tea.Msg, eventBuffer)
	v.events = events
	v.streaming = true
	v.Refresh()

	run := func() tea.Msg {
		conv, err := v.chatService.Submit(v.ctx, query, driving.TurnEvents{
			OnStep: func(step domain.AgentStep) {
				events <- messages.StepAppended{Step: step}
			},
			OnSources: func(sources []domain.SourceChunk) {
				events <- messages.SourcesUpdated{Sources: sources}
			},
		})
		close(events)
		return messages.TurnFinished{Conversation: conv, Err: err}
	}

	return tea.Batch(run, v.waitForEvent(), v.spin.Tick)
}

// waitForEvent reads the next turn event off the channel.
func (v *View) waitForEvent() tea.Cmd {
	events := v.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return messages.TurnEventsClosed{}
		}
		return msg
	}
}

// handleTurnFinished settles the view after a turn.
func (v *View) handleTurnFinished(msg messages.TurnFinished) tea.Cmd {
	v.streaming = false
	v.events = nil
	v.Refresh()

	switch {
	case msg.Err == nil:
		v.status = ""
	case errors.Is(msg.Err, domain.ErrMissingCredential):
		v.status = "No API key configured. Press ctrl+s to open settings."
	case errors.Is(msg.Err, domain.ErrEmptyInput), errors.Is(msg.Err, domain.ErrTurnInFlight):
		// Rejected before touching state; nothing to show.
	default:
		// The transcript already carries the user-facing error message.
		v.status = ""
	}
	return nil
}

// Refresh re-reads the active conversation and rebuilds the transcript.
func (v *View) Refresh() {
	v.conversation = v.chatService.Active()
	v.rebuildLines()
	if v.follow {
		v.scrollOffset = v.maxScrollOffset()
	}
}

// rebuildLines renders the conversation into wrapped display lines.
func (v *View) rebuildLines() {
	v.lines = nil
	if v.conversation == nil {
		return
	}

	width := v.contentWidth()
	for i, m := range v.conversation.Messages {
		if i > 0 {
			v.lines = append(v.lines, "")
		}
		switch m.Role {
		case domain.RoleUser:
			v.appendWrapped(v.styles.User.Render("You: ")+m.Text, width)
		case domain.RoleModel:
			v.appendModelMessage(m, width)
		}
	}
}

// appendModelMessage renders a model message: its reasoning trace while
// thinking, its cited answer once finalized.
func (v *View) appendModelMessage(m domain.Message, width int) {
	if m.IsThinking {
		for _, step := range m.AgentSteps {
			v.appendWrapped(v.styles.Step.Render(stepPrefix(step.Type)+step.Content), width)
		}
		return
	}
	text := rewriteCitations(m.Text, m.Sources)
	v.appendWrapped(v.styles.Model.Render("Shuka: ")+text, width)
}

// stepPrefix returns the trace glyph for a step type.
func stepPrefix(t domain.StepType) string {
	switch t {
	case domain.StepThought:
		return "· "
	case domain.StepAction:
		return "» "
	case domain.StepObservation:
		return "« "
	default:
		return "  "
	}
}

// rewriteCitations replaces [[id]] markers with numbered [n] references
// into the message's source list. Markers that resolve to no source are
// kept verbatim.
func rewriteCitations(text string, sources []domain.SourceChunk) string {
	refs := make(map[string]int)
	var b strings.Builder
	for _, seg := range domain.ParseCitations(text) {
		if seg.Kind == domain.SegmentText {
			b.WriteString(seg.Text)
			continue
		}
		if _, err := domain.ResolveCitation(seg.CitationID, sources); err != nil {
			b.WriteString("[[" + seg.CitationID + "]]")
			continue
		}
		n, ok := refs[seg.CitationID]
		if !ok {
			n = len(refs) + 1
			refs[seg.CitationID] = n
		}
		b.WriteString("[" + strconv.Itoa(n) + "]")
	}
	return b.String()
}

// appendWrapped wraps text to the given width and appends the lines.
func (v *View) appendWrapped(text string, width int) {
	for _, raw := range strings.Split(text, "\n") {
		wrapped := lipgloss.NewStyle().Width(width).Render(raw)
		v.lines = append(v.lines, strings.Split(wrapped, "\n")...)
	}
}

// scrollBy moves the transcript window, clamped to content.
func (v *View) scrollBy(delta int) {
	v.scrollOffset += delta
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
	if max := v.maxScrollOffset(); v.scrollOffset > max {
		v.scrollOffset = max
	}
	// Follow the tail only while scrolled to the bottom.
	v.follow = v.scrollOffset == v.maxScrollOffset()
}

// visibleLines returns the number of transcript lines that fit.
func (v *View) visibleLines() int {
	// Reserve lines for title, input, status, and help.
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	max := len(v.lines) - v.visibleLines()
	if max < 0 {
		max = 0
	}
	return max
}

// contentWidth returns the usable transcript width.
func (v *View) contentWidth() int {
	w := v.width - 2
	if w < 20 {
		w = 20
	}
	return w
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Shuka"))
	b.WriteString("\n\n")

	if v.conversation == nil || len(v.conversation.Messages) == 0 {
		b.WriteString(v.styles.Muted.Render("Ask a question about the books."))
		b.WriteString("\n")
	} else {
		visible := v.visibleLines()
		for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.lines[i])
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if v.streaming {
		b.WriteString(v.spin.View())
		b.WriteString(v.styles.Muted.Render(" thinking..."))
		b.WriteString("\n")
	} else if v.status != "" {
		b.WriteString(v.styles.Warning.Render(v.status))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.InputField.Render(v.input.View()))
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	hints := make([]string, 0, 6)
	for _, bind := range v.keymap.ChatHelp() {
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

	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	v.input.Width = inputWidth
	v.rebuildLines()
	if v.follow {
		v.scrollOffset = v.maxScrollOffset()
	}
}

// Streaming reports whether a turn is in flight.
func (v *View) Streaming() bool {
	return v.streaming
}

// Conversation returns the rendered conversation snapshot.
func (v *View) Conversation() *domain.Conversation {
	return v.conversation
}

// Status returns the current status line.
func (v *View) Status() string {
	return v.status
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// InputValue returns the current input text.
func (v *View) InputValue() string {
	return v.input.Value()
}

// SetInputValue sets the input text.
func (v *View) SetInputValue(value string) {
	v.input.SetValue(value)
}
