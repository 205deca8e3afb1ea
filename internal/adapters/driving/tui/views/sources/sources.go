// Package sources provides the source panel view for the TUI.
package sources

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/keymap"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/messages"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/styles"
	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

// excerptLimit caps the preview text shown per chunk.
const excerptLimit = 160

// View shows the retrieved passages behind the current answer. Selecting
// one opens it in the reader.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	chatService driving.ChatService

	chunks   []domain.SourceChunk
	selected int

	width  int
	height int
	ready  bool
}

// NewView creates a new source panel view.
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
		width:       80,
		height:      24,
	}
}

// Init pulls the live source set from the chat service.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return nil
}

// Refresh re-reads the current source panel contents.
func (v *View) Refresh() {
	v.chunks = v.chatService.CurrentSources()
	if v.selected >= len(v.chunks) {
		v.selected = 0
	}
}

// SetChunks replaces the panel contents, used for live streaming updates.
func (v *View) SetChunks(chunks []domain.SourceChunk) {
	v.chunks = chunks
	if v.selected >= len(v.chunks) {
		v.selected = 0
	}
}

// Update handles messages for the source panel.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesUpdated:
		v.SetChunks(msg.Sources)
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
		if v.selected < len(v.chunks)-1 {
			v.selected++
		}
		return v, nil
	case "enter":
		if v.selected >= len(v.chunks) {
			return v, nil
		}
		chunk := v.chunks[v.selected]
		return v, func() tea.Msg {
			return messages.ChunkSelected{Chunk: chunk}
		}
	case "esc", "tab":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}
	return v, nil
}

// View renders the source panel.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sources"))
	b.WriteString("\n\n")

	if len(v.chunks) == 0 {
		b.WriteString(v.styles.Muted.Render("No sources yet. Ask a question first."))
		b.WriteString("\n")
	} else {
		for i, c := range v.chunks {
			b.WriteString(v.renderChunk(i, c))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderChunk renders one panel entry: numbered reference plus excerpt.
func (v *View) renderChunk(i int, c domain.SourceChunk) string {
	ref := c.BookTitle
	if d := c.DisplayRef(); d != "" {
		ref += ", " + d
	}
	head := fmt.Sprintf("[%d] %s (%.2f)", i+1, ref, c.Score)

	excerpt := c.Content
	if runes := []rune(excerpt); len(runes) > excerptLimit {
		excerpt = string(runes[:excerptLimit]) + "…"
	}

	if i == v.selected {
		return v.styles.Selected.Render("> "+head) + "\n" +
			v.styles.Muted.Render("    "+excerpt)
	}
	return v.styles.Normal.Render("  "+head) + "\n" +
		v.styles.Muted.Render("    "+excerpt)
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

// Chunks returns the current panel contents.
func (v *View) Chunks() []domain.SourceChunk {
	return v.chunks
}

// Selected returns the selected panel position.
func (v *View) Selected() int {
	return v.selected
}

// SelectedChunk returns the selected chunk, nil when the panel is empty.
func (v *View) SelectedChunk() *domain.SourceChunk {
	if v.selected >= len(v.chunks) {
		return nil
	}
	c := v.chunks[v.selected]
	return &c
}
