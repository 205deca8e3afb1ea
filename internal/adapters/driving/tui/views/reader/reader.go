// Package reader provides the full-chapter document reader view for the TUI.
package reader

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/keymap"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/messages"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/styles"
	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

// View displays a fetched corpus document with scrolling, link cycling,
// and a language toggle.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	readerService   driving.ReaderService
	settingsService driving.SettingsService
	ctx             context.Context

	document     *domain.DocumentView
	lines        []string
	scrollOffset int
	linkIndex    int
	loading      bool
	err          error

	// seq identifies the newest fetch; older responses are dropped.
	seq int

	width  int
	height int
	ready  bool
}

// NewView creates a new reader view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	readerService driving.ReaderService,
	settingsService driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:          s,
		keymap:          km,
		readerService:   readerService,
		settingsService: settingsService,
		ctx:             context.Background(),
		linkIndex:       -1,
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// OpenChunk starts loading the chapter behind a retrieved chunk.
func (v *View) OpenChunk(chunk domain.SourceChunk) tea.Cmd {
	v.beginLoad()
	seq := v.seq
	return func() tea.Msg {
		settings, err := v.settingsService.Get()
		if err != nil {
			return messages.DocumentLoaded{Seq: seq, Err: err}
		}
		doc, err := v.readerService.OpenChunk(v.ctx, chunk, settings)
		return messages.DocumentLoaded{Seq: seq, View: doc, Err: err}
	}
}

// openPath starts loading a corpus path directly.
func (v *View) openPath(path, title string) tea.Cmd {
	v.beginLoad()
	seq := v.seq
	return func() tea.Msg {
		settings, err := v.settingsService.Get()
		if err != nil {
			return messages.DocumentLoaded{Seq: seq, Err: err}
		}
		doc, err := v.readerService.OpenPath(v.ctx, path, title, settings)
		return messages.DocumentLoaded{Seq: seq, View: doc, Err: err}
	}
}

// followLink starts loading the target of an in-document link.
func (v *View) followLink(href string) tea.Cmd {
	current := v.document.Path
	v.beginLoad()
	seq := v.seq
	return func() tea.Msg {
		settings, err := v.settingsService.Get()
		if err != nil {
			return messages.DocumentLoaded{Seq: seq, Err: err}
		}
		doc, err := v.readerService.FollowLink(v.ctx, current, href, settings)
		return messages.DocumentLoaded{Seq: seq, View: doc, Err: err}
	}
}

// beginLoad advances the fetch sequence and marks the view loading.
func (v *View) beginLoad() {
	v.seq++
	v.loading = true
	v.err = nil
}

// Update handles messages for the reader view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentLoaded:
		if msg.Seq != v.seq {
			// A newer fetch superseded this one.
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.document = msg.View
		v.scrollOffset = 0
		v.linkIndex = -1
		v.wrapContent()
		return v, nil
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		v.scrollOffset += v.visibleLines()
		if max := v.maxScrollOffset(); v.scrollOffset > max {
			v.scrollOffset = max
		}
	case "g", "home":
		v.scrollOffset = 0
	case "G", "end":
		v.scrollOffset = v.maxScrollOffset()
	case "tab":
		v.cycleLink()
	case "enter":
		if v.document != nil && v.linkIndex >= 0 && v.linkIndex < len(v.document.Links) {
			return v, v.followLink(v.document.Links[v.linkIndex].Href)
		}
	case "l":
		if v.document != nil {
			return v, v.openPath(swapLanguagePath(v.document.Path), "")
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSources}
		}
	}
	return v, nil
}

// cycleLink advances the link selection, wrapping past the end back to none.
func (v *View) cycleLink() {
	if v.document == nil || len(v.document.Links) == 0 {
		return
	}
	v.linkIndex++
	if v.linkIndex >= len(v.document.Links) {
		v.linkIndex = -1
	}
}

// swapLanguagePath flips a corpus path between the two language trees.
func swapLanguagePath(path string) string {
	if strings.Contains(path, "/books/en/") {
		return strings.Replace(path, "/books/en/", "/books/ru/", 1)
	}
	return strings.Replace(path, "/books/ru/", "/books/en/", 1)
}

// wrapContent renders the document text into wrapped display lines.
func (v *View) wrapContent() {
	v.lines = nil
	if v.document == nil {
		return
	}

	contentWidth := v.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	text := domain.StripTags(v.document.HTML)
	for _, line := range strings.Split(text, "\n") {
		if len(line) <= contentWidth {
			v.lines = append(v.lines, line)
			continue
		}
		runes := []rune(line)
		for len(runes) > contentWidth {
			v.lines = append(v.lines, string(runes[:contentWidth]))
			runes = runes[contentWidth:]
		}
		if len(runes) > 0 {
			v.lines = append(v.lines, string(runes))
		}
	}
}

// visibleLines returns the number of content lines that fit.
func (v *View) visibleLines() int {
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

// View renders the reader view.
func (v *View) View() string {
	var b strings.Builder

	title := "Reader"
	if v.document != nil && v.document.Title != "" {
		title = v.document.Title
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.document == nil:
		b.WriteString(v.styles.Muted.Render("Select a source to open it here."))
		b.WriteString("\n")
	default:
		visible := v.visibleLines()
		for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.styles.Normal.Render(v.lines[i]))
			b.WriteString("\n")
		}
		b.WriteString(v.renderLinkBar())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderLinkBar shows the currently selected in-document link.
func (v *View) renderLinkBar() string {
	if v.document == nil || len(v.document.Links) == 0 {
		return ""
	}
	if v.linkIndex < 0 {
		return v.styles.Muted.Render(fmt.Sprintf("\n%d links (tab to cycle)", len(v.document.Links))) + "\n"
	}
	link := v.document.Links[v.linkIndex]
	label := link.Text
	if label == "" {
		label = link.Href
	}
	return v.styles.Citation.Render(fmt.Sprintf("\n→ [%d/%d] %s", v.linkIndex+1, len(v.document.Links), label)) + "\n"
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	hints := make([]string, 0, 6)
	for _, bind := range v.keymap.ReaderHelp() {
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
	v.wrapContent()
}

// Document returns the loaded document, nil before the first open.
func (v *View) Document() *domain.DocumentView {
	return v.document
}

// LinkIndex returns the selected link position, -1 for none.
func (v *View) LinkIndex() int {
	return v.linkIndex
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
