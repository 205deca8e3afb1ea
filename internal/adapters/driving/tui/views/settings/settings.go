// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/keymap"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/messages"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/styles"
	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

// Field positions in the settings form.
const (
	fieldAPIKey = iota
	fieldModel
	fieldLanguage
	fieldBackend
	fieldSave
	fieldCount
)

// View edits application settings field by field.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	settingsService driving.SettingsService

	settings domain.AppSettings
	loaded   bool
	selected int
	editing  bool
	input    textinput.Model
	status   string
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, km *keymap.KeyMap, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 48

	return &View{
		styles:          s,
		keymap:          km,
		settingsService: settingsService,
		input:           ti,
		width:           80,
		height:          24,
	}
}

// Init loads current settings.
func (v *View) Init() tea.Cmd {
	return func() tea.Msg {
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Reset returns the form to navigation mode.
func (v *View) Reset() {
	v.selected = 0
	v.editing = false
	v.status = ""
	v.err = nil
	v.input.Blur()
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.settings = msg.Settings
			v.loaded = true
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.status = "Saved."
		return v, nil
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.editing {
		return v.handleEditKey(msg)
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil
	case "down", "j":
		if v.selected < fieldCount-1 {
			v.selected++
		}
		return v, nil
	case "enter":
		return v.activateField()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}
	return v, nil
}

// activateField begins editing the selected field, or saves.
func (v *View) activateField() (*View, tea.Cmd) {
	v.status = ""
	switch v.selected {
	case fieldLanguage:
		// Two-valued; toggle in place.
		v.settings.Language = v.settings.Language.Other()
		return v, nil
	case fieldSave:
		return v, v.save()
	case fieldAPIKey:
		v.input.EchoMode = textinput.EchoPassword
		v.input.SetValue("")
		v.input.Placeholder = "paste new key, empty keeps current"
	case fieldModel:
		v.input.EchoMode = textinput.EchoNormal
		v.input.SetValue(v.settings.Model)
		v.input.Placeholder = ""
	case fieldBackend:
		v.input.EchoMode = textinput.EchoNormal
		v.input.SetValue(v.settings.BackendURL)
		v.input.Placeholder = ""
	}
	v.editing = true
	return v, v.input.Focus()
}

// handleEditKey processes keyboard input while editing a field.
func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.commitField()
		return v, nil
	case tea.KeyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	default:
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// commitField writes the edited value into the local settings copy.
func (v *View) commitField() {
	value := strings.TrimSpace(v.input.Value())
	switch v.selected {
	case fieldAPIKey:
		// Empty keeps the stored credential; Save handles that.
		v.settings.APIKey = value
	case fieldModel:
		if value != "" {
			v.settings.Model = value
		}
	case fieldBackend:
		if value != "" {
			v.settings.BackendURL = value
		}
	}
	v.editing = false
	v.input.Blur()
}

// save persists the form.
func (v *View) save() tea.Cmd {
	settings := v.settings
	return func() tea.Msg {
		if err := v.settingsService.Save(settings); err != nil {
			return messages.SettingsSaved{Err: err}
		}
		// Re-read so a kept credential shows as configured.
		saved, err := v.settingsService.Get()
		return messages.SettingsSaved{Settings: saved, Err: err}
	}
}

// View renders the settings form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	rows := []struct {
		label string
		value string
	}{
		{"API key", maskAPIKey(v.settings.APIKey)},
		{"Model", v.settings.Model},
		{"Language", v.settings.Language.String()},
		{"Backend URL", v.settings.BackendURL},
		{"Save", ""},
	}

	for i, row := range rows {
		line := row.label
		if row.value != "" {
			line += ": " + row.value
		}
		switch {
		case i == v.selected && v.editing:
			b.WriteString(v.styles.Selected.Render("> " + row.label + ": "))
			b.WriteString(v.styles.InputField.Render(v.input.View()))
		case i == v.selected:
			b.WriteString(v.styles.Selected.Render("> " + line))
		default:
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if v.status != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// maskAPIKey hides the middle of a key, and says when none is set.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("enter: commit | esc: cancel")
	}
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

// Settings returns the form's working copy.
func (v *View) Settings() domain.AppSettings {
	return v.settings
}

// Selected returns the selected field position.
func (v *View) Selected() int {
	return v.selected
}

// Editing reports whether a field edit is in progress.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
