package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui/messages"
	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

// MockChatService implements driving.ChatService for testing.
type MockChatService struct {
	conv       *domain.Conversation
	sources    []domain.SourceChunk
	newChatted bool
}

func (m *MockChatService) Submit(
	context.Context, string, driving.TurnEvents,
) (*domain.Conversation, error) {
	return m.conv, nil
}

func (m *MockChatService) Active() *domain.Conversation { return m.conv }

func (m *MockChatService) CurrentSources() []domain.SourceChunk { return m.sources }

func (m *MockChatService) Streaming() bool { return false }

func (m *MockChatService) Conversations() []domain.ConversationHeader { return nil }

func (m *MockChatService) LoadIndex(context.Context) error { return nil }

func (m *MockChatService) Load(context.Context, string) error { return nil }

func (m *MockChatService) NewChat() { m.newChatted = true }

// MockReaderService implements driving.ReaderService for testing.
type MockReaderService struct {
	doc *domain.DocumentView
}

func (m *MockReaderService) OpenChunk(
	context.Context, domain.SourceChunk, domain.AppSettings,
) (*domain.DocumentView, error) {
	return m.doc, nil
}

func (m *MockReaderService) OpenPath(
	context.Context, string, string, domain.AppSettings,
) (*domain.DocumentView, error) {
	return m.doc, nil
}

func (m *MockReaderService) FollowLink(
	context.Context, string, string, domain.AppSettings,
) (*domain.DocumentView, error) {
	return m.doc, nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	settings domain.AppSettings
}

func (m *MockSettingsService) Get() (domain.AppSettings, error) { return m.settings, nil }

func (m *MockSettingsService) Save(domain.AppSettings) error { return nil }

func testPorts() *Ports {
	return &Ports{
		Chat:     &MockChatService{},
		Reader:   &MockReaderService{},
		Settings: &MockSettingsService{settings: domain.DefaultAppSettings()},
	}
}

func newReadyApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	ready, ok := model.(*App)
	require.True(t, ok)
	return ready
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(testPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_ValidatesPorts(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Ports)
		wantErr error
	}{
		{"missing chat", func(p *Ports) { p.Chat = nil }, ErrMissingChatService},
		{"missing reader", func(p *Ports) { p.Reader = nil }, ErrMissingReaderService},
		{"missing settings", func(p *Ports) { p.Settings = nil }, ErrMissingSettingsService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ports := testPorts()
			tt.mutate(ports)

			_, err := NewApp(ports)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApp_WithContext(t *testing.T) {
	app, err := NewApp(testPorts())
	require.NoError(t, err)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	result := app.WithContext(ctx)

	assert.Equal(t, app, result)
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_WindowSizeMakesReady(t *testing.T) {
	app := newReadyApp(t, testPorts())

	assert.True(t, app.Ready())
	assert.NotEqual(t, "Initialising...", app.View())
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, err := NewApp(testPorts())
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newReadyApp(t, testPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_GlobalNavigation(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyType
		want messages.ViewType
	}{
		{"ctrl+h opens history", tea.KeyCtrlH, messages.ViewHistory},
		{"ctrl+s opens settings", tea.KeyCtrlS, messages.ViewSettings},
		{"tab opens sources", tea.KeyTab, messages.ViewSources},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newReadyApp(t, testPorts())

			model, _ := app.Update(tea.KeyMsg{Type: tt.key})

			updated, ok := model.(*App)
			require.True(t, ok)
			assert.Equal(t, tt.want, updated.CurrentView())
		})
	}
}

func TestApp_CtrlNStartsNewChat(t *testing.T) {
	ports := testPorts()
	chat, ok := ports.Chat.(*MockChatService)
	require.True(t, ok)
	app := newReadyApp(t, ports)
	app.currentView = messages.ViewHistory

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlN})

	updated, isApp := model.(*App)
	require.True(t, isApp)
	assert.Equal(t, messages.ViewChat, updated.CurrentView())
	assert.True(t, chat.newChatted)
}

func TestApp_ViewChangedSwitches(t *testing.T) {
	app := newReadyApp(t, testPorts())
	app.currentView = messages.ViewHistory

	model, _ := app.Update(messages.ViewChanged{View: messages.ViewChat})

	updated, ok := model.(*App)
	require.True(t, ok)
	assert.Equal(t, messages.ViewChat, updated.CurrentView())
}

func TestApp_ChunkSelectedOpensReader(t *testing.T) {
	app := newReadyApp(t, testPorts())
	app.currentView = messages.ViewSources

	model, cmd := app.Update(messages.ChunkSelected{
		Chunk: domain.SourceChunk{ID: "bg-2-13"},
	})

	updated, ok := model.(*App)
	require.True(t, ok)
	assert.Equal(t, messages.ViewReader, updated.CurrentView())
	require.NotNil(t, cmd)

	loaded, isLoaded := cmd().(messages.DocumentLoaded)
	require.True(t, isLoaded)
	assert.NoError(t, loaded.Err)
}

func TestApp_ConversationOpenedReturnsToChat(t *testing.T) {
	ports := testPorts()
	chat, ok := ports.Chat.(*MockChatService)
	require.True(t, ok)
	chat.conv = &domain.Conversation{ID: "c1", Title: "Loaded"}
	app := newReadyApp(t, ports)
	app.currentView = messages.ViewHistory

	model, _ := app.Update(messages.ConversationOpened{ID: "c1"})

	updated, isApp := model.(*App)
	require.True(t, isApp)
	assert.Equal(t, messages.ViewChat, updated.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newReadyApp(t, testPorts())

	model, _ := app.Update(messages.ErrorOccurred{Err: domain.ErrNotFound})

	updated, ok := model.(*App)
	require.True(t, ok)
	assert.ErrorIs(t, updated.Err(), domain.ErrNotFound)
}
