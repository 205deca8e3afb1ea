package sources

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
	sources []domain.SourceChunk
}

func (m *MockChatService) Submit(
	context.Context, string, driving.TurnEvents,
) (*domain.Conversation, error) {
	return nil, nil
}

func (m *MockChatService) Active() *domain.Conversation { return nil }

func (m *MockChatService) CurrentSources() []domain.SourceChunk { return m.sources }

func (m *MockChatService) Streaming() bool { return false }

func (m *MockChatService) Conversations() []domain.ConversationHeader { return nil }

func (m *MockChatService) LoadIndex(context.Context) error { return nil }

func (m *MockChatService) Load(context.Context, string) error { return nil }

func (m *MockChatService) NewChat() {}

func testChunks() []domain.SourceChunk {
	return []domain.SourceChunk{
		{
			ID:        "bg-2-13",
			BookTitle: "Bhagavad-gita As It Is",
			Chapter:   "2",
			Verse:     "13",
			Content:   "As the embodied soul continuously passes...",
			Score:     0.92,
		},
		{
			ID:        "sb-1-1-1",
			BookTitle: "Srimad-Bhagavatam",
			Chapter:   "1",
			Content:   "O my Lord, Sri Krsna...",
			Score:     0.81,
		},
	}
}

func TestView_InitPullsCurrentSources(t *testing.T) {
	mock := &MockChatService{sources: testChunks()}
	view := NewView(nil, nil, mock)

	cmd := view.Init()

	assert.Nil(t, cmd)
	assert.Len(t, view.Chunks(), 2)
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil, nil, &MockChatService{})
	view.SetChunks(testChunks())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, view.Selected())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, view.Selected())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, view.Selected())
}

func TestView_EnterSelectsChunk(t *testing.T) {
	view := NewView(nil, nil, &MockChatService{})
	view.SetChunks(testChunks())
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	selected, ok := msg.(messages.ChunkSelected)
	require.True(t, ok)
	assert.Equal(t, "sb-1-1-1", selected.Chunk.ID)
}

func TestView_EnterOnEmptyPanelDoesNothing(t *testing.T) {
	view := NewView(nil, nil, &MockChatService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_SourcesUpdatedReplacesPanel(t *testing.T) {
	view := NewView(nil, nil, &MockChatService{})
	view.SetChunks(testChunks())
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})

	// Shrinking the set resets a now out-of-range selection.
	view, _ = view.Update(messages.SourcesUpdated{
		Sources: []domain.SourceChunk{{ID: "x"}},
	})

	assert.Len(t, view.Chunks(), 1)
	assert.Equal(t, 0, view.Selected())
}

func TestView_EscReturnsToChat(t *testing.T) {
	view := NewView(nil, nil, &MockChatService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewChat, changed.View)
}

func TestView_RendersChunks(t *testing.T) {
	view := NewView(nil, nil, &MockChatService{})
	view.SetDimensions(100, 30)
	view.SetChunks(testChunks())

	out := view.View()

	assert.Contains(t, out, "[1] Bhagavad-gita As It Is, Chapter 2, Verse 13 (0.92)")
	assert.Contains(t, out, "[2] Srimad-Bhagavatam, Chapter 1 (0.81)")
}

func TestView_RendersEmptyState(t *testing.T) {
	view := NewView(nil, nil, &MockChatService{})
	view.SetDimensions(80, 24)

	assert.Contains(t, view.View(), "No sources yet")
}

func TestView_SelectedChunk(t *testing.T) {
	view := NewView(nil, nil, &MockChatService{})

	assert.Nil(t, view.SelectedChunk())

	view.SetChunks(testChunks())
	require.NotNil(t, view.SelectedChunk())
	assert.Equal(t, "bg-2-13", view.SelectedChunk().ID)
}
