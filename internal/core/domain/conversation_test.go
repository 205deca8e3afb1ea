package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short input unchanged", "What is karma?", "What is karma?"},
		{"exactly fifty runes", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"truncated at fifty runes", strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.input))
		})
	}
}

func TestDeriveTitle_MultibyteSafe(t *testing.T) {
	input := strings.Repeat("ж", 60)

	title := DeriveTitle(input)

	assert.Equal(t, 50, len([]rune(title)))
	assert.Equal(t, strings.Repeat("ж", 50), title)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   \t\n"))
	assert.False(t, IsBlank("question"))
	assert.False(t, IsBlank("  q  "))
}

func TestConversation_Header(t *testing.T) {
	now := time.Now().UTC()
	conv := Conversation{ID: "id-1", Title: "Title", CreatedAt: now, Messages: []Message{{Role: RoleUser}}}

	h := conv.Header()

	assert.Equal(t, "id-1", h.ID)
	assert.Equal(t, "Title", h.Title)
	assert.Equal(t, now, h.CreatedAt)
}

func TestConversation_LastModelSources(t *testing.T) {
	older := []SourceChunk{{ID: "old"}}
	newer := []SourceChunk{{ID: "new"}}
	conv := Conversation{Messages: []Message{
		{Role: RoleUser, Text: "q1"},
		{Role: RoleModel, Text: "a1", Sources: older},
		{Role: RoleUser, Text: "q2"},
		{Role: RoleModel, Text: "a2", Sources: newer},
		{Role: RoleUser, Text: "q3"},
		{Role: RoleModel, Text: "a3"}, // no sources
	}}

	sources := conv.LastModelSources()

	require.Len(t, sources, 1)
	assert.Equal(t, "new", sources[0].ID)
}

func TestConversation_LastModelSources_NoneFound(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleUser, Text: "q"},
		{Role: RoleModel, Text: "a"},
	}}

	assert.Nil(t, conv.LastModelSources())
}

func TestConversation_HistoryWindow_ExcludesPlaceholder(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleUser, Text: "q"},
		{Role: RoleModel, IsThinking: true},
	}}

	window := conv.HistoryWindow()

	require.Len(t, window, 1)
	assert.Equal(t, RoleUser, window[0].Role)
}

func TestConversation_HistoryWindow_CapsAtFifty(t *testing.T) {
	var msgs []Message
	for i := 0; i < 60; i++ {
		msgs = append(msgs, Message{Role: RoleUser, Text: string(rune('a' + i%26))})
	}
	conv := Conversation{Messages: msgs}

	window := conv.HistoryWindow()

	require.Len(t, window, 50)
	// The window keeps the most recent messages.
	assert.Equal(t, msgs[10].Text, window[0].Text)
	assert.Equal(t, msgs[59].Text, window[49].Text)
}

func TestPrependHeader_New(t *testing.T) {
	index := []ConversationHeader{{ID: "b"}, {ID: "c"}}

	updated := PrependHeader(index, ConversationHeader{ID: "a"})

	require.Len(t, updated, 3)
	assert.Equal(t, "a", updated[0].ID)
	assert.Equal(t, "b", updated[1].ID)
}

func TestPrependHeader_MovesExistingToFront(t *testing.T) {
	index := []ConversationHeader{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	updated := PrependHeader(index, ConversationHeader{ID: "b", Title: "updated"})

	require.Len(t, updated, 3)
	assert.Equal(t, "b", updated[0].ID)
	assert.Equal(t, "updated", updated[0].Title)
	assert.Equal(t, "a", updated[1].ID)
	assert.Equal(t, "c", updated[2].ID)
}

func TestPrependHeader_EmptyIndex(t *testing.T) {
	updated := PrependHeader(nil, ConversationHeader{ID: "a"})

	require.Len(t, updated, 1)
	assert.Equal(t, "a", updated[0].ID)
}
