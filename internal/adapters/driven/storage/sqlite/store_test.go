package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shukabase/shuka-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func testConversation(id, title string) *domain.Conversation {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Conversation{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		Messages: []domain.Message{
			{Role: domain.RoleUser, Text: "What is karma?", Timestamp: now},
			{
				Role: domain.RoleModel,
				Text: "Action performed for fruits [[/books/en/bg/3/9/index.html]].",
				AgentSteps: []domain.AgentStep{
					{Type: domain.StepThought, Content: "Searching"},
				},
				Sources: []domain.SourceChunk{
					{ID: "/books/en/bg/3/9/index.html", BookTitle: "Bhagavad-gita As It Is", Chapter: "3", Verse: "9", Content: "Work done as a sacrifice...", Score: 0.88},
				},
				Timestamp: now,
			},
		},
	}
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "sessions.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	assert.NoError(t, store.db.Ping())
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conv := testConversation("conv-1", "What is karma?")
	require.NoError(t, store.Save(ctx, conv))

	loaded, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, loaded.ID)
	assert.Equal(t, conv.Title, loaded.Title)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, domain.RoleUser, loaded.Messages[0].Role)
	require.Len(t, loaded.Messages[1].Sources, 1)
	assert.Equal(t, "/books/en/bg/3/9/index.html", loaded.Messages[1].Sources[0].ID)
	assert.Equal(t, domain.Locator("3"), loaded.Messages[1].Sources[0].Chapter)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Save_ReplacesExisting(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conv := testConversation("conv-1", "What is karma?")
	require.NoError(t, store.Save(ctx, conv))

	conv.Messages = append(conv.Messages, domain.Message{
		Role: domain.RoleUser, Text: "And dharma?", Timestamp: time.Now().UTC(),
	})
	require.NoError(t, store.Save(ctx, conv))

	loaded, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 3)

	headers, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, headers, 1)
}

func TestStore_Save_InvalidInput(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(ctx, &domain.Conversation{}), domain.ErrInvalidInput)
}

func TestStore_List_MostRecentFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testConversation("conv-1", "First")))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Save(ctx, testConversation("conv-2", "Second")))
	time.Sleep(10 * time.Millisecond)

	// Re-saving conv-1 moves it to the front.
	require.NoError(t, store.Save(ctx, testConversation("conv-1", "First")))

	headers, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, headers, 2)
	assert.Equal(t, "conv-1", headers[0].ID)
	assert.Equal(t, "conv-2", headers[1].ID)
}

func TestStore_List_Empty(t *testing.T) {
	store := setupTestStore(t)

	headers, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, headers)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testConversation("conv-1", "First")))
	require.NoError(t, store.Delete(ctx, "conv-1"))

	_, err := store.Get(ctx, "conv-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting a missing conversation is not an error.
	assert.NoError(t, store.Delete(ctx, "missing"))
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	tempDir := t.TempDir()

	store1, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store1.Save(context.Background(), testConversation("conv-1", "First")))
	require.NoError(t, store1.Close())

	// Reopening runs migrate again; existing data survives.
	store2, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.Get(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "First", loaded.Title)
}
