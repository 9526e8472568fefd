package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/seralvarez/moodpad/internal/db"
	"github.com/seralvarez/moodpad/internal/models"
)

// brokenStore fails every operation, standing in for an unreachable database.
type brokenStore struct{}

var errDown = errors.New("database unreachable")

func (brokenStore) CreateConversation(context.Context, string) (*models.Conversation, error) {
	return nil, errDown
}
func (brokenStore) ListConversations(context.Context, string) ([]models.Conversation, error) {
	return nil, errDown
}
func (brokenStore) RenameConversation(context.Context, string, string) error { return errDown }
func (brokenStore) DeleteConversation(context.Context, string) error         { return errDown }
func (brokenStore) SaveMessage(context.Context, *models.Message) error       { return errDown }
func (brokenStore) ListMessages(context.Context, string) ([]models.Message, error) {
	return nil, errDown
}
func (brokenStore) SaveConversationMood(context.Context, *models.ConversationMood) error {
	return errDown
}
func (brokenStore) ListConversationMoods(context.Context, string) ([]models.ConversationMood, error) {
	return nil, errDown
}
func (brokenStore) SaveMoodEntry(context.Context, *models.MoodEntry) error { return errDown }
func (brokenStore) ListMoodEntries(context.Context, string, string) ([]models.MoodEntry, error) {
	return nil, errDown
}
func (brokenStore) MoodEntryForDate(context.Context, string, string) (*models.MoodEntry, error) {
	return nil, errDown
}
func (brokenStore) DeleteMoodEntry(context.Context, string) error { return errDown }
func (brokenStore) Close() error                                  { return nil }

func TestSafeSwallowsFailures(t *testing.T) {
	ctx := context.Background()
	safe := db.NewSafe(brokenStore{}, zap.NewNop())

	assert.Nil(t, safe.CreateConversation(ctx, "x"))
	assert.Empty(t, safe.ListConversations(ctx, models.DefaultUserID))
	assert.NotNil(t, safe.ListConversations(ctx, models.DefaultUserID))
	assert.False(t, safe.RenameConversation(ctx, "id", "title"))
	assert.False(t, safe.DeleteConversation(ctx, "id"))
	assert.False(t, safe.SaveMessage(ctx, &models.Message{}))
	assert.Empty(t, safe.ListMessages(ctx, "id"))
	assert.False(t, safe.SaveMoodEntry(ctx, &models.MoodEntry{Mood: models.MoodHappy, Intensity: 3}))
	assert.Empty(t, safe.ListMoodEntries(ctx, models.DefaultUserID, ""))
	assert.Nil(t, safe.MoodEntryForDate(ctx, models.DefaultUserID, "2026-08-28"))
	assert.False(t, safe.DeleteMoodEntry(ctx, "id"))
}

func TestSafeRenameRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemStore()
	safe := db.NewSafe(store, zap.NewNop())

	conv := safe.CreateConversation(ctx, "keep me")
	assert.NotNil(t, conv)

	assert.False(t, safe.RenameConversation(ctx, conv.ID, "   "))

	conversations := safe.ListConversations(ctx, models.DefaultUserID)
	assert.Equal(t, "keep me", conversations[0].Title)
}

func TestSafeRenameTrims(t *testing.T) {
	ctx := context.Background()
	safe := db.NewSafe(db.NewMemStore(), zap.NewNop())

	conv := safe.CreateConversation(ctx, "old")
	assert.True(t, safe.RenameConversation(ctx, conv.ID, "  new title  "))

	conversations := safe.ListConversations(ctx, models.DefaultUserID)
	assert.Equal(t, "new title", conversations[0].Title)
}
