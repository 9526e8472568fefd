// Package db persists conversations, messages, and mood entries. The Store
// interface is implemented by SQLStore (postgres or sqlite) and MemStore
// (local mode, tests); Safe wraps either one and absorbs failures at the
// adapter boundary.
package db

import (
	"context"

	"github.com/seralvarez/moodpad/internal/models"
)

type Store interface {
	CreateConversation(ctx context.Context, title string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	RenameConversation(ctx context.Context, id, title string) error
	DeleteConversation(ctx context.Context, id string) error

	// SaveMessage inserts the message and bumps the owning conversation's
	// updated_at to the same moment. The first user message of a conversation
	// also sets the conversation title, derived from the message content.
	SaveMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, convID string) ([]models.Message, error)

	SaveConversationMood(ctx context.Context, m *models.ConversationMood) error
	ListConversationMoods(ctx context.Context, convID string) ([]models.ConversationMood, error)

	SaveMoodEntry(ctx context.Context, e *models.MoodEntry) error
	// ListMoodEntries returns entries for the user with date >= since (all
	// entries when since is empty), most recently created first.
	ListMoodEntries(ctx context.Context, userID, since string) ([]models.MoodEntry, error)
	// MoodEntryForDate returns the most recently created entry for the given
	// calendar date, or nil when none exists.
	MoodEntryForDate(ctx context.Context, userID, date string) (*models.MoodEntry, error)
	DeleteMoodEntry(ctx context.Context, id string) error

	Close() error
}
