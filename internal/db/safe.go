package db

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seralvarez/moodpad/internal/models"
)

// Safe is the adapter boundary around a Store: every persistence failure is
// logged and converted to an empty slice, a nil, or false. Callers above this
// layer never see a persistence error, so a dead database degrades the app
// instead of breaking it.
type Safe struct {
	store  Store
	logger *zap.Logger
}

func NewSafe(store Store, logger *zap.Logger) *Safe {
	return &Safe{store: store, logger: logger}
}

func (s *Safe) CreateConversation(ctx context.Context, title string) *models.Conversation {
	conv, err := s.store.CreateConversation(ctx, title)
	if err != nil {
		s.logger.Error("failed to create conversation", zap.Error(err))
		return nil
	}
	return conv
}

func (s *Safe) ListConversations(ctx context.Context, userID string) []models.Conversation {
	conversations, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list conversations", zap.Error(err))
		return []models.Conversation{}
	}
	return conversations
}

func (s *Safe) RenameConversation(ctx context.Context, id, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	if err := s.store.RenameConversation(ctx, id, title); err != nil {
		s.logger.Error("failed to rename conversation",
			zap.Error(err),
			zap.String("conversation_id", id))
		return false
	}
	return true
}

func (s *Safe) DeleteConversation(ctx context.Context, id string) bool {
	if err := s.store.DeleteConversation(ctx, id); err != nil {
		s.logger.Error("failed to delete conversation",
			zap.Error(err),
			zap.String("conversation_id", id))
		return false
	}
	return true
}

func (s *Safe) SaveMessage(ctx context.Context, msg *models.Message) bool {
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		s.logger.Error("failed to save message",
			zap.Error(err),
			zap.String("conversation_id", msg.ConvID),
			zap.String("role", msg.Role))
		return false
	}
	return true
}

func (s *Safe) ListMessages(ctx context.Context, convID string) []models.Message {
	messages, err := s.store.ListMessages(ctx, convID)
	if err != nil {
		s.logger.Error("failed to list messages",
			zap.Error(err),
			zap.String("conversation_id", convID))
		return []models.Message{}
	}
	return messages
}

func (s *Safe) SaveConversationMood(ctx context.Context, m *models.ConversationMood) bool {
	if err := s.store.SaveConversationMood(ctx, m); err != nil {
		s.logger.Error("failed to save conversation mood",
			zap.Error(err),
			zap.String("conversation_id", m.ConvID))
		return false
	}
	return true
}

func (s *Safe) ListConversationMoods(ctx context.Context, convID string) []models.ConversationMood {
	moods, err := s.store.ListConversationMoods(ctx, convID)
	if err != nil {
		s.logger.Error("failed to list conversation moods",
			zap.Error(err),
			zap.String("conversation_id", convID))
		return []models.ConversationMood{}
	}
	return moods
}

func (s *Safe) SaveMoodEntry(ctx context.Context, e *models.MoodEntry) bool {
	if err := s.store.SaveMoodEntry(ctx, e); err != nil {
		s.logger.Error("failed to save mood entry", zap.Error(err))
		return false
	}
	return true
}

func (s *Safe) ListMoodEntries(ctx context.Context, userID, since string) []models.MoodEntry {
	entries, err := s.store.ListMoodEntries(ctx, userID, since)
	if err != nil {
		s.logger.Error("failed to list mood entries", zap.Error(err))
		return []models.MoodEntry{}
	}
	return entries
}

func (s *Safe) MoodEntryForDate(ctx context.Context, userID, date string) *models.MoodEntry {
	entry, err := s.store.MoodEntryForDate(ctx, userID, date)
	if err != nil {
		s.logger.Error("failed to look up mood entry",
			zap.Error(err),
			zap.String("date", date))
		return nil
	}
	return entry
}

func (s *Safe) DeleteMoodEntry(ctx context.Context, id string) bool {
	if err := s.store.DeleteMoodEntry(ctx, id); err != nil {
		s.logger.Error("failed to delete mood entry",
			zap.Error(err),
			zap.String("entry_id", id))
		return false
	}
	return true
}
