package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seralvarez/moodpad/internal/models"
)

// MemStore keeps everything in process memory. It backs local mode, where
// persistence is unconfigured and history is discarded on restart, and the
// tests.
type MemStore struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message
	moods         map[string][]models.ConversationMood
	entries       []models.MoodEntry
	now           func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]models.Message),
		moods:         make(map[string][]models.ConversationMood),
		now:           time.Now,
	}
}

func (s *MemStore) CreateConversation(ctx context.Context, title string) (*models.Conversation, error) {
	if title == "" {
		title = models.DefaultTitle
	}
	now := s.now()
	conv := &models.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		UserID:    models.DefaultUserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conv.ID] = conv

	out := *conv
	return &out, nil
}

func (s *MemStore) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		if conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *MemStore) RenameConversation(ctx context.Context, id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return fmt.Errorf("conversation not found: %s", id)
	}
	conv.Title = title
	return nil
}

func (s *MemStore) DeleteConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return fmt.Errorf("conversation not found: %s", id)
	}
	delete(s.conversations, id)
	delete(s.messages, id)
	delete(s.moods, id)
	return nil
}

func (s *MemStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	now := s.now()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}
	msg.CreatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[msg.ConvID]
	if !ok {
		return fmt.Errorf("conversation not found: %s", msg.ConvID)
	}

	if msg.Role == models.RoleUser && len(s.messages[msg.ConvID]) == 0 {
		conv.Title = models.DeriveTitle(msg.Content)
	}
	s.messages[msg.ConvID] = append(s.messages[msg.ConvID], *msg)
	conv.UpdatedAt = msg.Timestamp
	return nil
}

func (s *MemStore) ListMessages(ctx context.Context, convID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages[convID]))
	copy(out, s.messages[convID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *MemStore) SaveConversationMood(ctx context.Context, m *models.ConversationMood) error {
	if !models.ValidMood(m.Mood) {
		return fmt.Errorf("unknown mood category: %s", m.Mood)
	}
	if !models.ValidIntensity(m.Intensity) {
		return fmt.Errorf("intensity out of range: %d", m.Intensity)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[m.ConvID]; !ok {
		return fmt.Errorf("conversation not found: %s", m.ConvID)
	}
	s.moods[m.ConvID] = append(s.moods[m.ConvID], *m)
	return nil
}

func (s *MemStore) ListConversationMoods(ctx context.Context, convID string) ([]models.ConversationMood, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ConversationMood, len(s.moods[convID]))
	copy(out, s.moods[convID])
	return out, nil
}

func (s *MemStore) SaveMoodEntry(ctx context.Context, e *models.MoodEntry) error {
	if !models.ValidMood(e.Mood) {
		return fmt.Errorf("unknown mood category: %s", e.Mood)
	}
	if !models.ValidIntensity(e.Intensity) {
		return fmt.Errorf("intensity out of range: %d", e.Intensity)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.UserID == "" {
		e.UserID = models.DefaultUserID
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if e.Date == "" {
		e.Date = models.DateOf(e.CreatedAt)
	} else if !models.ValidDate(e.Date) {
		return fmt.Errorf("malformed entry date: %s", e.Date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *e)
	return nil
}

func (s *MemStore) ListMoodEntries(ctx context.Context, userID, since string) ([]models.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MoodEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		if since != "" && e.Date < since {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemStore) MoodEntryForDate(ctx context.Context, userID, date string) (*models.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.MoodEntry
	for i := range s.entries {
		e := s.entries[i]
		if e.UserID != userID || e.Date != date {
			continue
		}
		if found == nil || e.CreatedAt.After(found.CreatedAt) {
			copied := e
			found = &copied
		}
	}
	return found, nil
}

func (s *MemStore) DeleteMoodEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("mood entry not found: %s", id)
}

func (s *MemStore) Close() error {
	return nil
}
