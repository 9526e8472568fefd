package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/seralvarez/moodpad/internal/models"
)

// The same statements run on both drivers: sqlite accepts $N placeholders and
// both support RETURNING and CHECK. Set-valued columns are stored as JSON text.
const schema = `
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT 'New Conversation',
    user_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
    content TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS moods (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    mood_type TEXT NOT NULL,
    intensity INTEGER NOT NULL CHECK (intensity BETWEEN 1 AND 5),
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS mood_entries (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    mood_type TEXT NOT NULL,
    secondary_moods TEXT NOT NULL DEFAULT '[]',
    intensity INTEGER NOT NULL CHECK (intensity BETWEEN 1 AND 5),
    notes TEXT NOT NULL DEFAULT '',
    triggers TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL,
    date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_conv ON messages(conversation_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_mood_entries_user_date ON mood_entries(user_id, date);
`

type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects with the given driver ("postgres" or "sqlite3") and ensures
// the schema exists.
func Open(driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLStore{db: db, now: time.Now}, nil
}

func (s *SQLStore) CreateConversation(ctx context.Context, title string) (*models.Conversation, error) {
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

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO conversations (id, title, user_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)`,
		conv.ID, conv.Title, conv.UserID, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *SQLStore) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, title, user_id, created_at, updated_at
        FROM conversations
        WHERE user_id = $1
        ORDER BY updated_at DESC`, userID)
	if err != nil {
		return []models.Conversation{}, err
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.UserID, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return []models.Conversation{}, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

func (s *SQLStore) RenameConversation(ctx context.Context, id, title string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET title = $1 WHERE id = $2", title, id)
	return err
}

func (s *SQLStore) DeleteConversation(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// FK cascade covers these on postgres; done explicitly so sqlite builds
	// without PRAGMA support behave the same.
	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE conversation_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM moods WHERE conversation_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM conversations WHERE id = $1", id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	now := s.now()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}
	msg.CreatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var prior int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE conversation_id = $1", msg.ConvID).Scan(&prior); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO messages (id, conversation_id, role, content, timestamp, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, msg.ConvID, msg.Role, msg.Content, msg.Timestamp, msg.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE conversations SET updated_at = $1 WHERE id = $2", msg.Timestamp, msg.ConvID); err != nil {
		return err
	}

	if msg.Role == models.RoleUser && prior == 0 {
		if _, err := tx.ExecContext(ctx,
			"UPDATE conversations SET title = $1 WHERE id = $2",
			models.DeriveTitle(msg.Content), msg.ConvID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLStore) ListMessages(ctx context.Context, convID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, conversation_id, role, content, timestamp, created_at
        FROM messages
        WHERE conversation_id = $1
        ORDER BY timestamp ASC`, convID)
	if err != nil {
		return []models.Message{}, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConvID, &msg.Role, &msg.Content, &msg.Timestamp, &msg.CreatedAt); err != nil {
			return []models.Message{}, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *SQLStore) SaveConversationMood(ctx context.Context, m *models.ConversationMood) error {
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

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO moods (id, conversation_id, mood_type, intensity, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ConvID, m.Mood, m.Intensity, m.Description, m.CreatedAt)
	return err
}

func (s *SQLStore) ListConversationMoods(ctx context.Context, convID string) ([]models.ConversationMood, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, conversation_id, mood_type, intensity, description, created_at
        FROM moods
        WHERE conversation_id = $1
        ORDER BY created_at ASC`, convID)
	if err != nil {
		return []models.ConversationMood{}, err
	}
	defer rows.Close()

	moods := make([]models.ConversationMood, 0)
	for rows.Next() {
		var m models.ConversationMood
		if err := rows.Scan(&m.ID, &m.ConvID, &m.Mood, &m.Intensity, &m.Description, &m.CreatedAt); err != nil {
			return []models.ConversationMood{}, err
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

func (s *SQLStore) SaveMoodEntry(ctx context.Context, e *models.MoodEntry) error {
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

	secondary, err := json.Marshal(e.SecondaryMoods)
	if err != nil {
		return err
	}
	triggers, err := json.Marshal(e.Triggers)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO mood_entries (id, user_id, mood_type, secondary_moods, intensity, notes, triggers, created_at, date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.UserID, e.Mood, string(secondary), e.Intensity, e.Notes, string(triggers), e.CreatedAt, e.Date)
	return err
}

func (s *SQLStore) ListMoodEntries(ctx context.Context, userID, since string) ([]models.MoodEntry, error) {
	query := `
        SELECT id, user_id, mood_type, secondary_moods, intensity, notes, triggers, created_at, date
        FROM mood_entries
        WHERE user_id = $1`
	args := []any{userID}
	if since != "" {
		query += " AND date >= $2"
		args = append(args, since)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return []models.MoodEntry{}, err
	}
	defer rows.Close()

	entries := make([]models.MoodEntry, 0)
	for rows.Next() {
		e, err := scanMoodEntry(rows)
		if err != nil {
			return []models.MoodEntry{}, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *SQLStore) MoodEntryForDate(ctx context.Context, userID, date string) (*models.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, user_id, mood_type, secondary_moods, intensity, notes, triggers, created_at, date
        FROM mood_entries
        WHERE user_id = $1 AND date = $2
        ORDER BY created_at DESC
        LIMIT 1`, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanMoodEntry(rows)
}

func (s *SQLStore) DeleteMoodEntry(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM mood_entries WHERE id = $1", id)
	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func scanMoodEntry(rows *sql.Rows) (*models.MoodEntry, error) {
	var e models.MoodEntry
	var secondary, triggers string
	if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &secondary, &e.Intensity,
		&e.Notes, &triggers, &e.CreatedAt, &e.Date); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(secondary), &e.SecondaryMoods); err != nil {
		return nil, fmt.Errorf("failed to decode secondary moods: %w", err)
	}
	if err := json.Unmarshal([]byte(triggers), &e.Triggers); err != nil {
		return nil, fmt.Errorf("failed to decode triggers: %w", err)
	}
	return &e, nil
}
