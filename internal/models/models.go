package models

import (
	"strings"
	"time"
)

// DefaultUserID stands in for a real account until authentication exists.
const DefaultUserID = "local-user"

// DefaultTitle is given to conversations created without one.
const DefaultTitle = "New Conversation"

// Roles allowed on a message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID      string `json:"id"`
	ConvID  string `json:"conversation_id"`
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
	// Timestamp orders messages within a conversation; CreatedAt is the row time.
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// MoodEntry is one journal entry. Date is the calendar day the entry belongs
// to, kept separate from CreatedAt so day-based groupings (streaks, "today's
// mood") don't depend on clock precision.
type MoodEntry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Mood           Mood      `json:"mood_type"`
	SecondaryMoods []Mood    `json:"secondary_moods,omitempty"`
	Intensity      int       `json:"intensity"` // 1-5
	Notes          string    `json:"notes,omitempty"`
	Triggers       []string  `json:"triggers,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	Date           string    `json:"date"` // YYYY-MM-DD
}

// ConversationMood annotates a single conversation turn with a mood, separate
// from the daily journal.
type ConversationMood struct {
	ID          string    `json:"id"`
	ConvID      string    `json:"conversation_id"`
	Mood        Mood      `json:"mood_type"`
	Intensity   int       `json:"intensity"` // 1-5
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrendPoint is one (date, mood, intensity) sample in a stats trend.
type TrendPoint struct {
	Date      string `json:"date"`
	Mood      Mood   `json:"mood"`
	Intensity int    `json:"intensity"`
}

// MoodStats is derived from a window of mood entries; it is never persisted.
type MoodStats struct {
	TotalEntries     int          `json:"total_entries"`
	AverageIntensity float64      `json:"average_intensity"`
	MostCommonMood   Mood         `json:"most_common_mood"`
	MoodDistribution map[Mood]int `json:"mood_distribution"`
	WeeklyTrend      []TrendPoint `json:"weekly_trend"`
}

// DateLayout is the calendar-date format used throughout.
const DateLayout = "2006-01-02"

// DateOf maps a timestamp to its calendar date.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidIntensity reports whether v is in the allowed 1-5 range.
func ValidIntensity(v int) bool {
	return v >= 1 && v <= 5
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
// The round-trip check rejects loosely parsed forms like "2026-1-1".
func ValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && DateOf(t) == s
}

const maxTitleLen = 50

// DeriveTitle turns the first user message into a conversation title,
// truncating to 50 characters plus an ellipsis when longer.
func DeriveTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return DefaultTitle
	}
	runes := []rune(content)
	if len(runes) <= maxTitleLen {
		return content
	}
	return string(runes[:maxTitleLen]) + "..."
}
