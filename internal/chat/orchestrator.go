// Package chat decides, per user turn, which generation path to take and
// keeps the persisted conversation in step with what the user sees.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/seralvarez/moodpad/internal/db"
	"github.com/seralvarez/moodpad/internal/llm"
	"github.com/seralvarez/moodpad/internal/models"
)

var (
	// ErrBusy rejects a submit while a previous turn is still pending.
	ErrBusy = errors.New("a turn is already in progress")
	// ErrEmptyInput rejects whitespace-only input.
	ErrEmptyInput = errors.New("message text is empty")
)

// Session carries the per-call settings that used to be ambient flags:
// whether advanced routing is on and which model the user selected. The
// selected model only matters in advanced mode.
type Session struct {
	AdvancedMode bool
	Model        string
}

// Routes taken by a turn.
const (
	RouteSupportive = "supportive"
	RouteScript     = "script"
	RouteNarration  = "narration"
	RouteStory      = "story"
	RouteGeneral    = "general"
)

var moodKeywords = []string{
	"feel", "feeling", "mood", "sad", "happy", "anxious", "stressed",
	"overwhelmed", "angry", "depressed", "lonely", "tired",
}

// Creative keyword families in precedence order: script beats narration
// beats story.
var (
	scriptKeywords    = []string{"script", "screenplay", "dialogue"}
	narrationKeywords = []string{"narrat", "voiceover", "voice over"}
	storyKeywords     = []string{"story", "tale", "poem", "creative writing"}
)

const historyLimit = 20

type Orchestrator struct {
	store        *db.Safe
	gen          llm.Generator
	fallback     *llm.Fallback
	logger       *zap.Logger
	now          func() time.Time
	defaultModel string

	// Single anonymous user, so one flag guards double submission.
	inFlight atomic.Bool
}

func NewOrchestrator(store *db.Safe, gen llm.Generator, fallback *llm.Fallback, defaultModel string, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:        store,
		gen:          gen,
		fallback:     fallback,
		logger:       logger,
		now:          time.Now,
		defaultModel: defaultModel,
	}
}

// TurnResult is everything a turn produced. AssistantMessage is always
// non-nil with non-empty content; UsedFallback marks a canned reply.
type TurnResult struct {
	ConversationID   string               `json:"conversation_id"`
	Conversation     *models.Conversation `json:"conversation,omitempty"`
	UserMessage      *models.Message      `json:"user_message"`
	AssistantMessage *models.Message      `json:"assistant_message"`
	Route            string               `json:"route"`
	UsedFallback     bool                 `json:"used_fallback"`
}

// HandleTurn runs one user turn end to end: persist the user message, route
// to a generation path, persist the reply. Generation failures of any kind
// collapse into a fallback reply; the turn itself only fails on empty input
// or a concurrent submit.
func (o *Orchestrator) HandleTurn(ctx context.Context, sess Session, convID, text string) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer o.inFlight.Store(false)

	result := &TurnResult{}
	if convID == "" {
		if conv := o.store.CreateConversation(ctx, ""); conv != nil {
			convID = conv.ID
			result.Conversation = conv
		}
	}
	result.ConversationID = convID

	history := o.store.ListMessages(ctx, convID)
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	userMsg := &models.Message{ConvID: convID, Role: models.RoleUser, Content: text}
	o.store.SaveMessage(ctx, userMsg)
	result.UserMessage = userMsg

	req, route := o.route(ctx, sess, history, text)
	result.Route = route

	reply, err := o.gen.Generate(ctx, req)
	reply = strings.TrimSpace(reply)
	if err != nil || reply == "" {
		if err != nil {
			o.logger.Warn("generation failed, using fallback",
				zap.Error(err),
				zap.String("route", route),
				zap.String("model", req.Model))
		}
		reply = o.fallback.Reply(text)
		result.UsedFallback = true
	}

	assistantMsg := &models.Message{ConvID: convID, Role: models.RoleAssistant, Content: reply}
	o.store.SaveMessage(ctx, assistantMsg)
	result.AssistantMessage = assistantMsg

	return result, nil
}

// route picks the generation path. Precedence: supportive (mood keyword plus
// a mood recorded today), then creative, then general. Outside advanced mode
// everything is general chat on the fixed default model.
func (o *Orchestrator) route(ctx context.Context, sess Session, history []models.Message, text string) (llm.Request, string) {
	req := llm.Request{
		Model:       o.defaultModel,
		History:     history,
		Input:       text,
		MaxTokens:   300,
		Temperature: 0.7,
	}

	if !sess.AdvancedMode {
		req.System = generalPrompt
		return req, RouteGeneral
	}

	if sess.Model != "" {
		req.Model = sess.Model
	}

	if containsAny(text, moodKeywords) {
		today := models.DateOf(o.now())
		if entry := o.store.MoodEntryForDate(ctx, models.DefaultUserID, today); entry != nil {
			req.System = fmt.Sprintf(supportivePrompt, entry.Mood, entry.Intensity)
			return req, RouteSupportive
		}
	}

	switch {
	case containsAny(text, scriptKeywords):
		req.System = scriptPrompt
		return req, RouteScript
	case containsAny(text, narrationKeywords):
		req.System = narrationPrompt
		return req, RouteNarration
	case containsAny(text, storyKeywords):
		req.System = storyPrompt
		return req, RouteStory
	}

	req.System = generalPrompt
	return req, RouteGeneral
}

const (
	generalPrompt = "You are a friendly, attentive assistant. Keep replies warm and conversational."

	supportivePrompt = "You are a supportive companion. The user recorded feeling %s today with an intensity of %d out of 5. " +
		"Acknowledge how they are doing before anything else, and respond with empathy rather than advice unless they ask for it."

	scriptPrompt = "You are a screenwriter. Produce script-formatted content with scene headings and dialogue, matching what the user asks for."

	narrationPrompt = "You are a narrator. Write vivid voiceover-style narration suited to being read aloud."

	storyPrompt = "You are a storyteller. Write an engaging short piece of creative writing based on the user's request."
)

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
