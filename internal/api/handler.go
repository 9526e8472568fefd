// Package api exposes the JSON routes the web front end talks to.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seralvarez/moodpad/internal/chat"
	"github.com/seralvarez/moodpad/internal/db"
	"github.com/seralvarez/moodpad/internal/models"
	"github.com/seralvarez/moodpad/internal/stats"
)

type Handler struct {
	store  *db.Safe
	orch   *chat.Orchestrator
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(store *db.Safe, orch *chat.Orchestrator, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		orch:   orch,
		logger: logger,
		now:    time.Now,
	}
}

type MessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	AdvancedMode   bool   `json:"advanced_mode"`
	Model          string `json:"model"`
}

type CreateConversationRequest struct {
	Title string `json:"title"`
}

type UpdateConversationRequest struct {
	Title string `json:"title"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess := chat.Session{AdvancedMode: req.AdvancedMode, Model: req.Model}
	result, err := h.orch.HandleTurn(r.Context(), sess, req.ConversationID, req.Content)
	switch {
	case errors.Is(err, chat.ErrBusy):
		http.Error(w, "A message is already being processed", http.StatusTooManyRequests)
		return
	case errors.Is(err, chat.ErrEmptyInput):
		http.Error(w, "Message text is required", http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("failed to handle turn", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result)
}

func (h *Handler) Conversations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		conversations := h.store.ListConversations(r.Context(), models.DefaultUserID)
		h.logger.Debug("retrieved conversations", zap.Int("count", len(conversations)))
		h.writeJSON(w, conversations)

	case http.MethodPost:
		var req CreateConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		conv := h.store.CreateConversation(r.Context(), req.Title)
		if conv == nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, conv)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) UpdateConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	convID := r.URL.Query().Get("conversation_id")
	if convID == "" {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req UpdateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !h.store.RenameConversation(r.Context(), convID, req.Title) {
		h.writeJSONStatus(w, okResponse{false}, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, okResponse{true})
}

func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	convID := r.URL.Query().Get("conversation_id")
	if convID == "" {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, okResponse{h.store.DeleteConversation(r.Context(), convID)})
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	convID := r.URL.Query().Get("conversation_id")
	if convID == "" {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.store.ListMessages(r.Context(), convID))
}

func (h *Handler) ConversationMoods(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		convID := r.URL.Query().Get("conversation_id")
		if convID == "" {
			http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
			return
		}
		h.writeJSON(w, h.store.ListConversationMoods(r.Context(), convID))

	case http.MethodPost:
		var mood models.ConversationMood
		if err := json.NewDecoder(r.Body).Decode(&mood); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if !h.store.SaveConversationMood(r.Context(), &mood) {
			h.writeJSONStatus(w, okResponse{false}, http.StatusBadRequest)
			return
		}
		h.writeJSON(w, mood)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) MoodEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries := h.store.ListMoodEntries(r.Context(), models.DefaultUserID, h.sinceParam(r))
		if days, ok := h.daysParam(r); ok {
			entries = stats.Filter(entries, models.DateOf(h.now()), days)
		}
		h.writeJSON(w, entries)

	case http.MethodPost:
		var entry models.MoodEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		entry.UserID = models.DefaultUserID
		if !h.store.SaveMoodEntry(r.Context(), &entry) {
			h.writeJSONStatus(w, okResponse{false}, http.StatusBadRequest)
			return
		}
		h.writeJSON(w, entry)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Invalid entry ID", http.StatusBadRequest)
			return
		}
		h.writeJSON(w, okResponse{h.store.DeleteMoodEntry(r.Context(), id)})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) TodayMood(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entry := h.store.MoodEntryForDate(r.Context(), models.DefaultUserID, models.DateOf(h.now()))
	if entry == nil {
		h.writeJSON(w, struct{}{})
		return
	}
	h.writeJSON(w, entry)
}

type dashboardResponse struct {
	Stats   models.MoodStats   `json:"stats"`
	Streak  int                `json:"streak"`
	Entries []models.MoodEntry `json:"entries"`
}

// Dashboard assembles the stats view. The windowed read and the full-history
// read are independent, so they run concurrently; both finish before the
// response is written.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	today := models.DateOf(h.now())
	days := h.windowParam(r)
	day, _ := time.Parse(models.DateLayout, today)
	since := models.DateOf(day.AddDate(0, 0, -days))

	var windowed, all []models.MoodEntry
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		// The store restricts the lower bound; Filter also clamps entries
		// dated after today out of the window.
		windowed = stats.Filter(h.store.ListMoodEntries(ctx, models.DefaultUserID, since), today, days)
		return nil
	})
	g.Go(func() error {
		all = h.store.ListMoodEntries(ctx, models.DefaultUserID, "")
		return nil
	})
	// Neither read can fail; the Safe adapter already absorbed any error.
	_ = g.Wait()

	h.writeJSON(w, dashboardResponse{
		Stats:   stats.Compute(windowed),
		Streak:  stats.Streak(all, today),
		Entries: windowed,
	})
}

type metaResponse struct {
	Moods    []models.MoodOption `json:"moods"`
	Triggers []string            `json:"triggers"`
}

// Meta serves the closed mood enumeration and suggested triggers.
func (h *Handler) Meta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, metaResponse{Moods: models.Moods, Triggers: models.SuggestedTriggers})
}

// windowParam reads days, clamped to non-negative, defaulting to 7.
func (h *Handler) windowParam(r *http.Request) int {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days < 0 {
		return 7
	}
	return days
}

// daysParam reads an explicit non-negative days value, reporting whether one
// was supplied.
func (h *Handler) daysParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, false
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, false
	}
	return days, true
}

func (h *Handler) sinceParam(r *http.Request) string {
	days, ok := h.daysParam(r)
	if !ok {
		return ""
	}
	day, _ := time.Parse(models.DateLayout, models.DateOf(h.now()))
	return models.DateOf(day.AddDate(0, 0, -days))
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	h.writeJSONStatus(w, v, http.StatusOK)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
