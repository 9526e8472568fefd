package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seralvarez/moodpad/internal/api"
	"github.com/seralvarez/moodpad/internal/chat"
	"github.com/seralvarez/moodpad/internal/db"
	"github.com/seralvarez/moodpad/internal/llm"
	"github.com/seralvarez/moodpad/internal/models"
)

type fixedGen struct {
	reply string
	err   error
}

func (g fixedGen) Generate(ctx context.Context, req llm.Request) (string, error) {
	return g.reply, g.err
}

func newServer(gen llm.Generator) (*httptest.Server, *db.Safe) {
	logger := zap.NewNop()
	safe := db.NewSafe(db.NewMemStore(), logger)
	fallback := llm.NewFallback(rand.NewSource(1))
	orch := chat.NewOrchestrator(safe, gen, fallback, "llama3.1:8b", logger)
	handler := api.NewHandler(safe, orch, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/message", handler.HandleMessage)
	mux.HandleFunc("/api/conversations", handler.Conversations)
	mux.HandleFunc("/api/conversations/update", handler.UpdateConversation)
	mux.HandleFunc("/api/conversations/delete", handler.DeleteConversation)
	mux.HandleFunc("/api/messages", handler.GetMessages)
	mux.HandleFunc("/api/moods", handler.ConversationMoods)
	mux.HandleFunc("/api/mood-entries", handler.MoodEntries)
	mux.HandleFunc("/api/mood-entries/today", handler.TodayMood)
	mux.HandleFunc("/api/dashboard", handler.Dashboard)
	mux.HandleFunc("/api/meta", handler.Meta)

	return httptest.NewServer(mux), safe
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSendMessageEndToEnd(t *testing.T) {
	server, safe := newServer(fixedGen{reply: "hello back"})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/message", api.MessageRequest{Content: "Hello world"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[chat.TurnResult](t, resp)
	assert.Equal(t, "hello back", result.AssistantMessage.Content)
	assert.NotEmpty(t, result.ConversationID)

	messages := safe.ListMessages(context.Background(), result.ConversationID)
	assert.Len(t, messages, 2)
}

func TestSendMessageEmptyContent(t *testing.T) {
	server, _ := newServer(fixedGen{reply: "x"})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/message", api.MessageRequest{Content: "   "})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSendMessageFailureStillReplies(t *testing.T) {
	server, _ := newServer(fixedGen{err: errors.New("backend down")})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/message", api.MessageRequest{Content: "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[chat.TurnResult](t, resp)
	assert.True(t, result.UsedFallback)
	assert.NotEmpty(t, result.AssistantMessage.Content)
}

func TestConversationLifecycle(t *testing.T) {
	server, _ := newServer(fixedGen{reply: "x"})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/conversations", api.CreateConversationRequest{Title: "plans"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	conv := decode[models.Conversation](t, resp)
	assert.Equal(t, "plans", conv.Title)

	// rename with an empty trimmed title is rejected
	req, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/conversations/update?conversation_id=%s", server.URL, conv.ID),
		bytes.NewReader([]byte(`{"title":"  "}`)))
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	// delete and verify it is gone from the listing
	req, _ = http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/api/conversations/delete?conversation_id=%s", server.URL, conv.ID), nil)
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	ok := decode[struct {
		OK bool `json:"ok"`
	}](t, resp3)
	assert.True(t, ok.OK)

	resp4, err := http.Get(server.URL + "/api/conversations")
	require.NoError(t, err)
	listed := decode[[]models.Conversation](t, resp4)
	assert.Empty(t, listed)
}

func TestMoodEntryValidationOverHTTP(t *testing.T) {
	server, _ := newServer(fixedGen{reply: "x"})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/mood-entries", models.MoodEntry{
		Mood:      models.MoodHappy,
		Intensity: 9,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMoodEntryMalformedDateRejected(t *testing.T) {
	server, _ := newServer(fixedGen{reply: "x"})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/mood-entries", models.MoodEntry{
		Mood:      models.MoodHappy,
		Intensity: 3,
		Date:      "not-a-date",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardExcludesFutureDatedEntries(t *testing.T) {
	server, safe := newServer(fixedGen{reply: "x"})
	defer server.Close()

	require.True(t, safe.SaveMoodEntry(context.Background(), &models.MoodEntry{
		Mood:      models.MoodHappy,
		Intensity: 4,
	}))
	require.True(t, safe.SaveMoodEntry(context.Background(), &models.MoodEntry{
		Mood:      models.MoodSad,
		Intensity: 1,
		Date:      "2099-01-01",
	}))

	resp, err := http.Get(server.URL + "/api/dashboard?days=7")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dash := decode[struct {
		Stats models.MoodStats `json:"stats"`
	}](t, resp)
	assert.Equal(t, 1, dash.Stats.TotalEntries)
	assert.Equal(t, models.MoodHappy, dash.Stats.MostCommonMood)
}

func TestDashboard(t *testing.T) {
	server, safe := newServer(fixedGen{reply: "x"})
	defer server.Close()

	require.True(t, safe.SaveMoodEntry(context.Background(), &models.MoodEntry{
		Mood:      models.MoodHappy,
		Intensity: 4,
	}))

	resp, err := http.Get(server.URL + "/api/dashboard?days=7")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dash := decode[struct {
		Stats  models.MoodStats `json:"stats"`
		Streak int              `json:"streak"`
	}](t, resp)
	assert.Equal(t, 1, dash.Stats.TotalEntries)
	assert.Equal(t, 4.0, dash.Stats.AverageIntensity)
	assert.Equal(t, models.MoodHappy, dash.Stats.MostCommonMood)
	assert.Equal(t, 1, dash.Streak)
}

func TestMeta(t *testing.T) {
	server, _ := newServer(fixedGen{reply: "x"})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/meta")
	require.NoError(t, err)

	meta := decode[struct {
		Moods    []models.MoodOption `json:"moods"`
		Triggers []string            `json:"triggers"`
	}](t, resp)
	assert.Len(t, meta.Moods, 16)
	assert.NotEmpty(t, meta.Moods[0].Label)
	assert.NotEmpty(t, meta.Moods[0].Icon)
	assert.NotEmpty(t, meta.Triggers)
}
