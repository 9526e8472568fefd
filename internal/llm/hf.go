package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/seralvarez/moodpad/internal/models"
)

// DefaultInferenceBaseURL is the hosted inference API root.
const DefaultInferenceBaseURL = "https://api-inference.huggingface.co/models"

// Conversational model families get the structured payload; everything else
// gets prompt+parameters.
var conversationalFamilies = []string{"dialogpt", "blenderbot"}

// HFClient talks to the hosted inference API. One endpoint per model; the
// request shape depends on the model family, and both response shapes (a
// conversation object or an array of generations) are handled.
type HFClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHFClient(baseURL, apiKey string) *HFClient {
	if baseURL == "" {
		baseURL = DefaultInferenceBaseURL
	}
	return &HFClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	ReturnFullText *bool   `json:"return_full_text,omitempty"`
}

type hfConversationalInputs struct {
	PastUserInputs     []string `json:"past_user_inputs"`
	GeneratedResponses []string `json:"generated_responses"`
	Text               string   `json:"text"`
}

type hfConversationalRequest struct {
	Inputs     hfConversationalInputs `json:"inputs"`
	Parameters *hfParameters          `json:"parameters,omitempty"`
}

type hfTextRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters *hfParameters `json:"parameters,omitempty"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type hfConversationalResponse struct {
	GeneratedText string `json:"generated_text"`
	Conversation  struct {
		GeneratedResponses []string `json:"generated_responses"`
	} `json:"conversation"`
}

func (c *HFClient) Generate(ctx context.Context, req Request) (string, error) {
	var payload any
	if conversational(req.Model) {
		payload = conversationalPayload(req)
	} else {
		no := false
		payload = hfTextRequest{
			Inputs: flattenPrompt(req),
			Parameters: &hfParameters{
				MaxNewTokens:   req.MaxTokens,
				Temperature:    req.Temperature,
				ReturnFullText: &no,
			},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+req.Model, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return extractText(raw)
}

// extractText pulls the first non-empty generated text out of either
// response shape.
func extractText(raw []byte) (string, error) {
	var generations []hfGeneration
	if err := json.Unmarshal(raw, &generations); err == nil {
		for _, g := range generations {
			if text := strings.TrimSpace(g.GeneratedText); text != "" {
				return text, nil
			}
		}
		return "", fmt.Errorf("inference API returned no generated text")
	}

	var conv hfConversationalResponse
	if err := json.Unmarshal(raw, &conv); err != nil {
		return "", fmt.Errorf("failed to decode inference response: %w", err)
	}
	if text := strings.TrimSpace(conv.GeneratedText); text != "" {
		return text, nil
	}
	for i := len(conv.Conversation.GeneratedResponses) - 1; i >= 0; i-- {
		if text := strings.TrimSpace(conv.Conversation.GeneratedResponses[i]); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("inference API returned no generated text")
}

func conversational(model string) bool {
	lower := strings.ToLower(model)
	for _, family := range conversationalFamilies {
		if strings.Contains(lower, family) {
			return true
		}
	}
	return false
}

func conversationalPayload(req Request) hfConversationalRequest {
	inputs := hfConversationalInputs{
		PastUserInputs:     []string{},
		GeneratedResponses: []string{},
		Text:               req.Input,
	}
	for _, msg := range req.History {
		switch msg.Role {
		case models.RoleUser:
			inputs.PastUserInputs = append(inputs.PastUserInputs, msg.Content)
		case models.RoleAssistant:
			inputs.GeneratedResponses = append(inputs.GeneratedResponses, msg.Content)
		}
	}

	out := hfConversationalRequest{Inputs: inputs}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		out.Parameters = &hfParameters{
			MaxNewTokens: req.MaxTokens,
			Temperature:  req.Temperature,
		}
	}
	return out
}
