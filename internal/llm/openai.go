package llm

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIClient serves openai-compatible backends (hosted or a local
// ollama-style endpoint). The model is chosen per call, so one client covers
// every model in the family.
type OpenAIClient struct {
	llm llms.Model
}

func NewOpenAIClient(baseURL, token, defaultModel string) (*OpenAIClient, error) {
	if token == "" {
		// Local openai-compatible endpoints (ollama and friends) ignore the
		// token, and the constructor refuses an empty one. A hosted endpoint
		// reached with this placeholder rejects the call instead, which the
		// orchestrator already turns into a fallback reply.
		token = "unused"
	}
	llm, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(baseURL),
		openai.WithModel(defaultModel),
	)
	if err != nil {
		return nil, err
	}
	return &OpenAIClient{llm: llm}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	opts := []llms.CallOption{}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, c.llm, flattenPrompt(req), opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion), nil
}
