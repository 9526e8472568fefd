// Package llm talks to the remote text-generation backends and owns the
// canned fallback replies used when they fail.
package llm

import (
	"context"

	"github.com/seralvarez/moodpad/internal/models"
)

// Request is one generation turn. Clients map it onto their own wire shape:
// the openai-compatible backend gets a flattened prompt, the hosted inference
// API gets either a conversational or a prompt+parameters payload depending
// on the model family.
type Request struct {
	Model       string
	System      string
	History     []models.Message
	Input       string
	MaxTokens   int
	Temperature float64
}

// Generator produces one assistant reply per request. Implementations return
// an error for any transport or decode failure; they never fabricate text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
