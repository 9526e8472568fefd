package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The server must come up with no configuration at all, so constructing the
// generator stack without an API key cannot fail.
func TestNewOpenAIClientWithoutToken(t *testing.T) {
	client, err := NewOpenAIClient("http://localhost:11434/v1/", "", "llama3.1:8b")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestKeylessGeneratorStack(t *testing.T) {
	openaiClient, err := NewOpenAIClient("http://localhost:11434/v1/", "", "llama3.1:8b")
	require.NoError(t, err)

	r := NewRouter(openaiClient, NewHFClient("", ""))
	assert.NotNil(t, r)
}
