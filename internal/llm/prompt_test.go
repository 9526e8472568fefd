package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seralvarez/moodpad/internal/models"
)

func TestFlattenPromptShape(t *testing.T) {
	prompt := flattenPrompt(Request{
		System: "Be helpful.",
		History: []models.Message{
			{Role: models.RoleUser, Content: "first question"},
			{Role: models.RoleAssistant, Content: "first answer"},
		},
		Input: "second question",
	})

	assert.True(t, strings.HasPrefix(prompt, "Be helpful."))
	assert.True(t, strings.HasSuffix(prompt, "user: second question\nassistant:"))

	// history stays in chronological order
	first := strings.Index(prompt, "first question")
	second := strings.Index(prompt, "first answer")
	assert.Less(t, first, second)
}

func TestFlattenPromptNoHistory(t *testing.T) {
	prompt := flattenPrompt(Request{Input: "hi"})

	assert.NotContains(t, prompt, "Conversation history")
	assert.Equal(t, "user: hi\nassistant:", prompt)
}

func TestFlattenPromptDropsOldestWhenOverBudget(t *testing.T) {
	filler := strings.Repeat("lorem ipsum dolor sit amet consectetur ", 120)

	var history []models.Message
	for i := 0; i < 10; i++ {
		history = append(history, models.Message{
			Role:    models.RoleUser,
			Content: fmt.Sprintf("marker-%02d %s", i, filler),
		})
	}

	prompt := flattenPrompt(Request{History: history, Input: "latest"})

	assert.Contains(t, prompt, "marker-09")
	assert.NotContains(t, prompt, "marker-00")
}
