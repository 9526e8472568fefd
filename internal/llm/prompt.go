package llm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const (
	promptEncoding = "cl100k_base"
	// historyTokenBudget caps how much conversation history a prompt carries.
	historyTokenBudget = 1500
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// countTokens measures text with the cl100k encoding, falling back to a
// bytes/4 estimate if the encoding data is unavailable.
func countTokens(text string) int {
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding(promptEncoding)
		if err == nil {
			enc = e
		}
	})
	if enc == nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// flattenPrompt renders a request as a single prompt string, dropping the
// oldest history lines once the token budget is exhausted.
func flattenPrompt(req Request) string {
	var sb strings.Builder
	if req.System != "" {
		sb.WriteString(req.System)
		sb.WriteString("\n\n")
	}

	lines := make([]string, 0, len(req.History))
	budget := historyTokenBudget
	for i := len(req.History) - 1; i >= 0; i-- {
		line := fmt.Sprintf("%s: %s\n", req.History[i].Role, req.History[i].Content)
		cost := countTokens(line)
		if cost > budget {
			break
		}
		budget -= cost
		lines = append(lines, line)
	}

	if len(lines) > 0 {
		sb.WriteString("Conversation history:\n")
		for i := len(lines) - 1; i >= 0; i-- {
			sb.WriteString(lines[i])
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("user: %s\nassistant:", req.Input))
	return sb.String()
}
