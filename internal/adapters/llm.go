package adapters

import (
	"context"

	"github.com/kindwatch/wardenbot/internal/adapters/llm"
)

// LLM is the minimal surface the moderation classifier needs from a
// language-model provider.
type LLM interface {
	ChatCompletion(ctx context.Context, messages []llm.ChatCompletionMessage) (llm.ChatCompletionResponse, error)
}
