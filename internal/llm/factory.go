package llm

import (
	"fmt"

	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
)

// New creates a client for the named provider. An empty provider defaults
// to OpenAI.
func New(provider string) (Client, error) {
	switch provider {
	case "openai", "":
		return NewOpenAIClient(), nil
	case "anthropic":
		return NewAnthropicClient(), nil
	default:
		return nil, deskerrors.NewInvalidRequest(fmt.Sprintf("unsupported provider: %s (supported: openai, anthropic)", provider))
	}
}
