package llm

import (
	"context"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
)

const anthropicMaxTokens = 4096

// AnthropicClient implements Client over Anthropic's Messages API.
type AnthropicClient struct {
	client anthropic.Client
	hasKey bool
}

// NewAnthropicClient creates an Anthropic client from the ANTHROPIC_API_KEY
// environment variable.
func NewAnthropicClient() *AnthropicClient {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{client: client, hasKey: apiKey != ""}
}

func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !c.hasKey {
		return "", deskerrors.NewMissingConfig("ANTHROPIC_API_KEY")
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		switch m.Role {
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(block))
		default:
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: anthropicMaxTokens,
		Messages:  messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		if apiErr, ok := err.(*anthropic.Error); ok {
			return "", deskerrors.NewUpstream(apiErr.StatusCode, apiErr.Error())
		}
		return "", deskerrors.NewUpstream(0, err.Error())
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", deskerrors.NewEmptyResponse("anthropic")
	}
	return text, nil
}
