package llm

import (
	"context"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
)

// OpenAIClient implements Client over OpenAI's Chat Completions API.
type OpenAIClient struct {
	client openai.Client
	hasKey bool
}

// NewOpenAIClient creates an OpenAI client from the OPENAI_API_KEY
// environment variable.
func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: client, hasKey: apiKey != ""}
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !c.hasKey {
		return "", deskerrors.NewMissingConfig("OPENAI_API_KEY")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if apiErr, ok := err.(*openai.Error); ok {
			return "", deskerrors.NewUpstream(apiErr.StatusCode, apiErr.Message)
		}
		return "", deskerrors.NewUpstream(0, err.Error())
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", deskerrors.NewEmptyResponse("openai")
	}
	return resp.Choices[0].Message.Content, nil
}
