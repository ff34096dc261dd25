// Package llm wraps the chat completion providers behind a single
// text-in text-out interface.
package llm

import "context"

// Client produces an assistant reply for a system prompt plus history.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Message is one turn of conversation history sent upstream.
type Message struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}

// CompletionRequest carries everything needed for one completion call.
type CompletionRequest struct {
	System      string
	Messages    []Message
	Model       string
	Temperature float64
}
