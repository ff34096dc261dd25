package llm

import (
	"context"
	"testing"

	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
)

func TestNew_KnownProviders(t *testing.T) {
	for _, provider := range []string{"", "openai", "anthropic"} {
		client, err := New(provider)
		if err != nil {
			t.Errorf("New(%q): %v", provider, err)
		}
		if client == nil {
			t.Errorf("New(%q) returned nil client", provider)
		}
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("cohere")
	if !deskerrors.Is(err, deskerrors.ErrInvalidRequest) {
		t.Fatalf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestComplete_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	for _, provider := range []string{"openai", "anthropic"} {
		client, err := New(provider)
		if err != nil {
			t.Fatalf("New(%q): %v", provider, err)
		}
		_, err = client.Complete(context.Background(), CompletionRequest{
			System:   "You are a test.",
			Messages: []Message{{Role: "user", Content: "hello"}},
			Model:    "test-model",
		})
		if !deskerrors.Is(err, deskerrors.ErrMissingConfig) {
			t.Errorf("%s without key: expected MISSING_CONFIG, got %v", provider, err)
		}
	}
}
