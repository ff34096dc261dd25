// Package chat composes system prompts and relays conversations to the
// completion provider. Both the HTTP API and the MCP server go through it.
package chat

import (
	"context"
	"database/sql"
	"unicode/utf8"

	"github.com/agentdesk/agentdesk/internal/agents"
	"github.com/agentdesk/agentdesk/internal/config"
	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
	"github.com/agentdesk/agentdesk/internal/llm"
	"github.com/agentdesk/agentdesk/internal/manifest"
	"github.com/agentdesk/agentdesk/internal/userctx"
)

// Request is one chat turn. Either AgentID or Manifest selects the persona;
// Mode "raw" skips the system prompt entirely.
type Request struct {
	AgentID  string
	Manifest *manifest.AgentManifest
	Messages []llm.Message
	Mode     string // raw | agent
}

// Gateway validates chat requests, builds the personalized system prompt,
// and calls the provider.
type Gateway struct {
	cfg       *config.Config
	repo      *agents.Repository
	userCtx   *userctx.ContextStore
	overrides *userctx.OverrideStore
	client    llm.Client
}

// NewGateway creates a Gateway with an explicit database handle and client.
func NewGateway(database *sql.DB, cfg *config.Config, client llm.Client) *Gateway {
	return &Gateway{
		cfg:       cfg,
		repo:      agents.NewRepository(database, cfg),
		userCtx:   userctx.NewContextStore(database),
		overrides: userctx.NewOverrideStore(database),
		client:    client,
	}
}

// Complete runs one chat turn and returns the assistant reply.
func (g *Gateway) Complete(ctx context.Context, req Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", deskerrors.NewInvalidRequest("messages array is required and must not be empty")
	}

	var system string
	if req.Mode != "raw" {
		m, err := g.resolveManifest(&req)
		if err != nil {
			return "", err
		}
		system, err = g.ComposeSystem(m)
		if err != nil {
			return "", err
		}
	}

	// Client-supplied system messages never reach the provider.
	history := make([]llm.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			continue
		}
		history = append(history, msg)
	}

	return g.client.Complete(ctx, llm.CompletionRequest{
		System:      system,
		Messages:    history,
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
	})
}

// ComposeSystem validates a manifest, compiles it, enforces the prompt cap,
// and appends the serialized user context and the agent's override, each
// separated by a blank line.
func (g *Gateway) ComposeSystem(m *manifest.AgentManifest) (string, error) {
	if result := manifest.Validate(m); !result.Valid {
		return "", deskerrors.NewValidation(result.Errors)
	}

	prompt := manifest.BuildSystemPrompt(m)
	if n := utf8.RuneCountInString(prompt); n > g.cfg.MaxPromptChars {
		return "", deskerrors.NewPromptTooLong(n, g.cfg.MaxPromptChars)
	}

	system := prompt

	ctx, err := g.userCtx.Get()
	if err != nil {
		return "", err
	}
	if serialized := userctx.Serialize(ctx, m.ID); serialized != "" {
		system += "\n\nUSER CONTEXT:\n" + serialized
	}

	override, err := g.overrides.GetFor(m.ID)
	if err != nil {
		return "", err
	}
	if override != "" {
		system += "\n\nADDITIONAL INSTRUCTIONS:\n" + override
	}

	return system, nil
}

func (g *Gateway) resolveManifest(req *Request) (*manifest.AgentManifest, error) {
	if req.Manifest != nil {
		return req.Manifest, nil
	}
	if req.AgentID == "" {
		return nil, deskerrors.NewInvalidRequest(`agentManifest or agentId is required when mode is not "raw"`)
	}
	agent, err := g.repo.Get(req.AgentID)
	if err != nil {
		return nil, err
	}
	return &agent.AgentManifest, nil
}
