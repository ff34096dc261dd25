package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agentdesk/agentdesk/internal/agents"
	"github.com/agentdesk/agentdesk/internal/chat"
	"github.com/agentdesk/agentdesk/internal/config"
	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
	"github.com/agentdesk/agentdesk/internal/llm"
	"github.com/agentdesk/agentdesk/internal/manifest"
	"github.com/agentdesk/agentdesk/internal/userctx"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db        *sql.DB
	cfg       *config.Config
	repo      *agents.Repository
	userCtx   *userctx.ContextStore
	overrides *userctx.OverrideStore
	memories  *userctx.MemoryStore
	gateway   *chat.Gateway
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, client llm.Client) *Handlers {
	return &Handlers{
		db:        db,
		cfg:       cfg,
		repo:      agents.NewRepository(db, cfg),
		userCtx:   userctx.NewContextStore(db),
		overrides: userctx.NewOverrideStore(db),
		memories:  userctx.NewMemoryStore(db, cfg),
		gateway:   chat.NewGateway(db, cfg, client),
	}
}

// Request types for each tool

// IDRequest represents tools addressed by a single agent ID.
type IDRequest struct {
	ID string `json:"id"`
}

// SerializeRequest represents the arguments for context_serialize.
type SerializeRequest struct {
	AgentID string `json:"agent_id,omitempty"`
}

// OverrideSetRequest represents the arguments for override_set.
type OverrideSetRequest struct {
	AgentID      string `json:"agent_id"`
	Instructions string `json:"instructions,omitempty"`
}

// MemorySaveRequest represents the arguments for memory_save.
type MemorySaveRequest struct {
	AgentID   string   `json:"agent_id"`
	Summary   string   `json:"summary"`
	KeyTopics []string `json:"key_topics,omitempty"`
	Decisions []string `json:"decisions,omitempty"`
}

// MemoryListRequest represents the arguments for memory_list.
type MemoryListRequest struct {
	AgentID string `json:"agent_id,omitempty"`
}

// ChatRequest represents the arguments for chat.
type ChatRequest struct {
	AgentID  string        `json:"agent_id,omitempty"`
	Mode     string        `json:"mode,omitempty"`
	Messages []llm.Message `json:"messages"`
}

// Handler implementations

// HandleAgentList handles the agent_list tool call.
func (h *Handlers) HandleAgentList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all, err := h.repo.All()
	if err != nil {
		return errorResult(err), nil
	}
	remaining, err := h.repo.RemainingSlots()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"agents":          all,
		"remaining_slots": remaining,
	})
}

// HandleAgentGet handles the agent_get tool call.
func (h *Handlers) HandleAgentGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	agent, err := h.repo.Get(input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(agent)
}

// HandleAgentSave handles the agent_save tool call.
func (h *Handlers) HandleAgentSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[manifest.AgentManifest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.repo.Save(&input); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"saved": true, "id": input.ID})
}

// HandleAgentDelete handles the agent_delete tool call.
func (h *Handlers) HandleAgentDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.repo.Delete(input.ID); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"deleted": true, "id": input.ID})
}

// HandleAgentDuplicate handles the agent_duplicate tool call.
func (h *Handlers) HandleAgentDuplicate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	dup, err := h.repo.Duplicate(input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(dup)
}

// HandleAgentCompile handles the agent_compile tool call.
func (h *Handlers) HandleAgentCompile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	agent, err := h.repo.Get(input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	prompt := manifest.BuildSystemPrompt(&agent.AgentManifest)
	return successResult(map[string]any{
		"prompt": prompt,
		"chars":  utf8.RuneCountInString(prompt),
	})
}

// HandleContextGet handles the context_get tool call.
func (h *Handlers) HandleContextGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userContext, err := h.userCtx.Get()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"context": userContext})
}

// HandleContextSet handles the context_set tool call.
func (h *Handlers) HandleContextSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[userctx.UserContext](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.userCtx.Save(&input); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"saved": true})
}

// HandleContextSerialize handles the context_serialize tool call.
func (h *Handlers) HandleContextSerialize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SerializeRequest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	userContext, err := h.userCtx.Get()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"serialized": userctx.Serialize(userContext, input.AgentID),
	})
}

// HandleOverrideSet handles the override_set tool call.
func (h *Handlers) HandleOverrideSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[OverrideSetRequest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	if input.AgentID == "" {
		return errorResult(deskerrors.NewInvalidRequest("agent_id is required")), nil
	}
	if err := h.overrides.Set(input.AgentID, input.Instructions); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"saved": true})
}

// HandleMemorySave handles the memory_save tool call.
func (h *Handlers) HandleMemorySave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MemorySaveRequest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	if input.AgentID == "" || input.Summary == "" {
		return errorResult(deskerrors.NewInvalidRequest("agent_id and summary are required")), nil
	}
	err = h.memories.Save(userctx.Memory{
		AgentID:   input.AgentID,
		Summary:   input.Summary,
		KeyTopics: input.KeyTopics,
		Decisions: input.Decisions,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"saved": true})
}

// HandleMemoryList handles the memory_list tool call.
func (h *Handlers) HandleMemoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MemoryListRequest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	var memories []userctx.Memory
	if input.AgentID != "" {
		memories, err = h.memories.ForAgent(input.AgentID)
	} else {
		memories, err = h.memories.All()
	}
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"memories": memories})
}

// HandleChat handles the chat tool call.
func (h *Handlers) HandleChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ChatRequest](req)
	if err != nil {
		return errorResult(deskerrors.NewInvalidRequest(err.Error())), nil
	}
	content, err := h.gateway.Complete(ctx, chat.Request{
		AgentID:  input.AgentID,
		Messages: input.Messages,
		Mode:     input.Mode,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"content": content})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if deskErr, ok := err.(*deskerrors.DeskError); ok {
		errorObj := map[string]any{
			"code":    deskErr.Code,
			"message": deskErr.Message,
			"status":  deskErr.Status,
		}
		if deskErr.Code != deskerrors.ErrInternal && deskErr.Details != nil {
			errorObj["details"] = deskErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
