package web

import (
	"fmt"
	"net/http"

	"github.com/agentdesk/agentdesk/internal/agents"
	"github.com/agentdesk/agentdesk/internal/chat"
	"github.com/agentdesk/agentdesk/internal/config"
	"github.com/agentdesk/agentdesk/internal/convo"
	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
	"github.com/agentdesk/agentdesk/internal/manifest"
	"github.com/agentdesk/agentdesk/internal/userctx"
)

// Handlers contains HTTP route handlers for the agent desk API.
type Handlers struct {
	cfg       *config.Config
	version   string
	repo      *agents.Repository
	userCtx   *userctx.ContextStore
	overrides *userctx.OverrideStore
	memories  *userctx.MemoryStore
	convos    *convo.Store
	windows   *convo.WindowStore
	gateway   *chat.Gateway
}

// HandleAgentList handles GET /api/agents.
func (h *Handlers) HandleAgentList(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.All()
	if err != nil {
		renderError(w, err)
		return
	}
	remaining, err := h.repo.RemainingSlots()
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{
		"agents":         all,
		"remainingSlots": remaining,
	})
}

// HandleAgentGet handles GET /api/agents/{id}.
func (h *Handlers) HandleAgentGet(w http.ResponseWriter, r *http.Request) {
	agent, err := h.repo.Get(r.PathValue("id"))
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, agent)
}

// HandleAgentSave handles POST /api/agents.
func (h *Handlers) HandleAgentSave(w http.ResponseWriter, r *http.Request) {
	m, err := decodeBody[manifest.AgentManifest](r)
	if err != nil {
		renderError(w, err)
		return
	}
	if err := h.repo.Save(&m); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"saved": true, "id": m.ID})
}

// HandleAgentDelete handles DELETE /api/agents/{id}.
func (h *Handlers) HandleAgentDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.repo.Delete(id); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

// HandleAgentDuplicate handles POST /api/agents/{id}/duplicate.
func (h *Handlers) HandleAgentDuplicate(w http.ResponseWriter, r *http.Request) {
	dup, err := h.repo.Duplicate(r.PathValue("id"))
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, dup)
}

// HandleAgentCompile handles GET /api/agents/{id}/compile. Returns the
// compiled system prompt for one agent.
func (h *Handlers) HandleAgentCompile(w http.ResponseWriter, r *http.Request) {
	agent, err := h.repo.Get(r.PathValue("id"))
	if err != nil {
		renderError(w, err)
		return
	}
	prompt := manifest.BuildSystemPrompt(&agent.AgentManifest)
	renderJSON(w, http.StatusOK, map[string]any{
		"prompt": prompt,
		"chars":  len([]rune(prompt)),
	})
}

// HandleAgentPreview handles GET /api/agents/{id}/preview. Returns the
// compiled prompt rendered as HTML for display inside a desktop window.
func (h *Handlers) HandleAgentPreview(w http.ResponseWriter, r *http.Request) {
	agent, err := h.repo.Get(r.PathValue("id"))
	if err != nil {
		renderError(w, err)
		return
	}
	prompt := manifest.BuildSystemPrompt(&agent.AgentManifest)
	md := fmt.Sprintf("# %s\n\n```\n%s\n```\n", agent.Name, prompt)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, renderMarkdown(md))
}

// HandleContextGet handles GET /api/context.
func (h *Handlers) HandleContextGet(w http.ResponseWriter, r *http.Request) {
	ctx, err := h.userCtx.Get()
	if err != nil {
		renderError(w, err)
		return
	}
	if ctx == nil {
		renderError(w, deskerrors.NewNotFound("user context"))
		return
	}
	renderJSON(w, http.StatusOK, ctx)
}

// HandleContextSet handles PUT /api/context.
func (h *Handlers) HandleContextSet(w http.ResponseWriter, r *http.Request) {
	ctx, err := decodeBody[userctx.UserContext](r)
	if err != nil {
		renderError(w, err)
		return
	}
	if err := h.userCtx.Save(&ctx); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// HandleContextSerialize handles GET /api/context/serialize?agent=<id>.
func (h *Handlers) HandleContextSerialize(w http.ResponseWriter, r *http.Request) {
	ctx, err := h.userCtx.Get()
	if err != nil {
		renderError(w, err)
		return
	}
	serialized := userctx.Serialize(ctx, r.URL.Query().Get("agent"))
	renderJSON(w, http.StatusOK, map[string]any{"serialized": serialized})
}

// HandleTemplateList handles GET /api/context/templates.
func (h *Handlers) HandleTemplateList(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{"templates": userctx.Templates()})
}

// HandleTemplateApply handles POST /api/context/templates/{id}/apply.
// Merges a template over the stored context and persists the result.
func (h *Handlers) HandleTemplateApply(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := userctx.GetTemplate(r.PathValue("id"))
	if !ok {
		renderError(w, deskerrors.NewNotFound(r.PathValue("id")))
		return
	}
	existing, err := h.userCtx.Get()
	if err != nil {
		renderError(w, err)
		return
	}
	merged := userctx.ApplyTemplate(tmpl, existing)
	if err := h.userCtx.Save(merged); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, merged)
}

// HandleOverrideList handles GET /api/overrides.
func (h *Handlers) HandleOverrideList(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.overrides.Get()
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"overrides": overrides})
}

// HandleOverrideSet handles PUT /api/overrides/{id}.
func (h *Handlers) HandleOverrideSet(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Instructions string `json:"instructions"`
	}](r)
	if err != nil {
		renderError(w, err)
		return
	}
	if err := h.overrides.Set(r.PathValue("id"), body.Instructions); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// HandleOverrideClear handles DELETE /api/overrides.
func (h *Handlers) HandleOverrideClear(w http.ResponseWriter, r *http.Request) {
	if err := h.overrides.Clear(); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// HandleMemoryList handles GET /api/memories with optional ?agent= filter.
func (h *Handlers) HandleMemoryList(w http.ResponseWriter, r *http.Request) {
	var memories []userctx.Memory
	var err error
	if agentID := r.URL.Query().Get("agent"); agentID != "" {
		memories, err = h.memories.ForAgent(agentID)
	} else {
		memories, err = h.memories.All()
	}
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"memories": memories})
}

// HandleMemorySave handles POST /api/memories.
func (h *Handlers) HandleMemorySave(w http.ResponseWriter, r *http.Request) {
	memory, err := decodeBody[userctx.Memory](r)
	if err != nil {
		renderError(w, err)
		return
	}
	if memory.AgentID == "" {
		renderError(w, deskerrors.NewInvalidRequest("agentId is required"))
		return
	}
	if err := h.memories.Save(memory); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// HandleMemoryClear handles DELETE /api/memories.
func (h *Handlers) HandleMemoryClear(w http.ResponseWriter, r *http.Request) {
	if err := h.memories.Clear(); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// HandleConversationList handles GET /api/agents/{id}/conversations.
func (h *Handlers) HandleConversationList(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.convos.Load(r.PathValue("id"))
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

// HandleConversationSave handles POST /api/agents/{id}/conversations.
func (h *Handlers) HandleConversationSave(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Messages []convo.Message `json:"messages"`
	}](r)
	if err != nil {
		renderError(w, err)
		return
	}
	if len(body.Messages) == 0 {
		renderError(w, deskerrors.NewInvalidRequest("messages array is required and must not be empty"))
		return
	}
	saved, err := h.convos.Save(r.PathValue("id"), body.Messages)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, saved)
}

// HandleConversationDelete handles DELETE /api/agents/{id}/conversations/{conversationID}.
func (h *Handlers) HandleConversationDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.convos.Delete(r.PathValue("id"), r.PathValue("conversationID")); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// HandleConversationClear handles DELETE /api/agents/{id}/conversations.
func (h *Handlers) HandleConversationClear(w http.ResponseWriter, r *http.Request) {
	if err := h.convos.Clear(r.PathValue("id")); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// HandleWindowsGet handles GET /api/windows.
func (h *Handlers) HandleWindowsGet(w http.ResponseWriter, r *http.Request) {
	windows, err := h.windows.Load()
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"windows": windows})
}

// HandleWindowsSet handles PUT /api/windows.
func (h *Handlers) HandleWindowsSet(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Windows []convo.WindowState `json:"windows"`
	}](r)
	if err != nil {
		renderError(w, err)
		return
	}
	h.windows.Save(body.Windows)
	renderJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// HandleWindowsClear handles DELETE /api/windows.
func (h *Handlers) HandleWindowsClear(w http.ResponseWriter, r *http.Request) {
	if err := h.windows.Clear(); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"cleared": true})
}
