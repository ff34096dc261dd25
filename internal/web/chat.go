package web

import (
	"net/http"

	"github.com/agentdesk/agentdesk/internal/chat"
	"github.com/agentdesk/agentdesk/internal/llm"
	"github.com/agentdesk/agentdesk/internal/manifest"
)

type chatRequest struct {
	AgentID  string                  `json:"agentId,omitempty"`
	Manifest *manifest.AgentManifest `json:"agentManifest,omitempty"`
	Messages []llm.Message           `json:"messages"`
	Mode     string                  `json:"mode,omitempty"` // raw | agent
}

// HandleChat handles POST /api/chat. In agent mode the system prompt is
// compiled from the manifest and personalized with the stored user context
// and per-agent override; raw mode sends the history with no system prompt.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[chatRequest](r)
	if err != nil {
		renderError(w, err)
		return
	}

	content, err := h.gateway.Complete(r.Context(), chat.Request{
		AgentID:  req.AgentID,
		Manifest: req.Manifest,
		Messages: req.Messages,
		Mode:     req.Mode,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"content": content})
}
