// Package mcp exposes the agent desk as MCP tools over stdio.
package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentdesk/agentdesk/internal/config"
	"github.com/agentdesk/agentdesk/internal/llm"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"agent_list": {
		def:     agentListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentList },
	},
	"agent_get": {
		def:     agentGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentGet },
	},
	"agent_save": {
		def:     agentSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentSave },
	},
	"agent_delete": {
		def:     agentDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentDelete },
	},
	"agent_duplicate": {
		def:     agentDuplicateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentDuplicate },
	},
	"agent_compile": {
		def:     agentCompileToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAgentCompile },
	},
	"context_get": {
		def:     contextGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContextGet },
	},
	"context_set": {
		def:     contextSetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContextSet },
	},
	"context_serialize": {
		def:     contextSerializeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContextSerialize },
	},
	"override_set": {
		def:     overrideSetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleOverrideSet },
	},
	"memory_save": {
		def:     memorySaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMemorySave },
	},
	"memory_list": {
		def:     memoryListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMemoryList },
	},
	"chat": {
		def:     chatToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleChat },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with agent desk tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, client llm.Client, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"agentdesk",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, client)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, client llm.Client, version string) error {
	s := NewServer(db, cfg, client, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
