package mcp

import "github.com/mark3labs/mcp-go/mcp"

var stringItems = map[string]any{"type": "string"}

var agentListToolDef = mcp.NewTool("agent_list",
	mcp.WithDescription("List all agents, built-in first, with remaining user slots."),
)

var agentGetToolDef = mcp.NewTool("agent_get",
	mcp.WithDescription("Fetch one agent manifest by ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Agent ID")),
)

var agentSaveToolDef = mcp.NewTool("agent_save",
	mcp.WithDescription("Create or update a user agent manifest. Built-in IDs are rejected."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Agent ID (lowercase letters, numbers, underscores)")),
	mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
	mcp.WithString("purpose", mcp.Required(), mcp.Description("The agent's mission")),
	mcp.WithString("description", mcp.Description("Short description")),
	mcp.WithString("icon", mcp.Description("Icon identifier")),
	mcp.WithString("tone", mcp.Description("serious | friendly | playful | blunt")),
	mcp.WithArray("rules", mcp.Description("Behavior rules"), mcp.Items(stringItems)),
	mcp.WithString("outputStyle", mcp.Description("Output format instructions")),
)

var agentDeleteToolDef = mcp.NewTool("agent_delete",
	mcp.WithDescription("Delete a user agent. Built-in agents cannot be deleted."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Agent ID")),
)

var agentDuplicateToolDef = mcp.NewTool("agent_duplicate",
	mcp.WithDescription("Duplicate a user agent under a fresh _copyN ID and (Copy N) name."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Agent ID to duplicate")),
)

var agentCompileToolDef = mcp.NewTool("agent_compile",
	mcp.WithDescription("Compile an agent's manifest into its system prompt."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Agent ID")),
)

var contextGetToolDef = mcp.NewTool("context_get",
	mcp.WithDescription("Fetch the stored user context profile."),
)

var contextSetToolDef = mcp.NewTool("context_set",
	mcp.WithDescription("Overwrite the user context profile."),
	mcp.WithString("name", mcp.Description("User's name")),
	mcp.WithString("role", mcp.Description("User's role")),
	mcp.WithString("projects", mcp.Description("Free-text current projects")),
	mcp.WithString("tone", mcp.Description("friendly | blunt | concise | playful")),
	mcp.WithString("skillLevel", mcp.Description("beginner | intermediate | advanced | expert")),
	mcp.WithArray("techStack", mcp.Description("Preferred technologies"), mcp.Items(stringItems)),
	mcp.WithString("timeCapacity", mcp.Description("limited | moderate | flexible")),
	mcp.WithArray("constraints", mcp.Description("Working constraints"), mcp.Items(stringItems)),
	mcp.WithString("learningStyle", mcp.Description("visual | hands-on | conceptual | examples")),
)

var contextSerializeToolDef = mcp.NewTool("context_serialize",
	mcp.WithDescription("Serialize the user context as the paragraph an agent would see."),
	mcp.WithString("agent_id", mcp.Description("Agent whose projection to use")),
)

var overrideSetToolDef = mcp.NewTool("override_set",
	mcp.WithDescription("Set extra instructions for one agent. Empty instructions remove the override."),
	mcp.WithString("agent_id", mcp.Required(), mcp.Description("Agent ID")),
	mcp.WithString("instructions", mcp.Description("Extra instructions appended at chat time")),
)

var memorySaveToolDef = mcp.NewTool("memory_save",
	mcp.WithDescription("Record a conversation memory for an agent."),
	mcp.WithString("agent_id", mcp.Required(), mcp.Description("Agent ID")),
	mcp.WithString("summary", mcp.Required(), mcp.Description("Distilled conversation summary")),
	mcp.WithArray("key_topics", mcp.Description("Topics covered"), mcp.Items(stringItems)),
	mcp.WithArray("decisions", mcp.Description("Decisions made"), mcp.Items(stringItems)),
)

var memoryListToolDef = mcp.NewTool("memory_list",
	mcp.WithDescription("List conversation memories, optionally for one agent."),
	mcp.WithString("agent_id", mcp.Description("Filter by agent ID")),
)

var chatToolDef = mcp.NewTool("chat",
	mcp.WithDescription("Send a conversation to an agent and get the assistant reply."),
	mcp.WithString("agent_id", mcp.Description("Stored agent to chat with")),
	mcp.WithString("mode", mcp.Description(`"raw" skips the system prompt`)),
	mcp.WithArray("messages", mcp.Required(),
		mcp.Description("Conversation history: objects with role and content"),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"role":    map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
			},
			"required": []string{"role", "content"},
		})),
)
