package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// MaxUserAgents caps the number of user-created agents.
	MaxUserAgents int `json:"max_user_agents"`

	// MaxPromptChars caps the compiled system prompt length accepted by the
	// chat gateway. The compiler itself never checks this.
	MaxPromptChars int `json:"max_prompt_chars"`

	// MaxConversationsPerAgent caps retained conversations per agent;
	// oldest-by-recency are evicted first.
	MaxConversationsPerAgent int `json:"max_conversations_per_agent"`

	// MaxMemories caps long-term conversation memory records across all agents.
	MaxMemories int `json:"max_memories"`

	// Provider selects the completion API backend: "openai" or "anthropic".
	Provider string `json:"provider,omitempty"`

	// Model is the provider model name sent with each chat request.
	Model string `json:"model,omitempty"`

	// Temperature is passed to the completion API when > 0.
	Temperature float64 `json:"temperature,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxUserAgents:            50,
		MaxPromptChars:           4000,
		MaxConversationsPerAgent: 50,
		MaxMemories:              50,
		Provider:                 "openai",
		Model:                    "gpt-4o-mini",
		Temperature:              0.7,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.agentdesk.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.MaxUserAgents = overlay.MaxUserAgents
	if result.MaxUserAgents == 0 {
		result.MaxUserAgents = base.MaxUserAgents
	}

	result.MaxPromptChars = overlay.MaxPromptChars
	if result.MaxPromptChars == 0 {
		result.MaxPromptChars = base.MaxPromptChars
	}

	result.MaxConversationsPerAgent = overlay.MaxConversationsPerAgent
	if result.MaxConversationsPerAgent == 0 {
		result.MaxConversationsPerAgent = base.MaxConversationsPerAgent
	}

	result.MaxMemories = overlay.MaxMemories
	if result.MaxMemories == 0 {
		result.MaxMemories = base.MaxMemories
	}

	result.Provider = overlay.Provider
	if result.Provider == "" {
		result.Provider = base.Provider
	}

	result.Model = overlay.Model
	if result.Model == "" {
		result.Model = base.Model
	}

	result.Temperature = overlay.Temperature
	if result.Temperature == 0 {
		result.Temperature = base.Temperature
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
