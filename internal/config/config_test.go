package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxUserAgents != 50 {
		t.Errorf("MaxUserAgents = %d, want 50", cfg.MaxUserAgents)
	}
	if cfg.MaxPromptChars != 4000 {
		t.Errorf("MaxPromptChars = %d, want 4000", cfg.MaxPromptChars)
	}
	if cfg.MaxConversationsPerAgent != 50 {
		t.Errorf("MaxConversationsPerAgent = %d, want 50", cfg.MaxConversationsPerAgent)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.Provider)
	}
}

func TestLoad_FileOverridesScalars(t *testing.T) {
	baseDir := t.TempDir()
	content := `{"max_user_agents": 10, "provider": "anthropic", "model": "claude-sonnet-4-5"}`
	if err := os.WriteFile(filepath.Join(baseDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(baseDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxUserAgents != 10 {
		t.Errorf("MaxUserAgents = %d, want 10", cfg.MaxUserAgents)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", cfg.Provider)
	}
	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("Model = %q, want claude-sonnet-4-5", cfg.Model)
	}
	// Untouched scalar falls back to the default.
	if cfg.MaxPromptChars != 4000 {
		t.Errorf("MaxPromptChars = %d, want 4000", cfg.MaxPromptChars)
	}
}

func TestLoad_InvalidJSON_Errors(t *testing.T) {
	baseDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(baseDir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(baseDir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestMerge_ArraysDeduplicated(t *testing.T) {
	base := &Config{DisabledTools: []string{"chat", "agent_save"}}
	overlay := &Config{DisabledTools: []string{"chat", " memory_save "}}

	merged := Merge(base, overlay)
	want := []string{"chat", "agent_save", "memory_save"}
	if len(merged.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", merged.DisabledTools, want)
	}
	for i, s := range want {
		if merged.DisabledTools[i] != s {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, merged.DisabledTools[i], s)
		}
	}
}
