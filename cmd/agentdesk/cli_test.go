package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/agentdesk/agentdesk/internal/config"
	"github.com/agentdesk/agentdesk/internal/db"
	"github.com/agentdesk/agentdesk/internal/manifest"
	"github.com/agentdesk/agentdesk/internal/userctx"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// testConfig returns a default config for testing.
func testConfig() *config.Config {
	return config.DefaultConfig()
}

// runApp runs the CLI app with captured stdout and optional piped stdin.
func runApp(t *testing.T, app interface {
	Run(args []string) error
}, args []string, stdin string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	oldStdin := os.Stdin
	if stdin != "" {
		stdinR, stdinW, _ := os.Pipe()
		os.Stdin = stdinR
		go func() {
			_, _ = stdinW.WriteString(stdin)
			stdinW.Close()
		}()
	}

	err := app.Run(args)

	os.Stdin = oldStdin
	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

func validManifestJSON() string {
	return `{
		"id": "pirate",
		"name": "Pirate.exe",
		"purpose": "Talk like a pirate",
		"tone": "playful",
		"rules": ["Say arr"]
	}`
}

func TestCLIAgentList(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())
	out, err := runApp(t, app, []string{"agentdesk", "agent", "list"}, "")
	if err != nil {
		t.Fatalf("agent list failed: %v", err)
	}

	var output struct {
		Agents         []manifest.AgentManifestWithSource `json:"agents"`
		RemainingSlots int                                `json:"remaining_slots"`
	}
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Agents) < 5 {
		t.Errorf("expected at least 5 built-in agents, got %d", len(output.Agents))
	}
	if output.Agents[0].Source != manifest.SourceBuiltin {
		t.Errorf("expected built-in agents first, got source=%s", output.Agents[0].Source)
	}
	if output.RemainingSlots != testConfig().MaxUserAgents {
		t.Errorf("expected %d remaining slots, got %d", testConfig().MaxUserAgents, output.RemainingSlots)
	}
}

func TestCLIAgentSaveAndGet(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, []string{"agentdesk", "agent", "save"}, validManifestJSON())
	if err != nil {
		t.Fatalf("agent save failed: %v", err)
	}
	if !strings.Contains(out, `"saved": true`) {
		t.Errorf("expected saved confirmation, got %q", out)
	}

	out, err = runApp(t, app, []string{"agentdesk", "agent", "get", "pirate"}, "")
	if err != nil {
		t.Fatalf("agent get failed: %v", err)
	}
	var agent manifest.AgentManifestWithSource
	if err := json.Unmarshal([]byte(out), &agent); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if agent.Name != "Pirate.exe" {
		t.Errorf("expected name Pirate.exe, got %s", agent.Name)
	}
	if agent.Source != manifest.SourceUser {
		t.Errorf("expected user source, got %s", agent.Source)
	}
}

func TestCLIAgentSaveInvalid(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	_, err := runApp(t, app, []string{"agentdesk", "agent", "save"}, `{"id": "bad!!", "name": "", "purpose": ""}`)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "VALIDATION") {
		t.Errorf("expected VALIDATION error, got %v", err)
	}
}

func TestCLIAgentDeleteBuiltin(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	_, err := runApp(t, app, []string{"agentdesk", "agent", "delete", "builder"}, "")
	if err == nil {
		t.Fatal("expected error deleting built-in agent")
	}
	if !strings.Contains(err.Error(), "IMMUTABLE_AGENT") {
		t.Errorf("expected IMMUTABLE_AGENT error, got %v", err)
	}
}

func TestCLIAgentDuplicate(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	if _, err := runApp(t, app, []string{"agentdesk", "agent", "save"}, validManifestJSON()); err != nil {
		t.Fatalf("agent save failed: %v", err)
	}

	out, err := runApp(t, app, []string{"agentdesk", "agent", "duplicate", "pirate"}, "")
	if err != nil {
		t.Fatalf("agent duplicate failed: %v", err)
	}
	var dup manifest.AgentManifest
	if err := json.Unmarshal([]byte(out), &dup); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if dup.ID != "pirate_copy1" {
		t.Errorf("expected id pirate_copy1, got %s", dup.ID)
	}
	if dup.Name != "Pirate.exe (Copy 1)" {
		t.Errorf("expected copy suffix in name, got %s", dup.Name)
	}
}

func TestCLIAgentCompile(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, []string{"agentdesk", "agent", "compile", "fixit"}, "")
	if err != nil {
		t.Fatalf("agent compile failed: %v", err)
	}
	if !strings.Contains(out, "You are Fixit.bat.") {
		t.Errorf("expected compiled prompt to open with identity line, got %q", out)
	}
}

func TestCLIContextRoundTrip(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	_, err := runApp(t, app, []string{"agentdesk", "context", "show"}, "")
	if err == nil {
		t.Fatal("expected NOT_FOUND before context is set")
	}

	ctxJSON := `{"name": "Ada", "role": "Engineer", "skillLevel": "advanced", "techStack": ["Go"]}`
	if _, err := runApp(t, app, []string{"agentdesk", "context", "set"}, ctxJSON); err != nil {
		t.Fatalf("context set failed: %v", err)
	}

	out, err := runApp(t, app, []string{"agentdesk", "context", "show"}, "")
	if err != nil {
		t.Fatalf("context show failed: %v", err)
	}
	var ctx userctx.UserContext
	if err := json.Unmarshal([]byte(out), &ctx); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if ctx.Name != "Ada" {
		t.Errorf("expected name Ada, got %s", ctx.Name)
	}
	if ctx.Tone != "friendly" {
		t.Errorf("expected default tone friendly, got %s", ctx.Tone)
	}

	out, err = runApp(t, app, []string{"agentdesk", "context", "serialize", "--agent", "builder"}, "")
	if err != nil {
		t.Fatalf("context serialize failed: %v", err)
	}
	if !strings.Contains(out, "The user's name is Ada.") {
		t.Errorf("expected serialized name, got %q", out)
	}
	if !strings.Contains(out, "Go") {
		t.Errorf("expected tech stack in builder projection, got %q", out)
	}
}

func TestCLIContextApplyTemplate(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, []string{"agentdesk", "context", "apply-template", "junior-developer"}, "")
	if err != nil {
		t.Fatalf("apply-template failed: %v", err)
	}
	var ctx userctx.UserContext
	if err := json.Unmarshal([]byte(out), &ctx); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if ctx.SkillLevel != "beginner" {
		t.Errorf("expected beginner skill level, got %s", ctx.SkillLevel)
	}

	// Persisted, not just returned.
	stored, err := userctx.NewContextStore(database).Get()
	if err != nil {
		t.Fatalf("context get failed: %v", err)
	}
	if stored == nil || stored.SkillLevel != "beginner" {
		t.Error("expected applied template to be stored")
	}

	_, err = runApp(t, app, []string{"agentdesk", "context", "apply-template", "no-such-template"}, "")
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestCLIOverrideSetAndList(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	if _, err := runApp(t, app, []string{"agentdesk", "override", "set", "builder", "Always", "use", "Go"}, ""); err != nil {
		t.Fatalf("override set failed: %v", err)
	}

	out, err := runApp(t, app, []string{"agentdesk", "override", "list"}, "")
	if err != nil {
		t.Fatalf("override list failed: %v", err)
	}
	var overrides map[string]string
	if err := json.Unmarshal([]byte(out), &overrides); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if overrides["builder"] != "Always use Go" {
		t.Errorf("expected joined instructions, got %q", overrides["builder"])
	}
}

func TestCLIMemorySaveAndList(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	if _, err := runApp(t, app, []string{"agentdesk", "memory", "save", "builder", "Shipped", "the", "parser"}, ""); err != nil {
		t.Fatalf("memory save failed: %v", err)
	}
	if _, err := runApp(t, app, []string{"agentdesk", "memory", "save", "fixit", "Fixed the race"}, ""); err != nil {
		t.Fatalf("memory save failed: %v", err)
	}

	out, err := runApp(t, app, []string{"agentdesk", "memory", "list", "--agent", "builder"}, "")
	if err != nil {
		t.Fatalf("memory list failed: %v", err)
	}
	var memories []userctx.Memory
	if err := json.Unmarshal([]byte(out), &memories); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(memories) != 1 {
		t.Fatalf("expected 1 memory for builder, got %d", len(memories))
	}
	if memories[0].Summary != "Shipped the parser" {
		t.Errorf("expected joined summary, got %q", memories[0].Summary)
	}

	if _, err := runApp(t, app, []string{"agentdesk", "memory", "clear"}, ""); err != nil {
		t.Fatalf("memory clear failed: %v", err)
	}
	out, err = runApp(t, app, []string{"agentdesk", "memory", "list"}, "")
	if err != nil {
		t.Fatalf("memory list failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &memories); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(memories) != 0 {
		t.Errorf("expected no memories after clear, got %d", len(memories))
	}
}

func TestCLIUnknownAgent(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	_, err := runApp(t, app, []string{"agentdesk", "agent", "get", "nope"}, "")
	if err == nil {
		t.Fatal("expected NOT_FOUND error")
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("expected NOT_FOUND error, got %v", err)
	}
}
