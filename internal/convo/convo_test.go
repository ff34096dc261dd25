package convo

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/agentdesk/agentdesk/internal/config"
	"github.com/agentdesk/agentdesk/internal/db"
	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
)

func newTestStore(t *testing.T, cfg *config.Config) (*Store, *sql.DB) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewStore(database, cfg), database
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t, nil)

	conv, err := store.Save("builder", []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if conv.ID == "" {
		t.Fatal("saved conversation has no ID")
	}
	if conv.CreatedAt == 0 || conv.UpdatedAt != conv.CreatedAt {
		t.Errorf("timestamps wrong: %+v", conv)
	}

	loaded, err := store.Load("builder")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || len(loaded[0].Messages) != 2 {
		t.Fatalf("load mismatch: %+v", loaded)
	}
	if loaded[0].AgentID != "builder" {
		t.Errorf("agent ID wrong: %q", loaded[0].AgentID)
	}
}

func TestStore_LoadUnknownAgentEmpty(t *testing.T) {
	store, _ := newTestStore(t, nil)
	loaded, err := store.Load("ghost")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty, got %+v", loaded)
	}
}

func TestStore_SaveWriteFailureHalvesShortList(t *testing.T) {
	store, database := newTestStore(t, nil)

	if _, err := store.Save("builder", []Message{{Role: "user", Content: "hi"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Make every write fail so Save takes the halve-and-retry path with a
	// list far shorter than the configured cap. One connection so the
	// pragma covers the writes too.
	database.SetMaxOpenConns(1)
	if _, err := database.Exec("PRAGMA query_only = 1"); err != nil {
		t.Fatalf("set query_only: %v", err)
	}

	_, err := store.Save("builder", []Message{{Role: "user", Content: "again"}})
	if err == nil {
		t.Fatal("expected error when both writes fail")
	}
	if !deskerrors.Is(err, deskerrors.ErrStorage) {
		t.Errorf("expected STORAGE error, got %v", err)
	}

	// Writes restored, the original conversation is intact.
	if _, err := database.Exec("PRAGMA query_only = 0"); err != nil {
		t.Fatalf("unset query_only: %v", err)
	}
	loaded, err := store.Load("builder")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(loaded))
	}
}

func TestStore_RecencyOrder(t *testing.T) {
	store, database := newTestStore(t, nil)

	// Write timestamps directly so ordering does not depend on clock
	// resolution between saves.
	convs := []Conversation{
		{ID: "a", AgentID: "builder", UpdatedAt: 100},
		{ID: "c", AgentID: "builder", UpdatedAt: 300},
		{ID: "b", AgentID: "builder", UpdatedAt: 200},
	}
	if err := db.Write(database, db.ConversationKey("builder"), convs); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := store.Load("builder")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded[0].ID != "c" || loaded[1].ID != "b" || loaded[2].ID != "a" {
		t.Fatalf("expected most recent first, got %+v", loaded)
	}
}

func TestStore_CapKeepsMostRecent(t *testing.T) {
	cfg := config.Merge(config.DefaultConfig(), &config.Config{MaxConversationsPerAgent: 3})
	store, _ := newTestStore(t, cfg)

	var ids []string
	for i := 0; i < 5; i++ {
		conv, err := store.Save("builder", []Message{{Role: "user", Content: fmt.Sprintf("msg %d", i)}})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		ids = append(ids, conv.ID)
		time.Sleep(2 * time.Millisecond) // distinct updatedAt per save
	}

	loaded, err := store.Load("builder")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(loaded))
	}
	// The newest save always survives trimming.
	if loaded[0].ID != ids[4] {
		t.Errorf("newest conversation missing: %+v", loaded)
	}
}

func TestStore_PerAgentIsolation(t *testing.T) {
	store, _ := newTestStore(t, nil)

	store.Save("builder", []Message{{Role: "user", Content: "builder chat"}})
	store.Save("fixit", []Message{{Role: "user", Content: "fixit chat"}})

	builder, _ := store.Load("builder")
	fixit, _ := store.Load("fixit")
	if len(builder) != 1 || len(fixit) != 1 {
		t.Fatalf("agents should not share records: builder=%d fixit=%d", len(builder), len(fixit))
	}
	if builder[0].Messages[0].Content != "builder chat" {
		t.Errorf("cross-agent leak: %+v", builder)
	}
}

func TestStore_DeleteOne(t *testing.T) {
	store, _ := newTestStore(t, nil)

	first, _ := store.Save("builder", []Message{{Role: "user", Content: "one"}})
	second, _ := store.Save("builder", []Message{{Role: "user", Content: "two"}})

	if err := store.Delete("builder", first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	loaded, _ := store.Load("builder")
	if len(loaded) != 1 || loaded[0].ID != second.ID {
		t.Fatalf("delete removed wrong conversation: %+v", loaded)
	}

	// Deleting an unknown ID is a no-op.
	if err := store.Delete("builder", "no_such"); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
	loaded, _ = store.Load("builder")
	if len(loaded) != 1 {
		t.Fatalf("no-op delete changed record: %+v", loaded)
	}
}

func TestStore_Clear(t *testing.T) {
	store, _ := newTestStore(t, nil)
	store.Save("builder", []Message{{Role: "user", Content: "one"}})

	if err := store.Clear("builder"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	loaded, _ := store.Load("builder")
	if len(loaded) != 0 {
		t.Fatalf("expected empty after clear: %+v", loaded)
	}
}

func TestStore_MalformedRecordReadsEmpty(t *testing.T) {
	store, database := newTestStore(t, nil)
	if err := db.Write(database, db.ConversationKey("builder"), "not a list"); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := store.Load("builder")
	if err != nil {
		t.Fatalf("malformed record should not error: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty, got %+v", loaded)
	}
}

func TestWindowStore_RoundTripAndFilter(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := NewWindowStore(database)

	store.Save([]WindowState{
		{ID: "w1", Title: "Builder.exe", AppID: "agent_chat", AgentID: "builder", X: 10, Y: 20, Width: 640, Height: 480},
		{ID: "w2", Title: "Solitaire", AppID: "solitaire"},
		{ID: "w3", Title: "README", AppID: "readme", Minimized: true},
	})

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("unknown app window should be filtered: %+v", loaded)
	}
	if loaded[0].ID != "w1" || loaded[1].ID != "w3" {
		t.Errorf("wrong windows retained: %+v", loaded)
	}
	if !loaded[1].Minimized {
		t.Errorf("minimized flag lost: %+v", loaded[1])
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	loaded, _ = store.Load()
	if len(loaded) != 0 {
		t.Fatalf("expected empty after clear: %+v", loaded)
	}
}

func TestGenerateULID_UniqueAndSortable(t *testing.T) {
	seen := make(map[string]bool)
	var last string
	for i := 0; i < 100; i++ {
		id := generateULID()
		if len(id) != 26 {
			t.Fatalf("unexpected ULID length: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate ULID: %q", id)
		}
		seen[id] = true
		if id < last {
			t.Fatalf("ULIDs regressed: %q after %q", id, last)
		}
		last = id
	}
}
