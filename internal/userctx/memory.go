package userctx

import (
	"database/sql"
	"log"
	"time"

	"github.com/agentdesk/agentdesk/internal/config"
	"github.com/agentdesk/agentdesk/internal/db"
)

// Memory is a distilled summary of a past conversation, kept so future
// sessions can recall earlier decisions without replaying transcripts.
type Memory struct {
	AgentID               string   `json:"agentId"`
	Timestamp             int64    `json:"timestamp"`
	Summary               string   `json:"summary"`
	KeyTopics             []string `json:"keyTopics"`
	Decisions             []string `json:"decisions,omitempty"`
	CodeSnippets          []string `json:"codeSnippets,omitempty"`
	PreferencesDiscovered []string `json:"preferencesDiscovered,omitempty"`
}

type memoryRecord struct {
	Conversations []Memory `json:"conversations"`
	LastUpdated   int64    `json:"lastUpdated"`
}

// MemoryStore reads and writes the global conversation memory record. The
// record is capped globally across all agents, evicting oldest first.
type MemoryStore struct {
	db  *sql.DB
	cfg *config.Config
}

// NewMemoryStore creates a MemoryStore with an explicit database handle.
func NewMemoryStore(database *sql.DB, cfg *config.Config) *MemoryStore {
	return &MemoryStore{db: database, cfg: cfg}
}

// load reads the memory record. Malformed data reads as empty; database
// failures propagate.
func (s *MemoryStore) load() (memoryRecord, error) {
	stored, state, err := db.Read[memoryRecord](s.db, db.KeyConversationMemory)
	if err != nil {
		return memoryRecord{}, err
	}
	if state == db.StateMalformed {
		log.Printf("conversation memory record is malformed; treating as empty")
		return memoryRecord{}, nil
	}
	return stored, nil
}

// All returns every stored memory, oldest first.
func (s *MemoryStore) All() ([]Memory, error) {
	record, err := s.load()
	if err != nil {
		return nil, err
	}
	return record.Conversations, nil
}

// ForAgent returns memories recorded for one agent, oldest first.
func (s *MemoryStore) ForAgent(agentID string) ([]Memory, error) {
	record, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []Memory
	for _, m := range record.Conversations {
		if m.AgentID == agentID {
			out = append(out, m)
		}
	}
	return out, nil
}

// Save appends a memory, evicting the oldest entries beyond the global cap.
func (s *MemoryStore) Save(m Memory) error {
	record, err := s.load()
	if err != nil {
		return err
	}
	record.Conversations = append(record.Conversations, m)
	record.LastUpdated = time.Now().UnixMilli()

	if max := s.cfg.MaxMemories; len(record.Conversations) > max {
		record.Conversations = record.Conversations[len(record.Conversations)-max:]
	}

	return db.Write(s.db, db.KeyConversationMemory, record)
}

// Clear removes all conversation memories.
func (s *MemoryStore) Clear() error {
	return db.Delete(s.db, db.KeyConversationMemory)
}
