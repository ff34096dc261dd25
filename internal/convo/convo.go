// Package convo persists per-agent conversation transcripts and desktop
// window layout.
package convo

import (
	"crypto/rand"
	"database/sql"
	"log"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/agentdesk/agentdesk/internal/config"
	"github.com/agentdesk/agentdesk/internal/db"
	deskerrors "github.com/agentdesk/agentdesk/internal/errors"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"` // user | assistant | system
	Content string `json:"content"`
}

// Conversation is a saved transcript bound to one agent.
type Conversation struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agentId"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
}

// Store reads and writes per-agent conversation records. Each agent has its
// own record, capped at MaxConversationsPerAgent most-recent conversations.
type Store struct {
	db  *sql.DB
	cfg *config.Config
}

// NewStore creates a Store with an explicit database handle.
func NewStore(database *sql.DB, cfg *config.Config) *Store {
	return &Store{db: database, cfg: cfg}
}

// Load returns an agent's conversations sorted most recently updated first.
// Absent or malformed records read as empty.
func (s *Store) Load(agentID string) ([]Conversation, error) {
	stored, state, err := db.Read[[]Conversation](s.db, db.ConversationKey(agentID))
	if err != nil {
		return nil, err
	}
	if state == db.StateMalformed {
		log.Printf("conversation record for %s is malformed; treating as empty", agentID)
		return nil, nil
	}
	sortByRecency(stored)
	return stored, nil
}

// Save appends a new conversation for an agent, trimming beyond the per-agent
// cap. If the write fails for lack of space, the retained list is halved and
// the write retried once.
func (s *Store) Save(agentID string, messages []Message) (*Conversation, error) {
	now := time.Now().UnixMilli()
	conv := Conversation{
		ID:        generateULID(),
		AgentID:   agentID,
		Messages:  messages,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, err := s.Load(agentID)
	if err != nil {
		return nil, err
	}
	conversations := append(existing, conv)
	sortByRecency(conversations)

	if max := s.cfg.MaxConversationsPerAgent; len(conversations) > max {
		conversations = conversations[:max]
	}

	key := db.ConversationKey(agentID)
	if err := db.Write(s.db, key, conversations); err != nil {
		if !deskerrors.Is(err, deskerrors.ErrStorage) {
			return nil, err
		}
		log.Printf("conversation write for %s failed; halving retained history", agentID)
		reduced := conversations[:len(conversations)/2]
		if err := db.Write(s.db, key, reduced); err != nil {
			return nil, err
		}
	}
	return &conv, nil
}

// Delete removes one conversation from an agent's record. Deleting an
// unknown ID is a no-op.
func (s *Store) Delete(agentID, conversationID string) error {
	conversations, err := s.Load(agentID)
	if err != nil {
		return err
	}
	filtered := conversations[:0]
	for _, c := range conversations {
		if c.ID != conversationID {
			filtered = append(filtered, c)
		}
	}
	return db.Write(s.db, db.ConversationKey(agentID), filtered)
}

// Clear removes all conversations for an agent.
func (s *Store) Clear(agentID string) error {
	return db.Delete(s.db, db.ConversationKey(agentID))
}

func sortByRecency(conversations []Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt > conversations[j].UpdatedAt
	})
}

// generateULID generates a new ULID.
func generateULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
