package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/agentdesk/agentdesk/internal/errors"
)

// Record keys for the singleton stores. Per-agent conversation lists use
// ConversationKey instead.
const (
	KeyUserAgents         = "user_agents"
	KeyUserContext        = "user_context"
	KeyAgentOverrides     = "agent_overrides"
	KeyConversationMemory = "conversation_memory"
	KeyWindowLayout       = "window_layout"
)

// ConversationKey returns the record key for an agent's conversation list.
func ConversationKey(agentID string) string {
	return "conversations/" + agentID
}

// ReadState distinguishes the three outcomes of reading a stored record.
// Malformed data must never crash a caller; it is reported explicitly so the
// caller can log and treat it as absent.
type ReadState int

const (
	StateAbsent ReadState = iota
	StateMalformed
	StatePresent
)

// Read loads and decodes the record stored under key.
// The error return is reserved for real database failures; malformed JSON
// yields (zero, StateMalformed, nil).
func Read[T any](database *sql.DB, key string) (T, ReadState, error) {
	var zero T

	var value string
	err := database.QueryRow("SELECT value FROM records WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return zero, StateAbsent, nil
	}
	if err != nil {
		return zero, StateAbsent, errors.NewInternal(err)
	}

	var decoded T
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return zero, StateMalformed, nil
	}
	return decoded, StatePresent, nil
}

// Write serializes v and stores it under key as a single atomic replace.
// The store is either left in its prior state or holds the complete new
// value; there are no partial writes.
func Write(database *sql.DB, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}

	_, err = database.Exec(
		"INSERT OR REPLACE INTO records (key, value, updated_at) VALUES (?, ?, ?)",
		key, string(data), time.Now().Unix(),
	)
	if err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// Delete removes the record stored under key. Missing keys are a no-op.
func Delete(database *sql.DB, key string) error {
	if _, err := database.Exec("DELETE FROM records WHERE key = ?", key); err != nil {
		return errors.NewStorage(err)
	}
	return nil
}
