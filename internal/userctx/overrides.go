package userctx

import (
	"database/sql"
	"log"

	"github.com/agentdesk/agentdesk/internal/db"
)

// Overrides maps agent IDs to extra per-agent instructions appended to the
// compiled system prompt at chat time. Overrides never mutate manifests.
type Overrides map[string]string

// OverrideStore reads and writes the agent overrides record.
type OverrideStore struct {
	db *sql.DB
}

// NewOverrideStore creates an OverrideStore with an explicit database handle.
func NewOverrideStore(database *sql.DB) *OverrideStore {
	return &OverrideStore{db: database}
}

// Get returns the full override map. Absent or malformed data yields an
// empty map.
func (s *OverrideStore) Get() (Overrides, error) {
	stored, state, err := db.Read[Overrides](s.db, db.KeyAgentOverrides)
	if err != nil {
		return nil, err
	}
	if state == db.StateMalformed {
		log.Printf("agent overrides record is malformed; treating as empty")
	}
	if state != db.StatePresent || stored == nil {
		return Overrides{}, nil
	}
	return stored, nil
}

// GetFor returns the override for one agent, or "" if none is set.
func (s *OverrideStore) GetFor(agentID string) (string, error) {
	overrides, err := s.Get()
	if err != nil {
		return "", err
	}
	return overrides[agentID], nil
}

// Set stores extra instructions for an agent. An empty instruction string
// removes the entry.
func (s *OverrideStore) Set(agentID, instructions string) error {
	overrides, err := s.Get()
	if err != nil {
		return err
	}
	if instructions == "" {
		delete(overrides, agentID)
	} else {
		overrides[agentID] = instructions
	}
	return db.Write(s.db, db.KeyAgentOverrides, overrides)
}

// Clear removes all overrides.
func (s *OverrideStore) Clear() error {
	return db.Delete(s.db, db.KeyAgentOverrides)
}
