package convo

import (
	"database/sql"
	"log"

	"github.com/agentdesk/agentdesk/internal/db"
)

// WindowState is the persisted geometry of one desktop window.
type WindowState struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	AppID     string `json:"appId"`
	AgentID   string `json:"agentId,omitempty"`
	Minimized bool   `json:"minimized"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// knownApps is the set of restorable applications. Windows referencing
// anything else are dropped on load rather than restored blind.
var knownApps = map[string]bool{
	"agent_chat":    true,
	"agent_creator": true,
	"playground":    true,
	"control_panel": true,
	"setup_wizard":  true,
	"readme":        true,
}

// WindowStore persists the desktop window layout as a single record.
type WindowStore struct {
	db *sql.DB
}

// NewWindowStore creates a WindowStore with an explicit database handle.
func NewWindowStore(database *sql.DB) *WindowStore {
	return &WindowStore{db: database}
}

// Save overwrites the window layout. A storage failure is logged and the
// layout dropped; losing window geometry never fails the caller.
func (s *WindowStore) Save(windows []WindowState) {
	if err := db.Write(s.db, db.KeyWindowLayout, windows); err != nil {
		log.Printf("window layout not saved: %v", err)
	}
}

// Load returns the saved layout with unknown app windows filtered out.
// Absent or malformed records read as empty.
func (s *WindowStore) Load() ([]WindowState, error) {
	stored, state, err := db.Read[[]WindowState](s.db, db.KeyWindowLayout)
	if err != nil {
		return nil, err
	}
	if state == db.StateMalformed {
		log.Printf("window layout record is malformed; treating as empty")
		return nil, nil
	}

	var out []WindowState
	for _, w := range stored {
		if knownApps[w.AppID] {
			out = append(out, w)
		}
	}
	return out, nil
}

// Clear removes the saved layout.
func (s *WindowStore) Clear() error {
	return db.Delete(s.db, db.KeyWindowLayout)
}
