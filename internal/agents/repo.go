// Package agents provides CRUD over built-in and user-created agent
// manifests, backed by the durable record store.
package agents

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/agentdesk/agentdesk/internal/config"
	"github.com/agentdesk/agentdesk/internal/db"
	"github.com/agentdesk/agentdesk/internal/errors"
	"github.com/agentdesk/agentdesk/internal/manifest"
)

// Repository owns the serialized user-agent list. Built-ins live in static
// code; user agents are one record, written wholesale on every mutation.
type Repository struct {
	db  *sql.DB
	cfg *config.Config
}

// NewRepository creates a Repository with explicit dependencies.
func NewRepository(database *sql.DB, cfg *config.Config) *Repository {
	return &Repository{db: database, cfg: cfg}
}

// loadUserAgents reads the user-agent record, treating malformed data as
// empty and dropping entries that no longer validate.
func (r *Repository) loadUserAgents() ([]manifest.AgentManifest, error) {
	stored, state, err := db.Read[[]manifest.AgentManifest](r.db, db.KeyUserAgents)
	if err != nil {
		return nil, err
	}
	switch state {
	case db.StateAbsent:
		return nil, nil
	case db.StateMalformed:
		log.Printf("user agents record is malformed; treating as empty")
		return nil, nil
	}

	agents := make([]manifest.AgentManifest, 0, len(stored))
	for _, a := range stored {
		if result := manifest.Validate(&a); !result.Valid {
			log.Printf("skipping invalid stored agent %q: %v", a.ID, result.Errors)
			continue
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// All returns every agent: built-ins first in declaration order, then user
// agents sorted by name ascending (case-folded). Never empty.
func (r *Repository) All() ([]manifest.AgentManifestWithSource, error) {
	userAgents, err := r.loadUserAgents()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(userAgents, func(i, j int) bool {
		a, b := strings.ToLower(userAgents[i].Name), strings.ToLower(userAgents[j].Name)
		if a != b {
			return a < b
		}
		return userAgents[i].Name < userAgents[j].Name
	})

	builtins := manifest.Builtins()
	all := make([]manifest.AgentManifestWithSource, 0, len(builtins)+len(userAgents))
	for _, b := range builtins {
		all = append(all, manifest.AgentManifestWithSource{AgentManifest: b, Source: manifest.SourceBuiltin})
	}
	for _, u := range userAgents {
		all = append(all, manifest.AgentManifestWithSource{AgentManifest: u, Source: manifest.SourceUser})
	}
	return all, nil
}

// Get returns the agent with the given id, built-in or user.
func (r *Repository) Get(id string) (*manifest.AgentManifestWithSource, error) {
	if b, ok := manifest.GetBuiltin(id); ok {
		return &manifest.AgentManifestWithSource{AgentManifest: b, Source: manifest.SourceBuiltin}, nil
	}

	userAgents, err := r.loadUserAgents()
	if err != nil {
		return nil, err
	}
	for _, a := range userAgents {
		if a.ID == id {
			return &manifest.AgentManifestWithSource{AgentManifest: a, Source: manifest.SourceUser}, nil
		}
	}
	return nil, errors.NewNotFound(id)
}

// Save validates and persists a user agent. Upsert semantics: an existing
// user agent with the same id is replaced; a new one is appended subject to
// the MaxUserAgents quota. IDs matching a built-in are always rejected.
func (r *Repository) Save(m *manifest.AgentManifest) error {
	if result := manifest.Validate(m); !result.Valid {
		return errors.NewValidation(result.Errors)
	}

	if manifest.IsBuiltin(m.ID) {
		return errors.NewBuiltinCollision(m.ID)
	}

	existing, err := r.loadUserAgents()
	if err != nil {
		return err
	}

	replaced := false
	for i, a := range existing {
		if a.ID == m.ID {
			existing[i] = *m
			replaced = true
			break
		}
	}
	if !replaced {
		if len(existing) >= r.cfg.MaxUserAgents {
			return errors.NewQuotaExceeded("user agents", r.cfg.MaxUserAgents)
		}
		existing = append(existing, *m)
	}

	return db.Write(r.db, db.KeyUserAgents, existing)
}

// Delete removes the user agent with the given id. Built-ins are immutable;
// a missing user agent is a no-op, not an error.
func (r *Repository) Delete(id string) error {
	if manifest.IsBuiltin(id) {
		return errors.NewImmutableAgent(id)
	}

	existing, err := r.loadUserAgents()
	if err != nil {
		return err
	}

	filtered := existing[:0:0]
	for _, a := range existing {
		if a.ID != id {
			filtered = append(filtered, a)
		}
	}
	if len(filtered) == len(existing) {
		return nil
	}

	return db.Write(r.db, db.KeyUserAgents, filtered)
}

// Duplicate copies an existing user agent under the first "_copyN" id and
// "(Copy N)" name that are both unique across all agents, then saves it
// through Save (so it is subject to the same quota check).
func (r *Repository) Duplicate(id string) (*manifest.AgentManifest, error) {
	userAgents, err := r.loadUserAgents()
	if err != nil {
		return nil, err
	}

	var source *manifest.AgentManifest
	for i := range userAgents {
		if userAgents[i].ID == id {
			source = &userAgents[i]
			break
		}
	}
	if source == nil {
		return nil, errors.NewNotFound(id)
	}

	all, err := r.All()
	if err != nil {
		return nil, err
	}
	takenIDs := make(map[string]bool, len(all))
	takenNames := make(map[string]bool, len(all))
	for _, a := range all {
		takenIDs[a.ID] = true
		takenNames[a.Name] = true
	}

	copyNumber := 1
	newID := fmt.Sprintf("%s_copy%d", source.ID, copyNumber)
	newName := fmt.Sprintf("%s (Copy %d)", source.Name, copyNumber)
	for takenIDs[newID] || takenNames[newName] {
		copyNumber++
		newID = fmt.Sprintf("%s_copy%d", source.ID, copyNumber)
		newName = fmt.Sprintf("%s (Copy %d)", source.Name, copyNumber)
	}

	duplicate := *source
	duplicate.ID = newID
	duplicate.Name = newName
	duplicate.Rules = append([]string(nil), source.Rules...)

	if err := r.Save(&duplicate); err != nil {
		return nil, err
	}
	return &duplicate, nil
}

// RemainingSlots returns how many user agents can still be created.
func (r *Repository) RemainingSlots() (int, error) {
	userAgents, err := r.loadUserAgents()
	if err != nil {
		return 0, err
	}
	remaining := r.cfg.MaxUserAgents - len(userAgents)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
