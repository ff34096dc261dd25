// Package userctx stores the end-user profile and serializes agent-specific
// projections of it into prompt-appendable text.
package userctx

import (
	"database/sql"
	"log"

	"github.com/agentdesk/agentdesk/internal/db"
)

// Goal is a structured objective on the user's profile.
type Goal struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`   // planning | in-progress | on-hold | completed
	Priority    string   `json:"priority"` // high | medium | low
	RelatedTech []string `json:"relatedTech,omitempty"`
}

// Preferences captures the user's code-output preferences.
type Preferences struct {
	CodeStyle          string `json:"codeStyle,omitempty"`          // verbose | minimal | balanced
	DocumentationLevel string `json:"documentationLevel,omitempty"` // none | minimal | moderate | extensive
	ErrorHandling      string `json:"errorHandling,omitempty"`      // strict | flexible
	Comments           string `json:"comments,omitempty"`           // none | sparse | generous
}

// UserContext is the singleton end-user profile. Projects is a legacy
// free-text field kept alongside the structured Goals list; both are
// independently readable and writable, with no reconciliation between them.
type UserContext struct {
	Name          string       `json:"name"`
	Role          string       `json:"role"`
	Projects      string       `json:"projects,omitempty"`
	Goals         []Goal       `json:"goals,omitempty"`
	Tone          string       `json:"tone"` // friendly | blunt | concise | playful
	SkillLevel    string       `json:"skillLevel,omitempty"`
	TechStack     []string     `json:"techStack,omitempty"`
	TimeCapacity  string       `json:"timeCapacity,omitempty"` // limited | moderate | flexible
	Preferences   *Preferences `json:"preferences,omitempty"`
	Constraints   []string     `json:"constraints,omitempty"`
	LearningStyle string       `json:"learningStyle,omitempty"` // visual | hands-on | conceptual | examples
}

// ContextStore reads and writes the singleton user context record.
type ContextStore struct {
	db *sql.DB
}

// NewContextStore creates a ContextStore with an explicit database handle.
func NewContextStore(database *sql.DB) *ContextStore {
	return &ContextStore{db: database}
}

// Get returns the stored user context, migrated forward, or nil if absent.
// Malformed stored data is treated as absent.
func (s *ContextStore) Get() (*UserContext, error) {
	stored, state, err := db.Read[UserContext](s.db, db.KeyUserContext)
	if err != nil {
		return nil, err
	}
	switch state {
	case db.StateAbsent:
		return nil, nil
	case db.StateMalformed:
		log.Printf("user context record is malformed; treating as absent")
		return nil, nil
	}

	migrated := migrate(&stored)
	return migrated, nil
}

// Save overwrites the user context record wholesale. No merge.
func (s *ContextStore) Save(ctx *UserContext) error {
	return db.Write(s.db, db.KeyUserContext, ctx)
}

// migrate applies the forward migration for older stored shapes: missing
// fields keep their zero value, the default tone is applied, and the legacy
// projects string survives alongside structured goals.
func migrate(old *UserContext) *UserContext {
	migrated := *old
	if migrated.Tone == "" {
		migrated.Tone = "friendly"
	}
	return &migrated
}
