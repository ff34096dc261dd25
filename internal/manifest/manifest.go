// Package manifest defines the agent manifest model, its validation rules,
// and the deterministic manifest-to-system-prompt compiler.
package manifest

// Tone controls how a compiled agent communicates.
type Tone string

const (
	ToneSerious  Tone = "serious"
	ToneFriendly Tone = "friendly"
	TonePlayful  Tone = "playful"
	ToneBlunt    Tone = "blunt"
)

// Tones lists all valid tone values in declaration order.
var Tones = []Tone{ToneSerious, ToneFriendly, TonePlayful, ToneBlunt}

// AgentManifest is a structured description of an agent that compiles into a
// natural-language system prompt.
type AgentManifest struct {
	// ID uniquely identifies the agent: lowercase alphanumerics and
	// underscores, at most 50 characters.
	ID string `json:"id"`

	// Name is the display name, at most 100 characters.
	Name string `json:"name"`

	// Description is optional flavor text, at most 200 characters.
	Description string `json:"description,omitempty"`

	// Icon is a short decorative string (typically an emoji).
	Icon string `json:"icon,omitempty"`

	// Purpose is the agent's mission statement, at most 500 characters.
	Purpose string `json:"purpose"`

	// Rules are ordered behavioral constraints: at most 20 entries of at
	// most 200 characters each. Order is preserved through compilation.
	Rules []string `json:"rules,omitempty"`

	// Tone is one of serious, friendly, playful, blunt.
	Tone Tone `json:"tone"`

	// OutputStyle is optional formatting guidance, at most 300 characters.
	OutputStyle string `json:"outputStyle,omitempty"`
}

// AgentSource marks where an agent is defined.
type AgentSource string

const (
	SourceBuiltin AgentSource = "builtin"
	SourceUser    AgentSource = "user"
)

// AgentManifestWithSource pairs a manifest with its source.
type AgentManifestWithSource struct {
	AgentManifest
	Source AgentSource `json:"source"`
}
