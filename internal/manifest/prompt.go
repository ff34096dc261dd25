package manifest

import "strings"

// toneDescriptions maps each tone to the single sentence emitted under the
// TONE & STYLE header. One entry per Tone value; compilation output depends
// on this table staying stable.
var toneDescriptions = map[Tone]string{
	ToneSerious:  "Maintain a serious, professional, and no-nonsense tone. Be direct and factual.",
	ToneFriendly: "Be warm, friendly, and approachable. Use a conversational style that puts users at ease.",
	TonePlayful:  "Be light-hearted, creative, and engaging. Don't be afraid to show personality and have fun.",
	ToneBlunt:    "Be direct, honest, and straightforward. Skip pleasantries and get straight to the point.",
}

// BuildSystemPrompt compiles a validated manifest into a system prompt.
// Pure and deterministic: identical input yields byte-identical output.
// Sections appear in fixed order (identity, mission, rules, tone, output
// format); rules keep their array order and are never deduplicated.
// Behavior on an invalid manifest is undefined; validate first.
func BuildSystemPrompt(m *AgentManifest) string {
	var parts []string

	// Introduction: who the agent is
	parts = append(parts, "You are "+m.Name+".")

	if m.Description != "" {
		parts = append(parts, m.Description)
	}

	// Purpose: what the agent does
	if m.Purpose != "" {
		parts = append(parts, "\nYour mission: "+m.Purpose)
	}

	// Rules: always/never statements
	if len(m.Rules) > 0 {
		parts = append(parts, "\nRULES:")
		for _, rule := range m.Rules {
			parts = append(parts, "- "+rule)
		}
	}

	// Tone: how the agent communicates
	if m.Tone != "" {
		parts = append(parts, "\nTONE & STYLE:")
		parts = append(parts, toneDescriptions[m.Tone])
	}

	// Output style: formatting and length instructions
	if m.OutputStyle != "" {
		parts = append(parts, "\nOUTPUT FORMAT:")
		parts = append(parts, m.OutputStyle)
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}
