package manifest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits for AgentManifest.
const (
	MaxIDChars          = 50
	MaxNameChars        = 100
	MaxDescriptionChars = 200
	MaxPurposeChars     = 500
	MaxRules            = 20
	MaxRuleChars        = 200
	MaxOutputStyleChars = 300
)

var idPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidationResult reports every rule violation found in a manifest.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks a (possibly partial) manifest against all field rules.
// It never returns early: every rule is evaluated independently so the
// caller can render all problems at once. Lengths are counted in runes.
func Validate(m *AgentManifest) ValidationResult {
	var errs []string

	if m == nil {
		return ValidationResult{Valid: false, Errors: []string{"manifest is required"}}
	}

	if strings.TrimSpace(m.ID) == "" {
		errs = append(errs, "Agent ID is required")
	} else {
		if utf8.RuneCountInString(m.ID) > MaxIDChars {
			errs = append(errs, fmt.Sprintf("Agent ID must be %d characters or less", MaxIDChars))
		}
		if !idPattern.MatchString(m.ID) {
			errs = append(errs, "Agent ID must contain only lowercase letters, numbers, and underscores")
		}
	}

	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, "Agent name is required")
	} else if utf8.RuneCountInString(m.Name) > MaxNameChars {
		errs = append(errs, fmt.Sprintf("Agent name must be %d characters or less", MaxNameChars))
	}

	if strings.TrimSpace(m.Purpose) == "" {
		errs = append(errs, "Purpose is required")
	} else if utf8.RuneCountInString(m.Purpose) > MaxPurposeChars {
		errs = append(errs, fmt.Sprintf("Purpose must be %d characters or less", MaxPurposeChars))
	}

	if m.Tone == "" {
		errs = append(errs, "Tone is required")
	} else if !validTone(m.Tone) {
		errs = append(errs, "Tone must be one of: serious, friendly, playful, blunt")
	}

	if m.Description != "" && utf8.RuneCountInString(m.Description) > MaxDescriptionChars {
		errs = append(errs, fmt.Sprintf("Description must be %d characters or less", MaxDescriptionChars))
	}

	if len(m.Rules) > MaxRules {
		errs = append(errs, fmt.Sprintf("Maximum %d rules allowed", MaxRules))
	}
	for i, rule := range m.Rules {
		if rule != "" && utf8.RuneCountInString(rule) > MaxRuleChars {
			errs = append(errs, fmt.Sprintf("Rule %d must be %d characters or less", i+1, MaxRuleChars))
		}
	}

	if m.OutputStyle != "" && utf8.RuneCountInString(m.OutputStyle) > MaxOutputStyleChars {
		errs = append(errs, fmt.Sprintf("Output style must be %d characters or less", MaxOutputStyleChars))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validTone(t Tone) bool {
	for _, v := range Tones {
		if t == v {
			return true
		}
	}
	return false
}

// FilterRules drops empty and whitespace-only rule entries, preserving order.
// Callers run this before Validate; the validator itself does not filter.
func FilterRules(rules []string) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r) != "" {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
