package manifest

import (
	"strings"
	"testing"
)

func validManifest() *AgentManifest {
	return &AgentManifest{
		ID:      "pirate",
		Name:    "Pirate",
		Purpose: "Help with tasks",
		Tone:    TonePlayful,
		Rules:   []string{"Always say arr"},
	}
}

func hasError(result ValidationResult, substr string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidate_ValidManifest(t *testing.T) {
	result := Validate(validManifest())
	if !result.Valid {
		t.Fatalf("manifest should be valid, errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", result.Errors)
	}
}

func TestValidate_NilManifest(t *testing.T) {
	result := Validate(nil)
	if result.Valid {
		t.Error("nil manifest should be invalid")
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	result := Validate(&AgentManifest{})
	if result.Valid {
		t.Fatal("empty manifest should be invalid")
	}

	for _, want := range []string{
		"Agent ID is required",
		"Agent name is required",
		"Purpose is required",
		"Tone is required",
	} {
		if !hasError(result, want) {
			t.Errorf("missing error %q in %v", want, result.Errors)
		}
	}
}

func TestValidate_IDRules(t *testing.T) {
	m := validManifest()
	m.ID = "Capt-Ahab"
	result := Validate(m)
	if !hasError(result, "lowercase letters, numbers, and underscores") {
		t.Errorf("bad characters not reported: %v", result.Errors)
	}

	m.ID = strings.Repeat("a", 51)
	result = Validate(m)
	if !hasError(result, "50 characters or less") {
		t.Errorf("overlong id not reported: %v", result.Errors)
	}

	m.ID = "   "
	result = Validate(m)
	if !hasError(result, "Agent ID is required") {
		t.Errorf("blank id not reported as required: %v", result.Errors)
	}
}

func TestValidate_EachLengthLimitReportedIndependently(t *testing.T) {
	m := &AgentManifest{
		ID:          strings.Repeat("x", 51),
		Name:        strings.Repeat("n", 101),
		Description: strings.Repeat("d", 201),
		Purpose:     strings.Repeat("p", 501),
		Tone:        Tone("sassy"),
		Rules:       []string{strings.Repeat("r", 201)},
		OutputStyle: strings.Repeat("o", 301),
	}

	result := Validate(m)
	if result.Valid {
		t.Fatal("manifest should be invalid")
	}

	// Multi-error reporting: all simultaneous violations appear.
	for _, want := range []string{
		"Agent ID must be 50 characters or less",
		"Agent name must be 100 characters or less",
		"Description must be 200 characters or less",
		"Purpose must be 500 characters or less",
		"Tone must be one of: serious, friendly, playful, blunt",
		"Rule 1 must be 200 characters or less",
		"Output style must be 300 characters or less",
	} {
		if !hasError(result, want) {
			t.Errorf("missing error %q in %v", want, result.Errors)
		}
	}
}

func TestValidate_RuneCountNotBytes(t *testing.T) {
	m := validManifest()
	// 500 multi-byte runes is exactly at the limit even though it is
	// far more than 500 bytes.
	m.Purpose = strings.Repeat("é", 500)
	result := Validate(m)
	if !result.Valid {
		t.Errorf("500-rune purpose should be valid, errors: %v", result.Errors)
	}

	m.Purpose = strings.Repeat("é", 501)
	result = Validate(m)
	if !hasError(result, "Purpose must be 500 characters or less") {
		t.Errorf("501-rune purpose not reported: %v", result.Errors)
	}
}

func TestValidate_RuleCount(t *testing.T) {
	m := validManifest()
	m.Rules = make([]string, 21)
	for i := range m.Rules {
		m.Rules[i] = "rule"
	}
	result := Validate(m)
	if !hasError(result, "Maximum 20 rules allowed") {
		t.Errorf("rule count not reported: %v", result.Errors)
	}

	m.Rules = m.Rules[:20]
	result = Validate(m)
	if !result.Valid {
		t.Errorf("20 rules should be valid, errors: %v", result.Errors)
	}
}

func TestFilterRules(t *testing.T) {
	got := FilterRules([]string{"keep", "  ", "", "also keep"})
	if len(got) != 2 || got[0] != "keep" || got[1] != "also keep" {
		t.Errorf("FilterRules = %v", got)
	}
	if FilterRules([]string{" ", ""}) != nil {
		t.Error("all-blank rules should filter to nil")
	}
}

func TestGenerateAgentID(t *testing.T) {
	cases := []struct{ name, want string }{
		{"Pirate Bot", "pirate_bot"},
		{"  My   Agent!  ", "my_agent"},
		{"C-3PO & Friends", "c3po_friends"},
		{"___", ""},
		{"Tape_Deck 2", "tapedeck_2"},
	}
	for _, c := range cases {
		if got := GenerateAgentID(c.name); got != c.want {
			t.Errorf("GenerateAgentID(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}
