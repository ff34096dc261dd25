package errors

import (
	"strings"
	"testing"
)

func TestNewValidation_CarriesAllFieldErrors(t *testing.T) {
	fieldErrors := []string{"Agent ID is required", "Purpose is required"}
	err := NewValidation(fieldErrors)

	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}

	got, ok := err.Details["errors"].([]string)
	if !ok {
		t.Fatalf("Details[\"errors\"] has type %T, want []string", err.Details["errors"])
	}
	if len(got) != 2 {
		t.Errorf("len(errors) = %d, want 2", len(got))
	}
	if !strings.Contains(err.Message, "Agent ID is required") {
		t.Errorf("Message %q should contain first field error", err.Message)
	}
}

func TestNewUpstream_ForwardsStatus(t *testing.T) {
	err := NewUpstream(429, "rate limited")
	if err.Status != 429 {
		t.Errorf("Status = %d, want 429", err.Status)
	}

	// Unknown upstream status falls back to 502.
	err = NewUpstream(0, "connection reset")
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("pirate")
	if !Is(err, ErrNotFound) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrQuotaExceeded) {
		t.Error("Is should not match a different code")
	}
	if Is(nil, ErrNotFound) {
		t.Error("Is should be false for nil")
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *DeskError
		status int
	}{
		{NewBuiltinCollision("tutorial"), 409},
		{NewImmutableAgent("tutorial"), 403},
		{NewQuotaExceeded("user agents", 50), 409},
		{NewInvalidRequest("bad"), 400},
		{NewPromptTooLong(4200, 4000), 400},
		{NewStorage(nil), 507},
		{NewMissingConfig("OPENAI_API_KEY"), 500},
		{NewEmptyResponse("openai"), 502},
		{NewInternal(nil), 500},
	}
	for _, c := range cases {
		if c.err.Status != c.status {
			t.Errorf("%s: Status = %d, want %d", c.err.Code, c.err.Status, c.status)
		}
	}
}
