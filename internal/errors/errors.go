package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents an agentdesk error code.
type ErrorCode string

const (
	ErrValidation       ErrorCode = "VALIDATION"        // 422
	ErrBuiltinCollision ErrorCode = "BUILTIN_COLLISION" // 409
	ErrImmutableAgent   ErrorCode = "IMMUTABLE_AGENT"   // 403
	ErrQuotaExceeded    ErrorCode = "QUOTA_EXCEEDED"    // 409
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrPromptTooLong    ErrorCode = "PROMPT_TOO_LONG"   // 400
	ErrStorage          ErrorCode = "STORAGE"           // 507
	ErrUpstream         ErrorCode = "UPSTREAM"          // upstream status
	ErrMissingConfig    ErrorCode = "MISSING_CONFIG"    // 500
	ErrEmptyResponse    ErrorCode = "EMPTY_RESPONSE"    // 502
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// DeskError represents a structured error with code, status, and details.
type DeskError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DeskError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation creates a 422 error carrying the full field-error list.
// The list is always complete so callers can render every problem at once.
func NewValidation(fieldErrors []string) *DeskError {
	return &DeskError{
		Code:    ErrValidation,
		Status:  422,
		Message: fmt.Sprintf("invalid agent manifest: %s", strings.Join(fieldErrors, ", ")),
		Details: map[string]any{"errors": fieldErrors},
	}
}

// NewBuiltinCollision creates a 409 error for IDs that shadow a built-in agent.
func NewBuiltinCollision(id string) *DeskError {
	return &DeskError{
		Code:    ErrBuiltinCollision,
		Status:  409,
		Message: fmt.Sprintf("agent id %q conflicts with a built-in agent; choose a different id", id),
		Details: map[string]any{"id": id},
	}
}

// NewImmutableAgent creates a 403 error for mutations targeting built-ins.
func NewImmutableAgent(id string) *DeskError {
	return &DeskError{
		Code:    ErrImmutableAgent,
		Status:  403,
		Message: fmt.Sprintf("built-in agent %q cannot be modified or deleted", id),
		Details: map[string]any{"id": id},
	}
}

// NewQuotaExceeded creates a 409 error when a retention limit is reached.
func NewQuotaExceeded(what string, max int) *DeskError {
	return &DeskError{
		Code:    ErrQuotaExceeded,
		Status:  409,
		Message: fmt.Sprintf("maximum of %d %s reached; delete one first", max, what),
		Details: map[string]any{"max": max, "resource": what},
	}
}

// NewNotFound creates a 404 error for a missing agent or conversation.
func NewNotFound(identifier string) *DeskError {
	return &DeskError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *DeskError {
	return &DeskError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewPromptTooLong creates a 400 error when a compiled prompt exceeds the cap.
func NewPromptTooLong(actual, max int) *DeskError {
	return &DeskError{
		Code:    ErrPromptTooLong,
		Status:  400,
		Message: fmt.Sprintf("system prompt too long (%d chars, max %d); reduce agent manifest fields", actual, max),
		Details: map[string]any{"actual_chars": actual, "max_chars": max},
	}
}

// NewStorage creates a 507 error for a failed persistence write.
func NewStorage(err error) *DeskError {
	msg := "storage write failed"
	if err != nil {
		msg = fmt.Sprintf("storage write failed: %v", err)
	}
	return &DeskError{
		Code:    ErrStorage,
		Status:  507,
		Message: msg,
	}
}

// NewUpstream creates an error forwarding the completion API's own status.
func NewUpstream(status int, msg string) *DeskError {
	if status == 0 {
		status = 502
	}
	return &DeskError{
		Code:    ErrUpstream,
		Status:  status,
		Message: fmt.Sprintf("completion API error: %s", msg),
		Details: map[string]any{"upstream_status": status},
	}
}

// NewMissingConfig creates a 500 error for an absent server credential.
func NewMissingConfig(name string) *DeskError {
	return &DeskError{
		Code:    ErrMissingConfig,
		Status:  500,
		Message: fmt.Sprintf("%s is not configured", name),
		Details: map[string]any{"name": name},
	}
}

// NewEmptyResponse creates a 502 error when the provider returns no text.
func NewEmptyResponse(provider string) *DeskError {
	return &DeskError{
		Code:    ErrEmptyResponse,
		Status:  502,
		Message: fmt.Sprintf("no response from %s", provider),
		Details: map[string]any{"provider": provider},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *DeskError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DeskError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a DeskError with the given code.
func Is(err error, code ErrorCode) bool {
	if dErr, ok := err.(*DeskError); ok {
		return dErr.Code == code
	}
	return false
}
