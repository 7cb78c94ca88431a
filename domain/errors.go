package domain

import "fmt"

// Error types for consistent error handling across the core.
//
// ErrValidation and ErrSchedule are recovered locally: callers receive a
// typed result and no failure crosses the core boundary for
// expected-shape problems. ErrNetwork and ErrConflict propagate after
// the cache has already been restored to a consistent state.

// ErrValidation indicates a malformed mutation payload. It is rejected
// before any optimistic write and never reaches the network.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrNetwork indicates a transport failure or timeout. It triggers a
// cache rollback and is surfaced as a transient, retryable condition.
type ErrNetwork struct {
	Operation string
	Err       error
}

func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("network error in %s: %v", e.Operation, e.Err)
}

func (e *ErrNetwork) Unwrap() error {
	return e.Err
}

// ErrConflict indicates the server rejected a mutation because the
// entity was modified or deleted concurrently. It triggers a cache
// rollback plus a forced refetch of the affected keys.
type ErrConflict struct {
	Resource string
	ID       string
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("conflict on %s %s: entity changed concurrently", e.Resource, e.ID)
}

// ErrSchedule indicates an unrecognized interval type or an internally
// inconsistent template. The template's impact is reported as 0 and the
// template is flagged; the aggregate computation never aborts.
type ErrSchedule struct {
	TemplateID string
	Reason     string
}

func (e *ErrSchedule) Error() string {
	return fmt.Sprintf("schedule error for template %s: %s", e.TemplateID, e.Reason)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}
