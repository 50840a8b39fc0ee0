package service

import (
	"errors"
	"fmt"
)

// Typed domain failures. Handlers map these to state-appropriate responses
// with errors.Is / errors.As — gated operations must stay distinguishable
// from generic failures so the UI can explain *why* a request was refused.

// ErrConcurrentModification means a transition lost a race under the
// per-record guard. The caller should re-read current state and retry.
var ErrConcurrentModification = errors.New("record was modified concurrently, retry with fresh state")

// NotFoundError marks a referenced record that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidTransitionError is a stage/status change that violates the
// forward-only or gating rules. Recoverable: the caller picks a valid target.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("%s in state %q: %s", e.Entity, e.From, e.Reason)
	}
	return fmt.Sprintf("%s cannot move from %q to %q: %s", e.Entity, e.From, e.To, e.Reason)
}

func notFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}
