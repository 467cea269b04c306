// Package audit emits operational audit events for mutating actions
// (override CRUD, compliance refreshes, content submissions). Delivery is
// best-effort and asynchronous; business operations never fail because an
// audit event could not be published.
package audit

import (
	"context"
	"time"
)

// Action identifies what happened.
type Action string

const (
	ActionOverrideCreated  Action = "custom_link_created"
	ActionOverrideDeleted  Action = "custom_link_deleted"
	ActionRefreshApplied   Action = "compliance_refresh_applied"
	ActionContentSubmitted Action = "custom_content_submitted"
)

// Event is a single audit record.
type Event struct {
	ID      string    `json:"id"`
	Action  Action    `json:"action"`
	Subject string    `json:"subject"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher delivers events. Implementations must be safe for concurrent
// use; Close drains buffered events.
type Publisher interface {
	Emit(ctx context.Context, event Event)
	Close(ctx context.Context) error
}

// Noop discards all events. Used when no broker is configured.
type Noop struct{}

func (Noop) Emit(context.Context, Event) {}

func (Noop) Close(context.Context) error { return nil }
