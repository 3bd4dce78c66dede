// Package events publishes authority lifecycle notifications after a
// successful commit. Publishing is best effort: callers log failures and never
// undo a committed change because of them.
package events

import (
	"context"
	"time"
)

// Routing keys of the lifecycle events.
const (
	AuthorityCreated = "authority.created"
	AuthorityUpdated = "authority.updated"
	AuthorityDeleted = "authority.deleted"
)

// AuthorityEvent is the payload of every authority lifecycle event.
type AuthorityEvent struct {
	AuthorityID uint64    `json:"authority_id"`
	UserID      uint64    `json:"user_id"`
	Type        string    `json:"type,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, evt AuthorityEvent) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, string, AuthorityEvent) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }
