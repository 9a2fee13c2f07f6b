package service

import (
	"context"
	"time"
)

// Auth event types broadcast to observers after every state change.
const (
	AuthEventLogin    = "login"
	AuthEventLogout   = "logout"
	AuthEventRegister = "register"
)

// AuthEvent is the auth-changed notification published after every login,
// logout and registration so observers can refresh their view of the actor.
type AuthEvent struct {
	RequestID string    `json:"request_id,omitempty"` // For distributed tracing
	Type      string    `json:"type"`
	SubjectID string    `json:"subject_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	At        time.Time `json:"at"`
}

// EventPublisher defines the interface for broadcasting auth-changed events.
type EventPublisher interface {
	// PublishAuthEvent publishes an auth state change notification.
	PublishAuthEvent(ctx context.Context, event *AuthEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
