// Package entity contains the core business objects of the project.
package entity

import "time"

// Session is the locally persisted proof of a completed authentication.
// At most one session exists at a time; its presence implies a prior
// successful login and its absence means the actor is anonymous. The
// record is owned exclusively by the session manager and is mutated only
// by replacement (new login) or deletion (logout or expiry).
type Session struct {
	SubjectID string    // Identity of the authenticated actor.
	ExpiresAt time.Time // Hard expiry, stamped at login time.
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Resource is a community resource entry in the remote document store.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ContactMessage is a submission from the contact form. The attachment is
// carried as base64 payload fields because the mail transport does not
// support binary multipart natively.
type ContactMessage struct {
	Name                string
	Email               string
	Subject             string
	Message             string
	SubscribeNewsletter bool
	AttachmentName      string
	AttachmentType      string
	AttachmentBase64    string
}
