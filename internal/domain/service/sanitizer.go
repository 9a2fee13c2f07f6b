package service

// ContentSanitizer strips unsafe markup from user-submitted text before it
// is persisted or embedded into outbound email.
type ContentSanitizer interface {
	// Sanitize returns the input with all disallowed markup removed.
	// It is idempotent: sanitizing sanitized text is a no-op.
	Sanitize(raw string) string
}
