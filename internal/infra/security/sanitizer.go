// Package security provides concrete implementations of content-safety
// domain services.
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"menshub/internal/domain/service"
)

// contentSanitizer strips all markup from user-submitted text. Contact
// messages and resource descriptions are plain text; anything that looks
// like HTML is hostile or accidental either way.
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer is the constructor for contentSanitizer.
func NewContentSanitizer() service.ContentSanitizer {
	return &contentSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns the input with all markup removed. Idempotent.
func (s *contentSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
