package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentSanitizer_StripsMarkup(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Hello, I have a question.", "Hello, I have a question."},
		{"script removed", `Hi <script>alert("x")</script>there`, "Hi there"},
		{"tags removed content kept", "<b>bold</b> claim", "bold claim"},
		{"event handler removed", `<img src=x onerror="steal()">note`, "note"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizer.Sanitize(tt.in))
		})
	}
}

func TestContentSanitizer_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	once := sanitizer.Sanitize(`<a href="javascript:x">click</a> me`)
	assert.Equal(t, once, sanitizer.Sanitize(once))
}
