package service

import "context"

// MailService dispatches template-keyed transactional email. The transport
// takes a template id and a flat parameter map; attachments travel as
// base64-encoded parameter fields because the transport does not support
// binary multipart natively.
type MailService interface {
	// Send renders and dispatches the given template with the parameters.
	Send(ctx context.Context, templateID string, params map[string]string) error
}
