package usecase

import (
	"context"
)

// ContactInput is a contact-form submission. The optional attachment
// travels as base64 payload fields because the mail transport does not
// support binary multipart.
type ContactInput struct {
	Name                string `json:"name" validate:"required,max=100"`
	Email               string `json:"email" validate:"required,email"`
	Subject             string `json:"subject" validate:"required,max=200"`
	Message             string `json:"message" validate:"required,max=5000"`
	SubscribeNewsletter bool   `json:"subscribeNewsletter"`
	AttachmentName      string `json:"attachmentName" validate:"max=255"`
	AttachmentType      string `json:"attachmentType" validate:"max=100"`
	AttachmentBase64    string `json:"attachmentBase64"`
}

// ContactUsecase handles contact-form intake: sanitization, validation and
// mail dispatch.
type ContactUsecase interface {
	// Submit sanitizes the message and dispatches it through the mail
	// transport.
	Submit(ctx context.Context, input ContactInput) error
}
