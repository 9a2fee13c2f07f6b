package impl

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"

	domainerrors "menshub/internal/domain/errors"
	"menshub/internal/domain/service"
	"menshub/internal/usecase"
)

// maxAttachmentBytes caps decoded attachment size; the mail transport
// rejects oversized payloads anyway, this fails earlier with a clearer
// error.
const maxAttachmentBytes = 2 << 20

type contactService struct {
	mail      service.MailService
	sanitizer service.ContentSanitizer
	validate  *validator.Validate
	template  string
	logger    *slog.Logger
}

// NewContactService is the constructor for contactService.
func NewContactService(
	mail service.MailService,
	sanitizer service.ContentSanitizer,
	contactTemplate string,
	logger *slog.Logger,
) usecase.ContactUsecase {
	return &contactService{
		mail:      mail,
		sanitizer: sanitizer,
		validate:  validator.New(),
		template:  contactTemplate,
		logger:    logger,
	}
}

// Submit sanitizes the message and dispatches it through the mail
// transport.
func (s *contactService) Submit(ctx context.Context, input usecase.ContactInput) error {
	if err := s.validate.Struct(input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	if input.AttachmentBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(input.AttachmentBase64)
		if err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("attachment is not valid base64")
		}
		if len(decoded) > maxAttachmentBytes {
			return domainerrors.ErrValidationFailed.WithDetails("attachment exceeds size limit")
		}
	}

	params := map[string]string{
		"from_name":  s.sanitizer.Sanitize(input.Name),
		"from_email": input.Email,
		"subject":    s.sanitizer.Sanitize(input.Subject),
		"message":    s.sanitizer.Sanitize(input.Message),
		"newsletter": strconv.FormatBool(input.SubscribeNewsletter),
	}
	if input.AttachmentBase64 != "" {
		params["attachment_name"] = s.sanitizer.Sanitize(input.AttachmentName)
		params["attachment_type"] = input.AttachmentType
		params["attachment_data"] = input.AttachmentBase64
	}

	if err := s.mail.Send(ctx, s.template, params); err != nil {
		s.logger.Error("contact message dispatch failed", slog.Any("error", err))

		return domainerrors.ErrMailDispatchFailed.WrapMessage(err.Error())
	}

	s.logger.Info("contact message dispatched",
		slog.String("subject", params["subject"]))

	return nil
}
