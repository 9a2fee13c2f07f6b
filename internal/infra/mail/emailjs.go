// Package mail implements the transactional mail transport over the
// EmailJS REST API. Templates live in the provider dashboard; the service
// only supplies the template id and a flat parameter map. Attachments are
// passed as base64 parameter fields.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"menshub/config"
	"menshub/internal/domain/service"
)

const defaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

type emailJSService struct {
	endpoint   string
	serviceID  string
	publicKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

// sendRequest is the EmailJS send payload.
type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewEmailJSService is the constructor for the EmailJS-backed MailService.
// When mail is disabled in config it returns a publisher that logs and
// drops every send, so callers never need to special-case it.
func NewEmailJSService(cfg *config.Config, logger *slog.Logger) service.MailService {
	if cfg.Mail == nil || !cfg.Mail.Enabled {
		logger.Info("Mail dispatch disabled, using no-op mail service")

		return &noopMailService{logger: logger}
	}

	endpoint := cfg.Mail.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	return &emailJSService{
		endpoint:   endpoint,
		serviceID:  cfg.Mail.ServiceID,
		publicKey:  cfg.Mail.PublicKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Send renders and dispatches the given template with the parameters.
func (s *emailJSService) Send(ctx context.Context, templateID string, params map[string]string) error {
	if templateID == "" {
		return errors.New("template id must be provided")
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:      s.serviceID,
		TemplateID:     templateID,
		UserID:         s.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return errors.Wrap(err, "encode mail request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "create mail request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "dispatch mail")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		return errors.Errorf("mail dispatch failed with status %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Info("Mail dispatched",
		slog.String("template_id", templateID),
	)

	return nil
}

type noopMailService struct {
	logger *slog.Logger
}

func (s *noopMailService) Send(_ context.Context, templateID string, _ map[string]string) error {
	s.logger.Debug("[NoopMail] Dispatch disabled, dropping message",
		slog.String("template_id", templateID),
	)

	return nil
}
