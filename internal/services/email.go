package services

import (
	"context"
	"fmt"
	"log/slog"

	"farmtrack/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService creates an EmailService on top of a Mailer and a template
// renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) SendVerificationCode(ctx context.Context, lang string, data *domain.VerificationEmailData) error {
	return s.send("verification", lang, data.Email, data)
}

func (s *emailService) SendPasswordResetCode(ctx context.Context, lang string, data *domain.VerificationEmailData) error {
	return s.send("reset", lang, data.Email, data)
}

func (s *emailService) SendAlert(ctx context.Context, lang string, data *domain.AlertEmailData) error {
	return s.send("alert", lang, data.Email, data)
}

func (s *emailService) send(templateName, lang, to string, data any) error {
	subject, html, text, err := s.renderer.Render(templateName, lang, data)
	if err != nil {
		return fmt.Errorf("failed to render %s email: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, html, text); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	s.logger.Info("email sent", "template", templateName, "lang", lang)
	return nil
}
