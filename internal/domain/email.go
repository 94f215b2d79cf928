package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the
// given data. Template names are suffixed with the language code ("_fr",
// "_en") by the implementation.
type EmailTemplateRenderer interface {
	Render(templateName, lang string, data any) (subject, htmlBody, textBody string, err error)
}

// VerificationEmailData holds data for the signup verification-code email.
type VerificationEmailData struct {
	Email            string
	Username         string
	Code             string
	ExpiresInMinutes int
}

// AlertEmailData holds data for an analysis alert email.
type AlertEmailData struct {
	Email    string
	Username string
	Title    string
	Body     string
	Severity string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendVerificationCode(ctx context.Context, lang string, data *VerificationEmailData) error
	// SendPasswordResetCode reuses VerificationEmailData: same code shape, same expiry.
	SendPasswordResetCode(ctx context.Context, lang string, data *VerificationEmailData) error
	SendAlert(ctx context.Context, lang string, data *AlertEmailData) error
}
