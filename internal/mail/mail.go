package mail

import (
	"context"
	"fmt"
	"log/slog"
)

// Mailer delivers account emails. Delivery failures are the sender's
// problem to log; the anti-enumeration contract means callers usually
// cannot surface them to end users anyway.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// LogMailer writes emails to the operational log instead of sending them.
// Used in development when SMTP is not configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, _, textBody string) error {
	m.logger.Info("email (not sent, smtp unconfigured)",
		"to", to,
		"subject", subject,
		"body", textBody,
	)
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	subject, html, text := PasswordResetEmail(resetURL)
	return m.Send(ctx, to, subject, html, text)
}

// PasswordResetEmail builds the reset email bodies around the raw link.
func PasswordResetEmail(resetURL string) (subject, html, text string) {
	subject = "Reset your Nova Creations password"
	html = fmt.Sprintf(`<p>Hello,</p>
<p>We received a request to reset your Nova Creations password. The link below is valid for one hour and can be used once.</p>
<p><a href="%s">Reset your password</a></p>
<p>If you did not request this, you can ignore this email and your password will stay unchanged.</p>`, resetURL)
	text = fmt.Sprintf(`Hello,

We received a request to reset your Nova Creations password. The link below is valid for one hour and can be used once.

%s

If you did not request this, you can ignore this email and your password will stay unchanged.`, resetURL)
	return subject, html, text
}

// WelcomeEmail builds the invitation email for a newly onboarded employee.
func WelcomeEmail(fullName, portalURL, email, tempPassword string) (subject, html, text string) {
	subject = "Welcome to Nova Creations"
	html = fmt.Sprintf(`<p>Hi %s,</p>
<p>An account has been created for you on the Nova Creations employee portal.</p>
<p>Sign in at <a href="%s">%s</a> with:</p>
<ul><li>Email: %s</li><li>Temporary password: %s</li></ul>
<p>Please change your password after your first login and complete your onboarding checklist.</p>`,
		fullName, portalURL, portalURL, email, tempPassword)
	text = fmt.Sprintf(`Hi %s,

An account has been created for you on the Nova Creations employee portal.

Sign in at %s with:
  Email: %s
  Temporary password: %s

Please change your password after your first login and complete your onboarding checklist.`,
		fullName, portalURL, email, tempPassword)
	return subject, html, text
}
