package utils

import (
	"fmt"
	"log"
	"net/smtp"

	"laptoppos/config"
)

// MailResult reports what happened to an outgoing message. Delivered is
// false in dev mode, where no SMTP host is configured and the message is
// only logged.
type MailResult struct {
	Delivered bool   `json:"delivered"`
	Message   string `json:"message"`
}

// SendMail delivers an HTML email through the configured SMTP relay. With
// no relay configured it reports success with Delivered=false instead of
// failing, so development setups work without credentials.
func SendMail(to, subject, html string) (*MailResult, error) {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		log.Printf("SMTP not configured; skipping email to %s (%s)", to, subject)
		return &MailResult{
			Delivered: false,
			Message:   "SMTP not configured; email logged only",
		}, nil
	}

	msg := []byte("From: " + cfg.SMTPFrom + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + html)

	addr := fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort)
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{to}, msg); err != nil {
		return nil, err
	}
	return &MailResult{Delivered: true, Message: "email sent"}, nil
}

// ConfirmationEmailBody renders the registration confirmation message.
func ConfirmationEmailBody(username, token string) (subject, html string) {
	link := fmt.Sprintf("%s/api/auth/confirm?token=%s", config.AppConfig.BaseURL, token)
	subject = "Confirm your LaptopPOS account"
	html = fmt.Sprintf(
		"<p>Hi %s,</p><p>Click the link below to confirm your account:</p>"+
			"<p><a href=\"%s\">%s</a></p><p>The link expires in 48 hours.</p>",
		username, link, link)
	return subject, html
}
