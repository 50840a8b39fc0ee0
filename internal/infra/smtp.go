package infra

import (
	"fmt"
	"net/smtp"
	"strings"

	"betteredible/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends transactional mail (proof notifications, order sheets,
// shipment confirmations) over plain SMTP.
type Mailer struct {
	host string
	port int
	from string
	auth smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		from: cfg.SMTPUser,
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
	}
}

// Send delivers a plain-text message to one recipient. A non-empty pdfPath
// attaches the file, so order sheets ride along with their notification.
func (m *Mailer) Send(to, subject, body, pdfPath string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("mailer: empty recipient")
	}

	msg := email.NewEmail()
	msg.From = m.from
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)

	if pdfPath != "" {
		if _, err := msg.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", pdfPath, err)
		}
	}

	if err := msg.Send(fmt.Sprintf("%s:%d", m.host, m.port), m.auth); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
