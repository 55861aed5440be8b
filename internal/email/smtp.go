package email

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers through a plain SMTP relay. SMTP assigns no
// provider message id and emits no delivery webhooks, so an id is
// generated locally; status tracking then relies on manual confirmation.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (s *SMTPSender) Send(_ context.Context, msg Message) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	for _, att := range msg.Attachments {
		content := att.Content
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}

	return "smtp-" + uuid.NewString(), nil
}
