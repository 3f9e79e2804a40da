package notify

import (
	"context"

	"gopkg.in/gomail.v2"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email sends alerts as plain-text mail over SMTP.
type Email struct {
	dialer mailDialer
	from   string
	to     string
}

func NewEmail(host string, port int, user, password, from, to string) *Email {
	return &Email{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		to:     to,
	}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return e.dialer.DialAndSend(m)
}
