// Package mailer wraps the outbound mail transport. Any type implementing
// Mailer can be used to send or simulate sending bill notifications.
package mailer

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailer sends a single plaintext message. One attempt, no retry; a failure
// is terminal for the triggering request.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailgunMailer sends mail through the Mailgun messages API.
type MailgunMailer struct {
	mg   *mailgun.MailgunImpl
	from string
}

func NewMailgunMailer(domain, apiKey, from string) *MailgunMailer {
	return &MailgunMailer{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}
}

func (m *MailgunMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := m.mg.NewMessage(m.from, subject, body, to)
	_, _, err := m.mg.Send(ctx, msg)
	return err
}
