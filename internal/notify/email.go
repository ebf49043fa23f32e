package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/config"
)

// EmailChannel sends low-stock alerts over SMTP.
type EmailChannel struct {
	host string
	user string
	pass string
	to   string
}

// NewEmailChannel returns nil unless sender credentials and a recipient are
// configured.
func NewEmailChannel(cfg config.Config) *EmailChannel {
	if cfg.EmailUser == "" || cfg.EmailPassword == "" || cfg.EmailTo == "" {
		return nil
	}
	return &EmailChannel{
		host: cfg.EmailSMTPHost,
		user: cfg.EmailUser,
		pass: cfg.EmailPassword,
		to:   cfg.EmailTo,
	}
}

// Name implements Channel.
func (c *EmailChannel) Name() string { return "email" }

// Send implements Channel.
func (c *EmailChannel) Send(ctx context.Context, a Alert) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat("Inventory Alert", c.user); err != nil {
		return fmt.Errorf("email from: %w", err)
	}
	if err := msg.To(c.to); err != nil {
		return fmt.Errorf("email to: %w", err)
	}
	msg.Subject(fmt.Sprintf("Low Stock Alert: %s", a.Code))
	msg.SetBodyString(mail.TypeTextPlain, alertText(a))
	msg.AddAlternativeString(mail.TypeTextHTML, fmt.Sprintf(
		"<p>The quantity for item \"<b>%s</b>\" is low: only <b>%d</b> left in stock.</p>",
		a.Code, a.Quantity,
	))

	client, err := mail.NewClient(c.host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.pass),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
