package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackChannel posts low-stock alerts to a Slack incoming webhook.
type SlackChannel struct {
	URL string
}

// Name implements Channel.
func (c *SlackChannel) Name() string { return "slack" }

// Send implements Channel.
func (c *SlackChannel) Send(ctx context.Context, a Alert) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("*Low Stock Alert!*\n> Item: *%s*\n> Quantity Remaining: *%d*", a.Code, a.Quantity),
	}
	return slack.PostWebhookContext(ctx, c.URL, msg)
}
