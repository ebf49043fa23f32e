package notify

import (
	"context"
	"strconv"

	"github.com/gtuk/discordwebhook"
)

// DiscordChannel posts low-stock alerts to a Discord webhook as an embed.
type DiscordChannel struct {
	URL string
}

// Name implements Channel.
func (c *DiscordChannel) Name() string { return "discord" }

// Send implements Channel. The webhook library is not context-aware, so the
// context goes unused.
func (c *DiscordChannel) Send(_ context.Context, a Alert) error {
	title := "🚨 Low Stock Alert"
	color := strconv.Itoa(0xffa500)
	itemField := "Item"
	itemValue := a.Code
	qtyField := "Quantity Remaining"
	qtyValue := strconv.Itoa(a.Quantity)
	inline := true

	embed := discordwebhook.Embed{
		Title: &title,
		Color: &color,
		Fields: &[]discordwebhook.Field{
			{Name: &itemField, Value: &itemValue},
			{Name: &qtyField, Value: &qtyValue, Inline: &inline},
		},
	}
	return discordwebhook.SendMessage(c.URL, discordwebhook.Message{
		Embeds: &[]discordwebhook.Embed{embed},
	})
}
