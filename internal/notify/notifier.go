// Package notify decides when a quantity transition warrants a low-stock
// alert and fans the alert out to the configured channels in the background.
package notify

import (
	"context"
	"fmt"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/config"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/obs"
)

// DefaultThreshold is the stock level at or below which an alert fires.
const DefaultThreshold = 5

// Alert is one low-stock event to deliver.
type Alert struct {
	Code     string
	Quantity int
}

// Channel delivers one alert to a single destination.
type Channel interface {
	Name() string
	Send(ctx context.Context, a Alert) error
}

// ShouldNotify reports whether the transition crosses the threshold from
// above. Updates that stay at or below the threshold do not re-fire, and
// restocking never fires.
func ShouldNotify(oldQuantity, newQuantity, threshold int) bool {
	return newQuantity <= threshold && oldQuantity > threshold
}

// Notifier implements the repository's Alerter. Alerts are handed to a
// background dispatcher; the caller never waits on delivery.
type Notifier struct {
	threshold int
	disp      *Dispatcher
}

// New wires a Notifier from configuration. Channels without configuration
// are skipped silently.
func New(cfg config.Config) *Notifier {
	var channels []Channel
	if c := NewEmailChannel(cfg); c != nil {
		channels = append(channels, c)
	}
	if cfg.SlackWebhook != "" {
		channels = append(channels, &SlackChannel{URL: cfg.SlackWebhook})
	}
	if cfg.DiscordWebhook != "" {
		channels = append(channels, &DiscordChannel{URL: cfg.DiscordWebhook})
	}
	threshold := cfg.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	workers := cfg.NotifyWorkers
	if workers <= 0 {
		workers = 3
	}
	return &Notifier{threshold: threshold, disp: NewDispatcher(workers, channels)}
}

// Start launches the background dispatcher.
func (n *Notifier) Start(ctx context.Context) { n.disp.Start(ctx) }

// Stop stops the dispatcher's workers.
func (n *Notifier) Stop() { n.disp.Stop() }

// CloseIntake rejects further alerts, for shutdown.
func (n *Notifier) CloseIntake() { n.disp.CloseIntake() }

// DrainUntil blocks until queued alerts are delivered or ctx expires.
func (n *Notifier) DrainUntil(ctx context.Context) bool { return n.disp.DrainUntil(ctx) }

// Metrics exposes dispatcher counters.
func (n *Notifier) Metrics() (enq, delivered, failed uint64, backlog int) {
	return n.disp.Metrics()
}

// QuantityChanged receives every quantity transition from the repository and
// enqueues an alert only on a threshold crossing.
func (n *Notifier) QuantityChanged(code string, oldQuantity, newQuantity int) {
	if !ShouldNotify(oldQuantity, newQuantity, n.threshold) {
		return
	}
	obs.Logger.Info("low_stock_detected",
		"code", code,
		"old_quantity", oldQuantity,
		"new_quantity", newQuantity,
		"threshold", n.threshold,
	)
	n.disp.Enqueue(Alert{Code: code, Quantity: newQuantity})
}

func alertText(a Alert) string {
	return fmt.Sprintf("The quantity for item %q is low: only %d left in stock.", a.Code, a.Quantity)
}
