package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/obs"
)

// Dispatcher runs a small worker pool that delivers alerts to every channel
// without blocking the caller that produced them. A failure in one channel
// is logged and never reaches the others or the triggering update.
type Dispatcher struct {
	channels []Channel

	mu           sync.Mutex
	backlog      []Alert
	notify       chan struct{}
	out          chan Alert
	shuttingDown atomic.Bool

	enqueued  atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDispatcher builds a Dispatcher with the given worker count.
func NewDispatcher(workers int, channels []Channel) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		channels: channels,
		notify:   make(chan struct{}, 1),
		out:      make(chan Alert, 64),
		workers:  workers,
	}
}

// Start runs the broker loop and the workers.
func (d *Dispatcher) Start(parent context.Context) {
	d.ctx, d.cancel = context.WithCancel(parent)
	go d.broker()
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Stop cancels background routines and waits for workers to exit.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

// broker moves backlog items to the output channel.
func (d *Dispatcher) broker() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		d.flushOnce()
		select {
		case <-d.ctx.Done():
			return
		case <-d.notify:
		case <-ticker.C:
		}
	}
}

// flushOnce drains backlog into the output buffer.
func (d *Dispatcher) flushOnce() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.backlog) > 0 && len(d.out) < cap(d.out) {
		item := d.backlog[0]
		d.backlog = d.backlog[1:]
		d.out <- item
	}
}

// Enqueue appends an alert into the backlog and nudges the broker.
func (d *Dispatcher) Enqueue(a Alert) bool {
	if d.shuttingDown.Load() {
		return false
	}
	d.enqueued.Add(1)
	d.mu.Lock()
	d.backlog = append(d.backlog, a)
	d.mu.Unlock()
	select {
	case d.notify <- struct{}{}:
	default:
	}
	return true
}

// worker delivers alerts until cancelled.
func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case a := <-d.out:
			d.deliver(a)
		}
	}
}

// deliver fans one alert out to every channel concurrently. Channels fail
// independently; no error propagates past the log line.
func (d *Dispatcher) deliver(a Alert) {
	var wg sync.WaitGroup
	for _, ch := range d.channels {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := ch.Send(ctx, a); err != nil {
				d.failed.Add(1)
				obs.Logger.Error("low_stock_notify_failed",
					"channel", ch.Name(),
					"code", a.Code,
					"error", err,
				)
				return
			}
			obs.Logger.Info("low_stock_notified",
				"channel", ch.Name(),
				"code", a.Code,
				"quantity", a.Quantity,
			)
		}(ch)
	}
	wg.Wait()
	d.delivered.Add(1)
}

// CloseIntake disallows future enqueues.
func (d *Dispatcher) CloseIntake() { d.shuttingDown.Store(true) }

// BacklogSize returns the number of queued-but-undelivered alerts.
func (d *Dispatcher) BacklogSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.backlog) + len(d.out)
}

// Metrics returns counters and backlog size for observability.
func (d *Dispatcher) Metrics() (enq, delivered, failed uint64, backlog int) {
	return d.enqueued.Load(), d.delivered.Load(), d.failed.Load(), d.BacklogSize()
}

// DrainUntil blocks until every enqueued alert has been handled or ctx is
// done. Alerts still in flight at process exit are abandoned, not retried.
func (d *Dispatcher) DrainUntil(ctx context.Context) bool {
	for {
		enq, delivered, _, backlog := d.Metrics()
		if backlog == 0 && enq == delivered {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
