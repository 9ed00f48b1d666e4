package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"
)

const (
	defaultWorkers = 2
	defaultBuffer  = 256

	publishTimeout = 10 * time.Second
)

var _ ports.Notifier = (*Dispatcher)(nil)

// Dispatcher is the Notifier handed to the command handlers. OrderStatusChanged only
// enqueues; workers publish in the background so a slow or failing broker never delays
// or undoes a transition. When the queue is full the message is dropped and logged.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	queue     chan Message
	workers   int

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewDispatcher(publisher Publisher, workers, buffer int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = defaultWorkers
	}
	if buffer < 1 {
		buffer = defaultBuffer
	}
	return &Dispatcher{
		publisher: publisher,
		logger:    logger.With("component", "notify-dispatcher"),
		queue:     make(chan Message, buffer),
		workers:   workers,
	}
}

func (d *Dispatcher) OrderStatusChanged(ctx context.Context, event ports.OrderEvent, recipient participant.Role) {
	msg := NewMessage(event, recipient)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.logger.WarnContext(ctx, "dispatcher stopped, notification dropped", "order_id", msg.OrderID)
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.WarnContext(ctx, "notification queue full, notification dropped",
			"order_id", msg.OrderID,
			"disposition", msg.Disposition,
			"recipient", msg.Recipient,
		)
	}
}

// Start launches the workers.
func (d *Dispatcher) Start() {
	for range d.workers {
		d.wg.Add(1)
		go d.work()
	}
	d.logger.Info("dispatcher started", "workers", d.workers)
}

// Stop refuses new messages, drains the queue and closes the publisher. The drain is
// abandoned when ctx ends.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("dispatcher drained")
	case <-ctx.Done():
		d.logger.Warn("dispatcher stop timed out", "pending", len(d.queue))
	}
	return d.publisher.Close()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.publish(msg)
	}
}

func (d *Dispatcher) publish(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, msg); err != nil {
		d.logger.Error("publish notification",
			"order_id", msg.OrderID,
			"disposition", msg.Disposition,
			"recipient", msg.Recipient,
			"error", err,
		)
	}
}
