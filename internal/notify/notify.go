// Package notify forwards domain events to a notification sink.
// Delivery is best-effort: a full queue drops, a failed send logs. The
// lifecycle never waits on a notification.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"mecarent/internal/events"
)

// Notification is one outbound message derived from a domain event.
type Notification struct {
	Event   events.Event
	Message string
}

// Sender delivers a notification to its destination.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the log. It stands in for SMS or
// messenger delivery, which is outside the core.
type LogSender struct {
	Logger zerolog.Logger
}

func (s LogSender) Send(_ context.Context, n Notification) error {
	s.Logger.Info().
		Str("event", n.Event.Type).
		Str("rental_id", n.Event.RentalID).
		Str("machine_id", n.Event.MachineID).
		Msg(n.Message)
	return nil
}

// DispatcherConfig bounds the outbound notification rate.
type DispatcherConfig struct {
	RatePerSecond float64
	Burst         int
	QueueSize     int
}

// DefaultDispatcherConfig returns the default configuration.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		RatePerSecond: 20,
		Burst:         30,
		QueueSize:     256,
	}
}

// Dispatcher buffers events from the bus and sends them through a token
// bucket, so a burst of lifecycle transitions cannot flood the sink.
type Dispatcher struct {
	sender  Sender
	limiter *rate.Limiter
	queue   chan Notification
	logger  zerolog.Logger
}

// NewDispatcher creates a dispatcher around the sender.
func NewDispatcher(sender Sender, config DispatcherConfig, logger zerolog.Logger) *Dispatcher {
	def := DefaultDispatcherConfig()
	if config.RatePerSecond <= 0 {
		config.RatePerSecond = def.RatePerSecond
	}
	if config.Burst <= 0 {
		config.Burst = def.Burst
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	return &Dispatcher{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSecond), config.Burst),
		queue:   make(chan Notification, config.QueueSize),
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// Attach subscribes the dispatcher to every event type on the bus.
func (d *Dispatcher) Attach(bus *events.Bus) {
	bus.SubscribeAll(d.enqueue)
}

func (d *Dispatcher) enqueue(e events.Event) {
	n := Notification{Event: e, Message: messageFor(e)}
	select {
	case d.queue <- n:
	default:
		d.logger.Warn().Str("event", e.Type).Msg("notification queue full, dropping")
	}
}

// Start consumes the queue until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info().Msg("notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("notification dispatcher stopped")
			return
		case n := <-d.queue:
			if err := d.limiter.Wait(ctx); err != nil {
				return
			}
			if err := d.sender.Send(ctx, n); err != nil {
				d.logger.Error().Err(err).Str("event", n.Event.Type).Msg("notification send failed")
			}
		}
	}
}

func messageFor(e events.Event) string {
	switch e.Type {
	case events.RentalPaid:
		return fmt.Sprintf("payment received, rental %s starts now", e.RentalID)
	case events.RentalActivated:
		return fmt.Sprintf("rental %s is now running", e.RentalID)
	case events.RentalCompleted:
		return fmt.Sprintf("rental %s finished", e.RentalID)
	case events.RentalCancelled:
		return fmt.Sprintf("rental %s was cancelled", e.RentalID)
	case events.MachineFreed:
		return fmt.Sprintf("machine %s is available again", e.MachineID)
	default:
		return e.Type
	}
}
