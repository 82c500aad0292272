package notify

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"mecarent/internal/events"
)

type captureSender struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (s *captureSender) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *captureSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestDispatcherForwardsEvents(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(sender, DispatcherConfig{RatePerSecond: 1000, Burst: 100}, zerolog.New(io.Discard))

	bus := events.NewBus()
	d.Attach(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Start(ctx)

	bus.Publish(events.Event{Type: events.RentalPaid, RentalID: "r-1", MachineID: "m-1"})
	bus.Publish(events.Event{Type: events.RentalCompleted, RentalID: "r-1", MachineID: "m-1"})
	bus.Publish(events.Event{Type: events.MachineFreed, MachineID: "m-1"})

	assert.Eventually(t, func() bool { return sender.count() == 3 }, time.Second, time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, "payment received, rental r-1 starts now", sender.sent[0].Message)
	assert.Equal(t, "machine m-1 is available again", sender.sent[2].Message)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(sender, DispatcherConfig{QueueSize: 1}, zerolog.New(io.Discard))

	// Not started: the queue fills and further events are dropped, never
	// blocking the publisher.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.enqueue(events.Event{Type: events.RentalPaid, RentalID: "r"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on full queue")
	}
	assert.Len(t, d.queue, 1)
}

func TestDispatcherLogsSendFailures(t *testing.T) {
	sender := &captureSender{err: errors.New("sink down")}
	d := NewDispatcher(sender, DispatcherConfig{}, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Start(ctx)

	d.enqueue(events.Event{Type: events.RentalPaid, RentalID: "r-1"})

	// Failed sends drain the queue without killing the loop.
	assert.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)
}

func TestLogSenderNeverFails(t *testing.T) {
	s := LogSender{Logger: zerolog.New(io.Discard)}
	err := s.Send(context.Background(), Notification{
		Event:   events.Event{Type: events.RentalActivated, RentalID: "r-1"},
		Message: "rental r-1 is now running",
	})
	assert.NoError(t, err)
}
