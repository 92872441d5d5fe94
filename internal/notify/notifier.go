package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	EventLateArrival    = "attendance.late"
	EventSessionLogin   = "session.login"
	EventSessionLogout  = "session.logout"
	EventSessionRevoked = "session.revoked"
)

type Event struct {
	Type     string    `json:"type"`
	UserID   uint      `json:"user_id"`
	UserName string    `json:"user_name,omitempty"`
	Date     string    `json:"date,omitempty"`
	At       time.Time `json:"at"`
	Message  string    `json:"message,omitempty"`
}

// Notifier hands an event to a delivery channel. Delivery guarantees are the sink's business.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

type NotifierFunc func(ctx context.Context, event Event) error

func (f NotifierFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

var Discard Notifier = NotifierFunc(func(context.Context, Event) error { return nil })

// Multi fans an event out to every sink and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	n.logger.InfoContext(ctx, "event",
		"type", event.Type,
		"user_id", event.UserID,
		"user_name", event.UserName,
		"date", event.Date,
		"at", event.At,
		"message", event.Message,
	)
	return nil
}

// Async hands each event to next on its own goroutine, so slow sinks stay off the request
// path. Each delivery gets at most timeout; failures are logged since nobody is waiting.
type Async struct {
	next    Notifier
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, timeout time.Duration) *Async {
	return &Async{next: next, timeout: timeout}
}

func (a *Async) Notify(ctx context.Context, event Event) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.next.Notify(ctx, event); err != nil {
			slog.WarnContext(ctx, "async event delivery failed", "type", event.Type, "user_id", event.UserID, "error", err)
		}
	}()
	return nil
}

// Wait blocks until every delivery started so far has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
