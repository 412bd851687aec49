// Package notify is the toast surface the wizard reports user-facing outcomes to.
package notify

import (
	"context"
	"sync"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/i18n"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
)

// Level classifies a notification for presentation.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Notification is one toast. Key is the localization key; Message is filled
// in by a Localizing notifier.
type Notification struct {
	Level   Level  `json:"level"`
	Key     string `json:"key"`
	Message string `json:"message,omitempty"`
	Args    []any  `json:"-"`
}

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) {})

// Multi fans a notification out to every non-nil notifier, in order.
//
//nolint:ireturn
func Multi(notifiers ...Notifier) Notifier {
	targets := make([]Notifier, 0, len(notifiers))

	for _, n := range notifiers {
		if n != nil {
			targets = append(targets, n)
		}
	}

	return NotifierFunc(func(ctx context.Context, n Notification) {
		for _, t := range targets {
			t.Notify(ctx, n)
		}
	})
}

// Localizing resolves Key into Message before forwarding to next.
//
//nolint:ireturn
func Localizing(localizer i18n.Localizer, next Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) {
		if localizer != nil && n.Message == "" && n.Key != "" {
			n.Message = localizer.Localize(n.Key, n.Args...)
		}

		next.Notify(ctx, n)
	})
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger log.Logger
}

// Notify logs error notifications at warn level and the rest at info.
func (l LogNotifier) Notify(ctx context.Context, n Notification) {
	if l.Logger == nil {
		return
	}

	level := log.LevelInfo
	if n.Level == LevelError {
		level = log.LevelWarn
	}

	l.Logger.Log(ctx, level, "notification",
		log.String("notification_level", string(n.Level)),
		log.String("notification_key", n.Key),
	)
}

// Recorder buffers notifications until drained. The gateway uses one per
// session to hand toasts back to the browser.
type Recorder struct {
	mu      sync.Mutex
	pending []Notification
}

// Notify appends n to the buffer.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	r.pending = append(r.pending, n)
	r.mu.Unlock()
}

// Drain returns and clears the buffered notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.pending
	r.pending = nil

	return out
}

// Len returns the number of buffered notifications.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}
