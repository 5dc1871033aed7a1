package driven

import (
	"context"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

// Notifier is the user-facing notification side channel. The transport
// pipeline publishes the resolved message of every failed call here.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n model.Notification)

// Notify calls f(ctx, n).
func (f NotifierFunc) Notify(ctx context.Context, n model.Notification) { f(ctx, n) }

type notifierKey struct{}

// ContextWithNotifier returns a copy of ctx whose failed calls are reported
// on n instead of the channel the caller was configured with.
func ContextWithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}

// NotifierFromContext returns the notifier installed by ContextWithNotifier,
// or fallback when none is set.
func NotifierFromContext(ctx context.Context, fallback Notifier) Notifier {
	if n, ok := ctx.Value(notifierKey{}).(Notifier); ok && n != nil {
		return n
	}
	return fallback
}
