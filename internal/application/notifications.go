package application

import (
	"context"
	"sync"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

// DefaultNotificationCapacity bounds the notification center when no
// capacity is given.
const DefaultNotificationCapacity = 20

var _ driven.Notifier = (*NotificationCenter)(nil)

// NotificationCenter collects transient notifications until the GUI drains
// them. When full, the oldest notification is dropped.
type NotificationCenter struct {
	mu       sync.Mutex
	items    []model.Notification
	capacity int
}

// NewNotificationCenter creates a center holding at most capacity items.
func NewNotificationCenter(capacity int) *NotificationCenter {
	if capacity <= 0 {
		capacity = DefaultNotificationCapacity
	}
	return &NotificationCenter{capacity: capacity}
}

// Notify queues n.
func (c *NotificationCenter) Notify(_ context.Context, n model.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == c.capacity {
		c.items = c.items[1:]
	}
	c.items = append(c.items, n)
}

// Drain returns the queued notifications oldest first and empties the queue.
func (c *NotificationCenter) Drain() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.items
	c.items = nil
	return out
}

// Len returns the number of queued notifications.
func (c *NotificationCenter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Reset discards every queued notification. It is subscribed to the auth
// gate's reset event.
func (c *NotificationCenter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
