package model

import "time"

// NotificationLevel classifies a user-facing notification.
type NotificationLevel string

const (
	NotificationError   NotificationLevel = "error"
	NotificationSuccess NotificationLevel = "success"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a transient message surfaced to the user, typically the
// resolved message of a failed API call.
type Notification struct {
	Level     NotificationLevel
	Message   string
	CreatedAt time.Time
}
