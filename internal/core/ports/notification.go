package ports

import (
	"context"
	"time"
)

// Notification is a message addressed to one recipient.
type Notification struct {
	Address string
	Subject string
	Message string
}

// Notifier accepts notifications for out-of-band delivery. Enqueue never
// blocks and never reports the delivery outcome.
type Notifier interface {
	Enqueue(n Notification)
}

// NotificationSender performs the actual delivery.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}

// NotificationDedup remembers recently delivered notifications.
type NotificationDedup interface {
	IsDuplicate(ctx context.Context, n Notification) (bool, error)
	Mark(ctx context.Context, n Notification) error
}

// DeliveryRecord is the audit entry written after each delivery attempt.
type DeliveryRecord struct {
	Address     string
	Subject     string
	Status      string
	Error       string
	ProcessedAt time.Time
}

// NotificationLog persists delivery records.
type NotificationLog interface {
	Record(ctx context.Context, rec DeliveryRecord) error
}
