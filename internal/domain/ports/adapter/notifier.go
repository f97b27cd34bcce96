package adapter

import "context"

// DeliveryStatus is the outcome of a best-effort notification.
type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliverySkipped DeliveryStatus = "skipped" // no bot credential configured
	DeliveryFailed  DeliveryStatus = "failed"
)

// Delivery reports what happened to a notification. Callers are free to ignore it.
type Delivery struct {
	Status DeliveryStatus
	Err    error
}

func (d Delivery) OK() bool { return d.Status != DeliveryFailed }

// Notifier pushes text to a chat on the messaging platform. It never blocks
// longer than its own timeout and never returns transport failures as errors.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) Delivery
}
