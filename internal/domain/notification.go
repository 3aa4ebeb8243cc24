package domain

import "time"

// NotificationKind тип уведомления
type NotificationKind string

const (
	NotifyBookingCreated   NotificationKind = "booking_created"
	NotifyBookingCancelled NotificationKind = "booking_cancelled"
	NotifySlotCancelled    NotificationKind = "slot_cancelled"
	NotifyPaymentReceived  NotificationKind = "payment_received"
	NotifyAccountLinked    NotificationKind = "account_linked"
)

// NotificationStatus результат отправки уведомления
type NotificationStatus string

const (
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
	NotificationSkipped NotificationStatus = "skipped" // у пользователя нет чата
)

// Notification запись об отправленном (или не отправленном) уведомлении
type Notification struct {
	ID        int64
	UserID    int64
	Kind      NotificationKind
	Message   string
	Status    NotificationStatus
	CreatedAt time.Time
}
