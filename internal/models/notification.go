package models

import "time"

// Типы уведомлений (колонка notification_type).
const (
	NotificationTypeOrder    = "order"
	NotificationTypePayment  = "payment"
	NotificationTypeClient   = "client"
	NotificationTypeCarrier  = "carrier"
	NotificationTypeDocument = "document"
)

// DefaultUserID — единственный пользователь настольной установки.
const DefaultUserID uint64 = 0

// Notification append-only: после создания меняется только IsRead,
// удаление — только массовое через ClearAll.
type Notification struct {
	ID        uint64
	UserID    uint64
	Message   string
	IsRead    bool
	CreatedAt time.Time
	RelatedID uint64
	Type      string
}
