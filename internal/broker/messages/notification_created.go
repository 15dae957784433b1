package messages

import "time"

// NotificationCreated публикуется вотчером после записи уведомления в БД.
// Потребитель (freight-api) сбрасывает по нему кэш счётчика непрочитанных.
type NotificationCreated struct {
	NotificationID uint64    `json:"notification_id"`
	UserID         uint64    `json:"user_id"`
	Type           string    `json:"type"`
	RelatedID      uint64    `json:"related_id"`
	CreatedAt      time.Time `json:"created_at"`
}
