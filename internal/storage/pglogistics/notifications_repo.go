package pglogistics

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/murphylog/freightdesk/internal/models"
)

func (s *Storage) CreateNotification(ctx context.Context, userID uint64, message, typ string, relatedID uint64) (*models.Notification, error) {
	n := &models.Notification{
		UserID:    userID,
		Message:   message,
		Type:      typ,
		RelatedID: relatedID,
	}

	err := s.db.QueryRow(ctx, `
INSERT INTO notifications (user_id, message, is_read, created_at, related_id, notification_type)
VALUES ($1, $2, FALSE, $3, $4, $5)
RETURNING id, created_at
`, userID, message, time.Now().UTC(), relatedID, typ).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "insert notification")
	}
	return n, nil
}

func (s *Storage) ListUnreadNotifications(ctx context.Context, userID uint64) ([]*models.Notification, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, user_id, message, is_read, created_at, related_id, notification_type
FROM notifications
WHERE user_id = $1 AND is_read = FALSE
ORDER BY created_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "select unread notifications")
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt, &n.RelatedID, &n.Type,
		); err != nil {
			return nil, errors.Wrap(err, "scan notification")
		}
		out = append(out, &n)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) CountUnreadNotifications(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `
SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE
`, userID).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "count unread notifications")
	}
	return n, nil
}

// MarkNotificationRead возвращает, существует ли уведомление. Повторная
// пометка уже прочитанного тоже возвращает true: UPDATE без предиката по
// is_read считает строку затронутой.
func (s *Storage) MarkNotificationRead(ctx context.Context, id uint64) (bool, error) {
	tag, err := s.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return false, errors.Wrap(err, "mark notification read")
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Storage) ClearNotifications(ctx context.Context, userID uint64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	return errors.Wrap(err, "clear notifications")
}
