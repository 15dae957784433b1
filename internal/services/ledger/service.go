package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/murphylog/freightdesk/internal/cache"
	"github.com/murphylog/freightdesk/internal/models"
)

type Repository interface {
	CreateNotification(ctx context.Context, userID uint64, message, typ string, relatedID uint64) (*models.Notification, error)
	ListUnreadNotifications(ctx context.Context, userID uint64) ([]*models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID uint64) (int64, error)
	MarkNotificationRead(ctx context.Context, id uint64) (bool, error)
	ClearNotifications(ctx context.Context, userID uint64) error
}

// Service — журнал уведомлений: запись, выборка непрочитанных, пометка
// прочитанным и полная очистка. Счётчик непрочитанных кэшируется в redis,
// кэш — лучшее усилие: его недоступность не ломает операции.
type Service struct {
	repo     Repository
	cache    cache.BytesCache
	countTTL time.Duration
}

func New(repo Repository, c cache.BytesCache, countTTL time.Duration) *Service {
	return &Service{repo: repo, cache: c, countTTL: countTTL}
}

func (s *Service) Create(ctx context.Context, message, typ string, relatedID, userID uint64) (*models.Notification, error) {
	if message == "" {
		return nil, errors.New("message is required")
	}
	if typ == "" {
		return nil, errors.New("type is required")
	}

	n, err := s.repo.CreateNotification(ctx, userID, message, typ, relatedID)
	if err != nil {
		return nil, err
	}
	s.invalidateCount(ctx, userID)
	return n, nil
}

func (s *Service) ListUnread(ctx context.Context, userID uint64) ([]*models.Notification, error) {
	return s.repo.ListUnreadNotifications(ctx, userID)
}

func (s *Service) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	if s.cache != nil && s.countTTL > 0 {
		if b, ok, err := s.cache.Get(ctx, countKey(userID)); err == nil && ok {
			if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
				return n, nil
			}
		}
	}

	n, err := s.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil && s.countTTL > 0 {
		_ = s.cache.Set(ctx, countKey(userID), []byte(strconv.FormatInt(n, 10)), s.countTTL)
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, id uint64) (bool, error) {
	ok, err := s.repo.MarkNotificationRead(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		// Пользователь у установки один, сбрасываем его счётчик.
		s.invalidateCount(ctx, models.DefaultUserID)
	}
	return ok, nil
}

func (s *Service) ClearAll(ctx context.Context, userID uint64) error {
	if err := s.repo.ClearNotifications(ctx, userID); err != nil {
		return err
	}
	s.invalidateCount(ctx, userID)
	return nil
}

// InvalidateCount сбрасывает кэш счётчика. Вызывается и извне — консьюмером
// kafka, когда уведомление записал другой процесс (вотчер).
func (s *Service) InvalidateCount(ctx context.Context, userID uint64) {
	s.invalidateCount(ctx, userID)
}

func (s *Service) invalidateCount(ctx context.Context, userID uint64) {
	if s.cache == nil || s.countTTL <= 0 {
		return
	}
	_ = s.cache.Del(ctx, countKey(userID))
}

func countKey(userID uint64) string {
	return fmt.Sprintf("notifications:%d:unread_count", userID)
}
