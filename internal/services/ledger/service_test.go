package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/murphylog/freightdesk/internal/models"
)

type fakeRepo struct {
	created []*models.Notification
	nextID  uint64

	countCalls int
	count      int64
	countErr   error

	markedID   uint64
	markExists bool

	clearedUser *uint64
}

func (f *fakeRepo) CreateNotification(ctx context.Context, userID uint64, message, typ string, relatedID uint64) (*models.Notification, error) {
	f.nextID++
	n := &models.Notification{
		ID:        f.nextID,
		UserID:    userID,
		Message:   message,
		Type:      typ,
		RelatedID: relatedID,
		CreatedAt: time.Now().UTC(),
	}
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeRepo) ListUnreadNotifications(ctx context.Context, userID uint64) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range f.created {
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountUnreadNotifications(ctx context.Context, userID uint64) (int64, error) {
	f.countCalls++
	return f.count, f.countErr
}

func (f *fakeRepo) MarkNotificationRead(ctx context.Context, id uint64) (bool, error) {
	f.markedID = id
	return f.markExists, nil
}

func (f *fakeRepo) ClearNotifications(ctx context.Context, userID uint64) error {
	f.clearedUser = &userID
	f.created = nil
	return nil
}

type fakeCache struct {
	m    map[string][]byte
	dels []string
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok := c.m[key]
	return b, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.m[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.m, key)
	return nil
}

func TestService_Create_Validate(t *testing.T) {
	s := New(&fakeRepo{}, nil, 0)

	_, err := s.Create(context.Background(), "", models.NotificationTypeOrder, 1, 0)
	require.Error(t, err)

	_, err = s.Create(context.Background(), "msg", "", 1, 0)
	require.Error(t, err)
}

func TestService_Create_InvalidatesCountCache(t *testing.T) {
	r := &fakeRepo{}
	c := &fakeCache{m: map[string][]byte{"notifications:0:unread_count": []byte("5")}}
	s := New(r, c, time.Minute)

	n, err := s.Create(context.Background(), "Заказ #1 создан: Кирпич", models.NotificationTypeOrder, 1, 0)
	require.NoError(t, err)
	require.NotZero(t, n.ID)
	require.False(t, n.IsRead)
	require.Contains(t, c.dels, "notifications:0:unread_count")
}

func TestService_CountUnread_CacheHit(t *testing.T) {
	r := &fakeRepo{count: 99}
	c := &fakeCache{m: map[string][]byte{"notifications:0:unread_count": []byte("3")}}
	s := New(r, c, time.Minute)

	n, err := s.CountUnread(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Zero(t, r.countCalls) // БД не трогали
}

func TestService_CountUnread_CacheMissGoesToRepoAndWarms(t *testing.T) {
	r := &fakeRepo{count: 7}
	c := &fakeCache{m: map[string][]byte{}}
	s := New(r, c, time.Minute)

	n, err := s.CountUnread(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, 1, r.countCalls)
	require.Equal(t, []byte("7"), c.m["notifications:0:unread_count"])
}

func TestService_CountUnread_CacheDisabled(t *testing.T) {
	r := &fakeRepo{count: 2}
	s := New(r, nil, 0)

	n, err := s.CountUnread(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.Equal(t, 1, r.countCalls)
}

func TestService_CountUnread_GarbageCacheValueFallsThrough(t *testing.T) {
	r := &fakeRepo{count: 4}
	c := &fakeCache{m: map[string][]byte{"notifications:0:unread_count": []byte("not-a-number")}}
	s := New(r, c, time.Minute)

	n, err := s.CountUnread(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
	require.Equal(t, 1, r.countCalls)
}

func TestService_MarkRead_Idempotent(t *testing.T) {
	r := &fakeRepo{markExists: true}
	c := &fakeCache{m: map[string][]byte{}}
	s := New(r, c, time.Minute)

	ok, err := s.MarkRead(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.MarkRead(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(42), r.markedID)
}

func TestService_MarkRead_NotFoundIsFalseNotError(t *testing.T) {
	r := &fakeRepo{markExists: false}
	c := &fakeCache{m: map[string][]byte{}}
	s := New(r, c, time.Minute)

	ok, err := s.MarkRead(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, c.dels) // кэш не сбрасываем, если строки не было
}

func TestService_ClearAll(t *testing.T) {
	r := &fakeRepo{}
	c := &fakeCache{m: map[string][]byte{"notifications:0:unread_count": []byte("5")}}
	s := New(r, c, time.Minute)

	_, err := s.Create(context.Background(), "m", models.NotificationTypePayment, 1, 0)
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(context.Background(), 0))
	require.NotNil(t, r.clearedUser)

	got, err := s.ListUnread(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Contains(t, c.dels, "notifications:0:unread_count")
}
