package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/murphylog/freightdesk/internal/broker/messages"
	"github.com/murphylog/freightdesk/internal/models"
)

type Repository interface {
	ListOverdueClientPayments(ctx context.Context, before time.Time) ([]*models.OverduePayment, error)
	ListUpcomingLoadings(ctx context.Context, day time.Time) ([]*models.Order, error)
}

type Ledger interface {
	Create(ctx context.Context, message, typ string, relatedID, userID uint64) (*models.Notification, error)
}

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// RateLimiter с limit=1 служит окном подавления повторных алертов.
// Reset возвращает окно, если алерт после Allow так и не был записан.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
	Reset(ctx context.Context, key string) error
}

// Watcher — фоновый сканер: раз в интервал прогоняет два независимых
// правила (просроченные платежи клиентов и завтрашние погрузки) и пишет
// уведомления через журнал. Ошибка цикла логируется, цикл не роняет луп —
// остановка только через отмену контекста, Run возвращается после
// завершения текущего цикла.
type Watcher struct {
	repo     Repository
	ledger   Ledger
	producer Producer
	rl       RateLimiter

	topic string

	scanInterval time.Duration
	overdueAfter time.Duration
	cooldown     time.Duration

	triggerCh chan struct{}

	startedAtUnixNano   int64
	lastCycleUnixNano   atomic.Int64
	lastTriggerUnixNano atomic.Int64
	totalCycles         atomic.Int64
	totalAlerts         atomic.Int64
	totalSuppressed     atomic.Int64
	totalErrors         atomic.Int64
	lastErrorMu         sync.Mutex
	lastError           string
}

func New(repo Repository, ledger Ledger, producer Producer, rl RateLimiter, topic string) *Watcher {
	return &Watcher{
		repo: repo, ledger: ledger, producer: producer, rl: rl, topic: topic,
		scanInterval: time.Hour,
		overdueAfter: 3 * 24 * time.Hour,
		triggerCh:    make(chan struct{}, 1),
		startedAtUnixNano: time.Now().UTC().UnixNano(),
	}
}

func (w *Watcher) WithSettings(scanInterval time.Duration, overdueAfterDays int, cooldown time.Duration) *Watcher {
	if scanInterval > 0 {
		w.scanInterval = scanInterval
	}
	if overdueAfterDays > 0 {
		w.overdueAfter = time.Duration(overdueAfterDays) * 24 * time.Hour
	}
	if cooldown > 0 {
		w.cooldown = cooldown
	}
	return w
}

// Trigger forces an immediate scan cycle (best-effort, non-blocking).
func (w *Watcher) Trigger() {
	w.lastTriggerUnixNano.Store(time.Now().UTC().UnixNano())
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

type Stats struct {
	StartedAt       time.Time  `json:"startedAt"`
	LastCycleAt     *time.Time `json:"lastCycleAt,omitempty"`
	LastTriggerAt   *time.Time `json:"lastTriggerAt,omitempty"`
	TotalCycles     int64      `json:"totalCycles"`
	TotalAlerts     int64      `json:"totalAlerts"`
	TotalSuppressed int64      `json:"totalSuppressed"`
	TotalErrors     int64      `json:"totalErrors"`
	LastError       string     `json:"lastError,omitempty"`
}

func (w *Watcher) Stats() Stats {
	st := Stats{
		StartedAt:       time.Unix(0, w.startedAtUnixNano).UTC(),
		TotalCycles:     w.totalCycles.Load(),
		TotalAlerts:     w.totalAlerts.Load(),
		TotalSuppressed: w.totalSuppressed.Load(),
		TotalErrors:     w.totalErrors.Load(),
	}
	if n := w.lastCycleUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastCycleAt = &t
	}
	if n := w.lastTriggerUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastTriggerAt = &t
	}
	w.lastErrorMu.Lock()
	st.LastError = w.lastError
	w.lastErrorMu.Unlock()
	return st
}

// Run держит цикл сканирования до отмены контекста. Первый цикл выполняется
// сразу при старте, дальше — по тикеру. Возврат из Run — это гарантия, что
// незавершённых циклов не осталось.
func (w *Watcher) Run(ctx context.Context) error {
	t := time.NewTicker(w.scanInterval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		w.runOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			w.runOnce(ctx)
		case <-w.triggerCh:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	now := time.Now().UTC()
	w.lastCycleUnixNano.Store(now.UnixNano())
	w.totalCycles.Add(1)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if err := w.checkOverduePayments(ctx, today); err != nil {
		w.recordError(err)
		slog.Error("check overdue payments", "error", err.Error())
	}
	if err := w.checkUpcomingLoadings(ctx, today); err != nil {
		w.recordError(err)
		slog.Error("check upcoming loadings", "error", err.Error())
	}
}

func (w *Watcher) checkOverduePayments(ctx context.Context, today time.Time) error {
	cutoff := today.Add(-w.overdueAfter)
	overdue, err := w.repo.ListOverdueClientPayments(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, p := range overdue {
		key := fmt.Sprintf("alert:payment:%d", p.PaymentID)
		if w.suppressed(ctx, key) {
			continue
		}
		msg := fmt.Sprintf("Просрочен платеж по заказу #%d (%.2f руб.)", p.OrderID, p.Amount)
		if !w.emit(ctx, msg, models.NotificationTypePayment, p.OrderID) {
			w.releaseWindow(ctx, key)
		}
	}
	return nil
}

func (w *Watcher) checkUpcomingLoadings(ctx context.Context, today time.Time) error {
	tomorrow := today.AddDate(0, 0, 1)
	upcoming, err := w.repo.ListUpcomingLoadings(ctx, tomorrow)
	if err != nil {
		return err
	}

	for _, o := range upcoming {
		key := fmt.Sprintf("alert:order:%d", o.ID)
		if w.suppressed(ctx, key) {
			continue
		}
		msg := fmt.Sprintf("На завтра запланирована погрузка по заказу #%d", o.ID)
		if !w.emit(ctx, msg, models.NotificationTypeOrder, o.ID) {
			w.releaseWindow(ctx, key)
		}
	}
	return nil
}

// suppressed: при включённом окне охлаждения повторный алерт по тому же
// ключу внутри окна пропускается. По умолчанию окно выключено и каждый
// цикл заново создаёт уведомления по всем сработавшим условиям.
func (w *Watcher) suppressed(ctx context.Context, key string) bool {
	if w.rl == nil || w.cooldown <= 0 {
		return false
	}
	allowed, _, err := w.rl.Allow(ctx, key, 1, w.cooldown)
	if err != nil {
		// Недоступный redis не должен глушить алерты.
		slog.Warn("alert cooldown check", "key", key, "error", err.Error())
		return false
	}
	if !allowed {
		w.totalSuppressed.Add(1)
	}
	return !allowed
}

// releaseWindow: Allow уже потратил окно, но уведомление не записано —
// возвращаем окно, чтобы следующий цикл попробовал снова.
func (w *Watcher) releaseWindow(ctx context.Context, key string) {
	if w.rl == nil || w.cooldown <= 0 {
		return
	}
	if err := w.rl.Reset(ctx, key); err != nil {
		slog.Warn("release alert cooldown", "key", key, "error", err.Error())
	}
}

func (w *Watcher) emit(ctx context.Context, message, typ string, relatedID uint64) bool {
	n, err := w.ledger.Create(ctx, message, typ, relatedID, models.DefaultUserID)
	if err != nil {
		w.recordError(err)
		slog.Error("create notification", "type", typ, "related_id", relatedID, "error", err.Error())
		return false
	}
	w.totalAlerts.Add(1)

	if w.producer == nil || w.topic == "" {
		return true
	}
	// Событие для других процессов — лучшее усилие, цикл не зависит от брокера.
	ev := messages.NotificationCreated{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		RelatedID:      n.RelatedID,
		CreatedAt:      n.CreatedAt,
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return true
	}
	key := []byte(fmt.Sprintf("%d", n.ID))
	if err := w.producer.Publish(ctx, w.topic, key, b); err != nil {
		slog.Warn("publish notification event", "notification_id", n.ID, "error", err.Error())
	}
	return true
}

func (w *Watcher) recordError(err error) {
	w.totalErrors.Add(1)
	w.lastErrorMu.Lock()
	w.lastError = err.Error()
	w.lastErrorMu.Unlock()
}
