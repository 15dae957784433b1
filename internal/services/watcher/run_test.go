package watcher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/murphylog/freightdesk/internal/models"
)

type countingRepo struct {
	calls atomic.Int64
	err   error
}

func (r *countingRepo) ListOverdueClientPayments(ctx context.Context, before time.Time) ([]*models.OverduePayment, error) {
	r.calls.Add(1)
	return nil, r.err
}

func (r *countingRepo) ListUpcomingLoadings(ctx context.Context, day time.Time) ([]*models.Order, error) {
	return nil, nil
}

func TestWatcher_Run_StopsOnContextCancel(t *testing.T) {
	repo := &countingRepo{}
	w := New(repo, &fakeLedger{}, nil, nil, "").WithSettings(5*time.Millisecond, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := w.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.GreaterOrEqual(t, repo.calls.Load(), int64(1))
}

func TestWatcher_Run_SurvivesFailingCycles(t *testing.T) {
	repo := &countingRepo{err: errors.New("storage unavailable")}
	w := New(repo, &fakeLedger{}, nil, nil, "").WithSettings(5*time.Millisecond, 0, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	// Несколько циклов подряд упали, луп не умер.
	require.GreaterOrEqual(t, repo.calls.Load(), int64(2))
	require.GreaterOrEqual(t, w.Stats().TotalErrors, int64(2))
}

func TestWatcher_Run_FirstCycleImmediate(t *testing.T) {
	repo := &countingRepo{}
	w := New(repo, &fakeLedger{}, nil, nil, "") // интервал по умолчанию — час

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Первый скан не ждёт тикер: цикл проходит сразу после старта.
	require.Eventually(t, func() bool {
		return repo.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.Equal(t, int64(1), w.Stats().TotalCycles)
}

func TestWatcher_Trigger_ForcesImmediateCycle(t *testing.T) {
	repo := &countingRepo{}
	w := New(repo, &fakeLedger{}, nil, nil, "") // интервал по умолчанию — час

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Первый цикл проходит сам, триггер добавляет ещё один вне расписания.
	w.Trigger()
	require.Eventually(t, func() bool {
		return repo.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.NotNil(t, w.Stats().LastTriggerAt)
}
