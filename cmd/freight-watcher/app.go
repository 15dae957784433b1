package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/murphylog/freightdesk/config"
	"github.com/murphylog/freightdesk/internal/broker/kafka"
	"github.com/murphylog/freightdesk/internal/cache/rediscache"
	"github.com/murphylog/freightdesk/internal/services/ledger"
	"github.com/murphylog/freightdesk/internal/services/watcher"
	"github.com/murphylog/freightdesk/internal/storage/pglogistics"
)

// watcherStorage — то, что сторожу нужно от хранилища: выборки для правил
// и репозиторий журнала уведомлений.
type watcherStorage interface {
	watcher.Repository
	ledger.Repository
}

type watcherFactories struct {
	newStorage     func(cfg *config.Config) (st watcherStorage, closeFn func(), err error)
	newProducer    func(cfg *config.Config) watcher.Producer
	newRateLimiter func(cfg *config.Config) watcher.RateLimiter
}

func defaultWatcherFactories() watcherFactories {
	return watcherFactories{
		newStorage: func(cfg *config.Config) (watcherStorage, func(), error) {
			st, err := pglogistics.New(connString(cfg))
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		newProducer: func(cfg *config.Config) watcher.Producer {
			brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
			return kafka.NewProducer(brokers)
		},
		newRateLimiter: func(cfg *config.Config) watcher.RateLimiter {
			// Нужен только при включённом окне подавления повторов.
			if cfg.FreightDesk.WatcherRepeatCooldownSeconds <= 0 {
				return nil
			}
			redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
			return rediscache.NewRateLimiter(redisAddr)
		},
	}
}

func connString(cfg *config.Config) string {
	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
}

func RunFreightWatcher(ctx context.Context, cfg *config.Config, f watcherFactories) error {
	topic := cfg.Kafka.NotificationCreatedTopicName
	if topic == "" {
		topic = "notification.created"
	}

	scanInterval := time.Duration(cfg.FreightDesk.WatcherScanIntervalSeconds) * time.Second
	if scanInterval <= 0 {
		scanInterval = time.Hour
	}
	overdueAfterDays := cfg.FreightDesk.WatcherOverdueAfterDays
	if overdueAfterDays <= 0 {
		overdueAfterDays = 3
	}
	cooldown := time.Duration(cfg.FreightDesk.WatcherRepeatCooldownSeconds) * time.Second

	st, closeFn, err := f.newStorage(cfg)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	producer := f.newProducer(cfg)
	rl := f.newRateLimiter(cfg)

	// Сторож пишет в журнал напрямую, без кэша: счётчик непрочитанных
	// инвалидируется на стороне api через событие в kafka.
	ledgerSvc := ledger.New(st, nil, 0)

	w := watcher.New(st, ledgerSvc, producer, rl, topic).
		WithSettings(scanInterval, overdueAfterDays, cooldown)

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- runWatcherHTTPServer(ctx, watcherHTTPOpts{
			httpAddr:    cfg.FreightDesk.WatcherHTTPAddr,
			swaggerPath: os.Getenv("swaggerPath"),
			watcher:     w,
			cfg:         cfg,
		})
	}()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- w.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		<-watchErr
		return ctx.Err()
	case err := <-watchErr:
		return err
	case err := <-httpErr:
		return err
	}
}
