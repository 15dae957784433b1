package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/murphylog/freightdesk/config"
	"github.com/murphylog/freightdesk/internal/broker/kafka"
	"github.com/murphylog/freightdesk/internal/cache/rediscache"
	"github.com/murphylog/freightdesk/internal/services/ledger"
	"github.com/murphylog/freightdesk/internal/services/logistics"
	"github.com/murphylog/freightdesk/internal/storage/pglogistics"
)

type freightAPIApp struct {
	ctx          context.Context
	cancel       context.CancelFunc
	opts         freightAPIOpts
	ledgerSvc    *ledger.Service
	logisticsSvc *logistics.Service
	consumer     *kafka.Consumer
	closeDB      func()
}

func mustBootstrapFreightAPI() *freightAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.FreightDesk.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	consumerGroup := cfg.FreightDesk.KafkaConsumerGroup
	if consumerGroup == "" {
		consumerGroup = "freight-api"
	}
	topic := cfg.Kafka.NotificationCreatedTopicName
	if topic == "" {
		topic = "notification.created"
	}
	countTTL := time.Duration(cfg.FreightDesk.UnreadCountTTLSeconds) * time.Second
	if countTTL <= 0 {
		countTTL = 30 * time.Second
	}

	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
	st := mustOpenPostgresWithRetry(connString, 60*time.Second)

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)

	ledgerSvc := ledger.New(st, rc, countTTL)
	logisticsSvc := logistics.New(st, ledgerSvc)

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	consumer := kafka.NewConsumer(brokers, topic, consumerGroup)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &freightAPIApp{
		ctx:    ctx,
		cancel: cancel,
		opts: freightAPIOpts{
			httpAddr:      httpAddr,
			swaggerPath:   os.Getenv("swaggerPath"),
			topic:         topic,
			consumerGroup: consumerGroup,
		},
		ledgerSvc:    ledgerSvc,
		logisticsSvc: logisticsSvc,
		consumer:     consumer,
		closeDB:      st.Close,
	}
}

// При старте через docker-compose postgres может быть ещё не готов.
func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pglogistics.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pglogistics.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *freightAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.consumer != nil {
		_ = a.consumer.Close()
	}
	if a.closeDB != nil {
		a.closeDB()
	}
}

func (a *freightAPIApp) Run() error {
	return runFreightAPI(a.ctx, a.opts, a.ledgerSvc, a.logisticsSvc, a.consumer)
}
