package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Redis       RedisConfig       `yaml:"redis"`
	FreightDesk FreightDeskConfig `yaml:"freightdesk"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                         string `yaml:"host"`
	Port                         int    `yaml:"port"`
	NotificationCreatedTopicName string `yaml:"notification_created_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type FreightDeskConfig struct {
	HTTPAddr           string `yaml:"http_addr"`
	KafkaConsumerGroup string `yaml:"kafka_consumer_group"`

	// TTL кэша счётчика непрочитанных (UI поллит примерно раз в 30 секунд).
	UnreadCountTTLSeconds int `yaml:"unread_count_ttl_seconds"`

	WatcherHTTPAddr string `yaml:"watcher_http_addr"`

	// Интервал между циклами сканирования. По умолчанию час.
	WatcherScanIntervalSeconds int `yaml:"watcher_scan_interval_seconds"`

	// Платёж от клиента считается просроченным строго после этого числа дней.
	WatcherOverdueAfterDays int `yaml:"watcher_overdue_after_days"`

	// Окно подавления повторных алертов по одному и тому же заказу/платежу.
	// 0 (по умолчанию) — каждый цикл заново создаёт уведомления по всем
	// сработавшим условиям, как делала исходная система.
	WatcherRepeatCooldownSeconds int `yaml:"watcher_repeat_cooldown_seconds"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
