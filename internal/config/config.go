package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// ErrInvalidConfig возвращается, когда значения конфига противоречат друг другу
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml + переменные окружения)
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        DatabaseConfig    `toml:"database"`
	Logs            LogsConfig        `toml:"logs"`
	Metrics         MetricsConfig     `toml:"metrics"`
	Redis           RedisConfig       `toml:"redis"`
	RabbitMQ        RabbitMQConfig    `toml:"rabbitmq"`
	WorkshopService IntegrationConfig `toml:"workshop_service"`
	UserService     IntegrationConfig `toml:"user_service"`
	Scheduling      SchedulingConfig  `toml:"scheduling"`
	Quotations      QuotationsConfig  `toml:"quotations"`
	Relay           RelayConfig       `toml:"relay"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
	RequestTimeout  int `toml:"request_timeout"`
}

// DatabaseConfig подключение к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig логирование
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig блокировки записи; пустой addr отключает Redis
type RedisConfig struct {
	Addr          string `toml:"addr"`
	Password      string `toml:"password"`
	DB            int    `toml:"db"`
	LockTTL       int    `toml:"lock_ttl_ms"`
	RetryInterval int    `toml:"lock_retry_ms"`
	MaxWait       int    `toml:"lock_max_wait_ms"`
}

// Enabled Redis настроен
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// RabbitMQConfig публикация уведомлений; пустой url отключает брокер
type RabbitMQConfig struct {
	URL   string `toml:"url"`
	Queue string `toml:"queue"`
}

// Enabled брокер настроен
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

// IntegrationConfig внешний HTTP сервис, timeout в секундах
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// SchedulingConfig значения по умолчанию для расчёта доступности
type SchedulingConfig struct {
	Timezone                string         `toml:"timezone"`
	DefaultDurationMinutes  int            `toml:"default_duration_minutes"`
	SlotIntervalMinutes     int            `toml:"slot_interval_minutes"`
	BufferMinutes           int            `toml:"buffer_minutes"`
	MaxConcurrent           int            `toml:"max_concurrent"`
	MinAdvanceHours         int            `toml:"min_advance_hours"`
	MaxAdvanceDays          int            `toml:"max_advance_days"`
	AlternativesHorizonDays int            `toml:"alternatives_horizon_days"`
	MaxAlternatives         int            `toml:"max_alternatives"`
	ServiceDurations        map[string]int `toml:"service_durations"`
}

// QuotationsConfig запросы на расчёт стоимости
type QuotationsConfig struct {
	ExpiryDays int    `toml:"expiry_days"`
	Currency   string `toml:"currency"`
}

// RelayConfig повторная публикация уведомлений из outbox
type RelayConfig struct {
	Enabled  bool `toml:"enabled"`
	Interval int  `toml:"interval_seconds"`
	Batch    int  `toml:"batch"`
}

// Load читает .env (если есть), затем TOML, затем переопределения из окружения
func Load(path string) (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			RequestTimeout:  5,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "quote_service"},
		Redis: RedisConfig{
			LockTTL:       5000,
			RetryInterval: 50,
			MaxWait:       2000,
		},
		RabbitMQ: RabbitMQConfig{Queue: "quote.notifications"},
		Scheduling: SchedulingConfig{
			Timezone: domain.DefaultTimezone,
		},
		Quotations: QuotationsConfig{
			ExpiryDays: domain.DefaultQuotationExpiryDays,
			Currency:   domain.DefaultCurrency,
		},
		Relay: RelayConfig{Interval: 30, Batch: 100},
	}
}

// applyEnv секреты и адреса инфраструктуры приходят из окружения
func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		cfg.RabbitMQ.URL = v
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Scheduling.Timezone); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Quotations.ExpiryDays <= 0 || c.Quotations.ExpiryDays > domain.MaxQuotationExpiryDays {
		return fmt.Errorf("%w: quotations.expiry_days must be between 1 and %d",
			ErrInvalidConfig, domain.MaxQuotationExpiryDays)
	}
	for service, minutes := range c.Scheduling.ServiceDurations {
		if minutes <= 0 {
			return fmt.Errorf("%w: scheduling.service_durations.%s must be positive", ErrInvalidConfig, service)
		}
	}
	return nil
}

// SchedulingDefaults значения по умолчанию для калькулятора доступности
// Незаданные поля берутся из domain.NewSchedulingDefaults
func (c *Config) SchedulingDefaults() (domain.SchedulingDefaults, error) {
	d := domain.NewSchedulingDefaults()
	s := c.Scheduling

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return d, fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	d.Location = loc

	setPositive(&d.DefaultDurationMinutes, s.DefaultDurationMinutes)
	setPositive(&d.SlotIntervalMinutes, s.SlotIntervalMinutes)
	setPositive(&d.BufferMinutes, s.BufferMinutes)
	setPositive(&d.MaxConcurrent, s.MaxConcurrent)
	setPositive(&d.MinAdvanceHours, s.MinAdvanceHours)
	setPositive(&d.MaxAdvanceDays, s.MaxAdvanceDays)
	setPositive(&d.AlternativesHorizonDays, s.AlternativesHorizonDays)
	setPositive(&d.MaxAlternatives, s.MaxAlternatives)

	// Справочник из конфига дополняет и переопределяет встроенный
	for service, minutes := range s.ServiceDurations {
		d.ServiceDurations[service] = minutes
	}

	return d, nil
}

func setPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
