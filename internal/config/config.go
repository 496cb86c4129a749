package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

// DefaultPath путь к конфигурации по умолчанию
const DefaultPath = "config.toml"

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	Venue     VenueConfig     `toml:"venue"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
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
	TxMaxAttempts   int    `toml:"tx_max_attempts"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// URL возвращает строку подключения в формате URL (для golang-migrate)
func (c DatabaseConfig) URL() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, sslMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки кеша доступности
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

// RabbitMQConfig настройки публикации уведомлений
type RabbitMQConfig struct {
	Enabled    bool   `toml:"enabled"`
	URL        string `toml:"url"`
	Exchange   string `toml:"exchange"`
	RoutingKey string `toml:"routing_key"`
}

// VenueConfig часы работы и часовой пояс по умолчанию
type VenueConfig struct {
	Timezone    string `toml:"timezone"`
	OpeningTime string `toml:"opening_time"`
	ClosingTime string `toml:"closing_time"`
}

// Location возвращает часовой пояс площадки
func (c VenueConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Settings собирает настройки площадки для доменного слоя
func (c VenueConfig) Settings() (domain.VenueSettings, error) {
	loc, err := c.Location()
	if err != nil {
		return domain.VenueSettings{}, fmt.Errorf("venue.timezone: %w", err)
	}
	opening, err := types.NewTimeStringFromString(c.OpeningTime)
	if err != nil {
		return domain.VenueSettings{}, fmt.Errorf("venue.opening_time: %w", err)
	}
	closing, err := types.NewTimeStringFromString(c.ClosingTime)
	if err != nil {
		return domain.VenueSettings{}, fmt.Errorf("venue.closing_time: %w", err)
	}
	return domain.VenueSettings{
		DefaultHours: domain.OperatingHours{Opening: opening, Closing: closing},
		Location:     loc,
	}, nil
}

// SchedulerConfig настройки фоновой задачи завершения бронирований
type SchedulerConfig struct {
	Enabled          bool   `toml:"enabled"`
	CompleteBookings string `toml:"complete_bookings_cron"`
}

// Load загружает .env (если есть) и TOML конфигурацию.
// Переменные окружения DB_PASSWORD, REDIS_PASSWORD, RABBITMQ_URL переопределяют значения из файла.
func Load(path string) (*Config, error) {
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}

	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			TxMaxAttempts:   3,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "quickcourt",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  60,
		},
		RabbitMQ: RabbitMQConfig{
			Exchange:   "quickcourt.events",
			RoutingKey: "notification.user",
		},
		Venue: VenueConfig{
			Timezone:    "UTC",
			OpeningTime: "06:00",
			ClosingTime: "22:00",
		},
		Scheduler: SchedulerConfig{
			Enabled:          true,
			CompleteBookings: "*/5 * * * *",
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		c.RabbitMQ.URL = v
	}
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return errors.New("server.http_port is required")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Port <= 0 {
		return errors.New("database.port is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required when redis is enabled")
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return errors.New("rabbitmq.url is required when rabbitmq is enabled")
	}
	if c.Scheduler.Enabled && strings.TrimSpace(c.Scheduler.CompleteBookings) == "" {
		return errors.New("scheduler.complete_bookings_cron is required when scheduler is enabled")
	}

	if _, err := c.Venue.Location(); err != nil {
		return fmt.Errorf("venue.timezone: %w", err)
	}
	opening, err := types.NewTimeStringFromString(c.Venue.OpeningTime)
	if err != nil {
		return fmt.Errorf("venue.opening_time: %w", err)
	}
	closing, err := types.NewTimeStringFromString(c.Venue.ClosingTime)
	if err != nil {
		return fmt.Errorf("venue.closing_time: %w", err)
	}
	if !opening.IsBefore(closing) {
		return fmt.Errorf("venue.opening_time %s must be before closing_time %s", opening, closing)
	}

	return nil
}
