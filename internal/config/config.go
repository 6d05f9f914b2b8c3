package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/agendafacil/booking-service/internal/domain"
)

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN возвращает строку подключения lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig бизнес-настройки движка бронирования
type BookingConfig struct {
	// SlotCadenceMinutes шаг генерации слотов
	SlotCadenceMinutes int `toml:"slot_cadence_minutes"`
	// CleanupIntervalMinutes период запуска очистки отмененных записей
	CleanupIntervalMinutes int `toml:"cleanup_interval_minutes"`
	// CancelledRetentionDays через сколько дней отмененная запись удаляется навсегда
	CancelledRetentionDays int `toml:"cancelled_retention_days"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Booking.SlotCadenceMinutes == 0 {
		c.Booking.SlotCadenceMinutes = domain.DefaultSlotCadenceMinutes
	}
	if c.Booking.CleanupIntervalMinutes == 0 {
		c.Booking.CleanupIntervalMinutes = domain.DefaultCleanupIntervalMinutes
	}
	if c.Booking.CancelledRetentionDays == 0 {
		c.Booking.CancelledRetentionDays = domain.DefaultCancelledRetentionDays
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("config: database.host and database.dbname are required")
	}
	if c.Booking.SlotCadenceMinutes < domain.MinSlotCadenceMinutes ||
		c.Booking.SlotCadenceMinutes > domain.MaxSlotCadenceMinutes {
		return fmt.Errorf("config: booking.slot_cadence_minutes must be between %d and %d",
			domain.MinSlotCadenceMinutes, domain.MaxSlotCadenceMinutes)
	}
	if c.Booking.CancelledRetentionDays < 1 {
		return fmt.Errorf("config: booking.cancelled_retention_days must be positive")
	}
	return nil
}
