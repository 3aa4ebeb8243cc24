package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/Groisin18/Excursions-bot-sub000/internal/domain"
	"github.com/Groisin18/Excursions-bot-sub000/internal/pricing"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Bot      BotConfig      `toml:"bot"`
	Booking  BookingConfig  `toml:"booking"`
	Pricing  PricingConfig  `toml:"pricing"`
	Payroll  PayrollConfig  `toml:"payroll"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BotConfig struct {
	Enabled  bool   `toml:"enabled"`
	Token    string `toml:"token"`
	Timezone string `toml:"timezone"` // часовой пояс для отображения и разбора дат
}

// Location часовой пояс бота
func (b BotConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

type BookingConfig struct {
	MinBookingNoticeMinutes int `toml:"min_booking_notice_minutes"`
	CancelDeadlineHours     int `toml:"cancel_deadline_hours"`
	DefaultPassengerWeight  int `toml:"default_passenger_weight_kg"`
	MaxPassengersPerBooking int `toml:"max_passengers_per_booking"`
	SearchWindowDays        int `toml:"search_window_days"`
}

// MinBookingNotice минимальное время до начала слота для бронирования
func (b BookingConfig) MinBookingNotice() time.Duration {
	return time.Duration(b.MinBookingNoticeMinutes) * time.Minute
}

// CancelDeadline за сколько до начала клиент ещё может отменить бронь
func (b BookingConfig) CancelDeadline() time.Duration {
	return time.Duration(b.CancelDeadlineHours) * time.Hour
}

type AgeTierConfig struct {
	MinAge          int `toml:"min_age"`
	MaxAge          int `toml:"max_age"`
	DiscountPercent int `toml:"discount_percent"`
}

type PricingConfig struct {
	AgeTiers []AgeTierConfig `toml:"age_tiers"`
}

// Tiers сетка возрастных скидок для калькулятора
func (p PricingConfig) Tiers() []pricing.AgeTier {
	if len(p.AgeTiers) == 0 {
		return pricing.DefaultAgeTiers
	}
	tiers := make([]pricing.AgeTier, len(p.AgeTiers))
	for i, t := range p.AgeTiers {
		tiers[i] = pricing.AgeTier{MinAge: t.MinAge, MaxAge: t.MaxAge, DiscountPercent: t.DiscountPercent}
	}
	return tiers
}

type PayrollConfig struct {
	BaseRatePerSlot string `toml:"base_rate_per_slot"` // фиксированная ставка за выход
	RevenuePercent  int    `toml:"revenue_percent"`    // процент от чистой выручки слота
}

// BaseRate фиксированная ставка капитана за слот
func (p PayrollConfig) BaseRate() decimal.Decimal {
	rate, err := decimal.NewFromString(p.BaseRatePerSlot)
	if err != nil {
		return decimal.Zero
	}
	return rate
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переменные окружения DATABASE_PASSWORD, BOT_TOKEN
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "excursions"
	}

	if c.Bot.Timezone == "" {
		c.Bot.Timezone = "Europe/Moscow"
	}

	if c.Booking.MinBookingNoticeMinutes == 0 {
		c.Booking.MinBookingNoticeMinutes = domain.DefaultMinBookingNoticeMinutes
	}
	if c.Booking.CancelDeadlineHours == 0 {
		c.Booking.CancelDeadlineHours = domain.DefaultCancelDeadlineHours
	}
	if c.Booking.DefaultPassengerWeight == 0 {
		c.Booking.DefaultPassengerWeight = domain.DefaultPassengerWeightKg
	}
	if c.Booking.MaxPassengersPerBooking == 0 {
		c.Booking.MaxPassengersPerBooking = domain.DefaultMaxPassengersPerBooking
	}
	if c.Booking.SearchWindowDays == 0 {
		c.Booking.SearchWindowDays = domain.DefaultSearchWindowDays
	}

	if c.Payroll.BaseRatePerSlot == "" {
		c.Payroll.BaseRatePerSlot = "0"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.Bot.Token = v
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalidConfig)
	}
	if c.Bot.Enabled && c.Bot.Token == "" {
		return fmt.Errorf("%w: bot is enabled but token is empty", ErrInvalidConfig)
	}
	if _, err := c.Bot.Location(); err != nil {
		return fmt.Errorf("%w: unknown bot timezone %q", ErrInvalidConfig, c.Bot.Timezone)
	}
	if c.Booking.MinBookingNoticeMinutes < 0 || c.Booking.CancelDeadlineHours < 0 {
		return fmt.Errorf("%w: booking notice and cancel deadline must not be negative", ErrInvalidConfig)
	}
	if c.Booking.DefaultPassengerWeight < domain.MinPassengerWeightKg ||
		c.Booking.DefaultPassengerWeight > domain.MaxPassengerWeightKg {
		return fmt.Errorf("%w: default passenger weight out of range", ErrInvalidConfig)
	}
	if err := pricing.ValidateTiers(c.Pricing.Tiers()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Payroll.RevenuePercent < 0 || c.Payroll.RevenuePercent > 100 {
		return fmt.Errorf("%w: payroll revenue percent must be within 0..100", ErrInvalidConfig)
	}
	rate, err := decimal.NewFromString(c.Payroll.BaseRatePerSlot)
	if err != nil || rate.IsNegative() {
		return fmt.Errorf("%w: payroll base rate must be a non-negative number", ErrInvalidConfig)
	}
	return nil
}
