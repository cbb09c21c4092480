package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Booking     BookingConfig
	Payment     PaymentConfig
	Notifier    NotifierConfig
	Redis       RedisConfig
	Telemetry   TelemetryConfig
	Idempotency IdempotencyConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	Timezone string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type BookingConfig struct {
	OpenHour    int
	CloseHour   int
	SlotMinutes int
}

type PaymentConfig struct {
	Provider            string // mock | stripe
	Currency            string
	Timeout             time.Duration
	StripeSecretKey     string
	StripePaymentMethod string
	MockSuccessRate     float64
	MockDelay           time.Duration
}

type NotifierConfig struct {
	Driver                string // log | kafka
	KafkaBrokers          []string
	KafkaClientID         string
	TopicBookingConfirmed string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type TelemetryConfig struct {
	Enabled        bool
	CollectorAddr  string
	ServiceVersion string
}

type IdempotencyConfig struct {
	TTL time.Duration
}

// Location resolves APP_TIMEZONE, falling back to UTC
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Enabled reports whether a redis host was configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "court-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("APP_TIMEZONE", "UTC")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("BOOKING_OPEN_HOUR", 8)
	v.SetDefault("BOOKING_CLOSE_HOUR", 22)
	v.SetDefault("BOOKING_SLOT_MINUTES", 60)

	v.SetDefault("PAYMENT_PROVIDER", "mock")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("PAYMENT_TIMEOUT_SECONDS", 15)
	v.SetDefault("STRIPE_PAYMENT_METHOD", "pm_card_visa")
	v.SetDefault("MOCK_PAYMENT_SUCCESS_RATE", 1.0)
	v.SetDefault("MOCK_PAYMENT_DELAY_MS", 0)

	v.SetDefault("NOTIFIER", "log")
	v.SetDefault("KAFKA_CLIENT_ID", "court-booking")
	v.SetDefault("KAFKA_TOPIC_BOOKING_CONFIRMED", "booking.confirmed")

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL_MINUTES", 1440)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SERVICE_VERSION", "dev")
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads an optional env file; process environment wins
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Port:     v.GetString("PORT"),
			Debug:    v.GetBool("DEBUG"),
			LogPath:  v.GetString("LOG_PATH"),
			Timezone: v.GetString("APP_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Booking: BookingConfig{
			OpenHour:    v.GetInt("BOOKING_OPEN_HOUR"),
			CloseHour:   v.GetInt("BOOKING_CLOSE_HOUR"),
			SlotMinutes: v.GetInt("BOOKING_SLOT_MINUTES"),
		},
		Payment: PaymentConfig{
			Provider:            strings.ToLower(v.GetString("PAYMENT_PROVIDER")),
			Currency:            strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
			Timeout:             time.Duration(v.GetInt("PAYMENT_TIMEOUT_SECONDS")) * time.Second,
			StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			StripePaymentMethod: v.GetString("STRIPE_PAYMENT_METHOD"),
			MockSuccessRate:     v.GetFloat64("MOCK_PAYMENT_SUCCESS_RATE"),
			MockDelay:           time.Duration(v.GetInt("MOCK_PAYMENT_DELAY_MS")) * time.Millisecond,
		},
		Notifier: NotifierConfig{
			Driver:                strings.ToLower(v.GetString("NOTIFIER")),
			KafkaBrokers:          splitList(v.GetString("KAFKA_BROKERS")),
			KafkaClientID:         v.GetString("KAFKA_CLIENT_ID"),
			TopicBookingConfirmed: v.GetString("KAFKA_TOPIC_BOOKING_CONFIRMED"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Telemetry: TelemetryConfig{
			Enabled:        v.GetBool("OTEL_ENABLED"),
			CollectorAddr:  v.GetString("OTEL_COLLECTOR_ADDR"),
			ServiceVersion: v.GetString("OTEL_SERVICE_VERSION"),
		},
		Idempotency: IdempotencyConfig{
			TTL: time.Duration(v.GetInt("IDEMPOTENCY_TTL_MINUTES")) * time.Minute,
		},
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
