package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 8, cfg.Booking.OpenHour)
	assert.Equal(t, 22, cfg.Booking.CloseHour)
	assert.Equal(t, 60, cfg.Booking.SlotMinutes)
	assert.Equal(t, "mock", cfg.Payment.Provider)
	assert.Equal(t, 15*time.Second, cfg.Payment.Timeout)
	assert.Equal(t, "booking.confirmed", cfg.Notifier.TopicBookingConfirmed)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadConfigFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=9090\nPAYMENT_PROVIDER=Stripe\nKAFKA_BROKERS=a:9092, b:9092\nBOOKING_SLOT_MINUTES=30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "stripe", cfg.Payment.Provider)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Notifier.KafkaBrokers)
	assert.Equal(t, 30, cfg.Booking.SlotMinutes)
}

func TestAppConfigLocation(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{}.Location())
	assert.Equal(t, time.UTC, AppConfig{Timezone: "Not/AZone"}.Location())
}
