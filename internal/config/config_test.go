package config

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, StoreMemory, cfg.StoreBackend)
	require.Equal(t, []string{"activity_events", "achievement_events"}, cfg.ConsumerTopics)
	require.True(t, cfg.OutboxEnabled)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("OUTBOX_ENABLED", "false")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("TIMEZONE", "Europe/Berlin")

	cfg := Load()
	require.Equal(t, StorePostgres, cfg.StoreBackend)
	require.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	require.False(t, cfg.OutboxEnabled)
	require.Equal(t, 25, cfg.OutboxBatchSize)
	require.Equal(t, 90*time.Minute, cfg.JWTTTL)
	require.Equal(t, "Europe/Berlin", cfg.Location().String())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.StoreBackend = "sqlite"
	cfg.JWTSecret = " "
	cfg.Timezone = "Mars/Olympus"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown STORE_BACKEND")
	require.Contains(t, err.Error(), "JWT_SECRET")
	require.Contains(t, err.Error(), "TIMEZONE")
	require.Equal(t, time.UTC, cfg.Location())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("ecoquest-api", "warn", &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Str("k", "v").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "shown", entry["message"])
	require.Equal(t, "ecoquest-api", entry["service"])
	require.Equal(t, "warn", entry["level"])

	require.Equal(t, zerolog.InfoLevel, NewLogger("x", "bogus", &buf).GetLevel())
}
