package cfg

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logger.Logger {
	return logger.NewWithHandler(slog.NewTextHandler(io.Discard, nil))
}

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "pos")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "pos")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("PAYMENT_SECRET_KEY", "sk_test_123")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Http.Port)
	assert.Equal(t, "localhost", c.Db.Host)
	assert.Equal(t, int32(10), c.Db.MaxConns)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "pos.orders", c.Kafka.Topic)
	assert.Equal(t, "https://api.stripe.com", c.Payment.APIURL)
	assert.Equal(t, "usd", c.Payment.Currency)
	assert.Equal(t, 2*time.Hour, c.Redis.SessionTTL)
	assert.Equal(t, 3*time.Minute, c.Redis.ProductTTL)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYMENT_API_URL", "http://localhost:12111/")
	t.Setenv("PAYMENT_CURRENCY", "EUR")
	t.Setenv("PAYMENT_TIMEOUT", "2s")
	t.Setenv("SESSION_TTL", "30m")

	c, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:12111", c.Payment.APIURL)
	assert.Equal(t, "eur", c.Payment.Currency)
	assert.Equal(t, 2*time.Second, c.Payment.Timeout)
	assert.Equal(t, 30*time.Minute, c.Redis.SessionTTL)
}

func TestLoad_MissingSecrets(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{name: "database user", unset: "POSTGRES_USER"},
		{name: "kafka brokers", unset: "KAFKA_BROKERS"},
		{name: "payment secret", unset: "PAYMENT_SECRET_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load(testLogger())
			assert.Error(t, err)
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	_, err := parseIntEnv("SOME_INT", 3)
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)

	t.Setenv("SOME_INT", "")
	v, err := parseIntEnv("SOME_INT", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}
