package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithAddr("redis.internal:6380"),
		WithPassword("secret"),
		WithDB(2),
		WithMaxRetries(5),
		WithDialTimeout(time.Second),
	)

	assert.Equal(t, "redis.internal:6380", cfg.Addr)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.DialTimeout)
}

func TestConfigValidate(t *testing.T) {
	cfg := NewConfig(WithAddr(""))
	require.Error(t, cfg.Validate())

	cfg = NewConfig(WithMaxRetries(-1))
	require.Error(t, cfg.Validate())
}
