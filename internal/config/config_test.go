package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"RECOMMENDER_API_URL", "SEND_TIMEOUT_MS", "FORWARD_MODE", "KAFKA_BROKERS", "SHOP_ID", "API_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.SendTimeout)
	assert.Equal(t, ForwardModeSync, cfg.ForwardMode)
	assert.False(t, cfg.Async())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers())
	assert.Error(t, cfg.Credentials().Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("RECOMMENDER_API_URL", "http://recs.test")
	t.Setenv("SHOP_ID", "shop-1")
	t.Setenv("API_KEY", "secret")
	t.Setenv("SEND_TIMEOUT_MS", "250")
	t.Setenv("FORWARD_MODE", "ASYNC")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CORS_ORIGINS", "https://shop.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://recs.test", cfg.RecommenderAPIURL)
	assert.Equal(t, 250*time.Millisecond, cfg.SendTimeout)
	assert.True(t, cfg.Async())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
	assert.Equal(t, []string{"https://shop.test"}, cfg.AllowedOrigins())

	creds := cfg.Credentials()
	require.NoError(t, creds.Validate())
	assert.Equal(t, "shop-1", creds.ShopID)
	assert.Equal(t, "secret", creds.APIKey)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SEND_TIMEOUT_MS", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.SendTimeout)
}
