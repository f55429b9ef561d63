package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 60, cfg.HTTP.RateLimit)
	assert.Equal(t, "1m", cfg.HTTP.RateLimitWindow)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, UnpricedZero, cfg.UnpricedPolicy())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GREENTRUCKER_HTTP_ADDR", ":9999")
	t.Setenv("GREENTRUCKER_ENVIRONMENT", "production")
	t.Setenv("GREENTRUCKER_BILLING_UNPRICED_CATEGORY_POLICY", "reject")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, UnpricedReject, cfg.UnpricedPolicy())
}

func TestUnpricedPolicyFallsBackToZero(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, UnpricedZero, cfg.UnpricedPolicy())

	cfg.setUnpricedPolicy("garbage-value")
	assert.Equal(t, UnpricedZero, cfg.UnpricedPolicy())

	cfg.setUnpricedPolicy(UnpricedReject)
	assert.Equal(t, UnpricedReject, cfg.UnpricedPolicy())
}
