package config

import (
	"testing"

	"meetgraph/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "meetgraph", cfg.DynamoDBTable)
	assert.Equal(t, "SenderIndex", cfg.GSI1IndexName)
	assert.Equal(t, "RecipientIndex", cfg.GSI2IndexName)
	assert.False(t, cfg.CacheEnabled())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ENABLE_METRICS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.EnableMetrics)
}

func TestLoadConfig_DevelopmentDefaultsSecrets(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	// The container must come up on a bare dev environment, so the JWT
	// and webhook secrets default to usable placeholder values.
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.PaymentWebhookSecret)

	_, err = auth.NewJWTValidator(auth.JWTConfig{SecretKey: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	require.NoError(t, err)
}

func TestLoadConfig_ProductionStillRequiresRealSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	cfg := &Config{Environment: "production", DynamoDBTable: "meetgraph"}
	require.Error(t, cfg.Validate())

	cfg.JWTSecret = "secret"
	require.Error(t, cfg.Validate(), "payment webhook secret still missing")

	cfg.PaymentWebhookSecret = "whsec"
	require.NoError(t, cfg.Validate())
}
