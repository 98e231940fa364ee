// Package config loads application configuration from environment
// variables with development-friendly defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	GSI1IndexName string // edges by sender
	GSI2IndexName string // edges by recipient
	EventBusName  string

	// Lambda configuration
	IsLambda bool

	// Cache configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Payments
	PaymentWebhookSecret string

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics    bool
	EnableCORS       bool
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable: getEnv("TABLE_NAME", "meetgraph"),
		GSI1IndexName: getEnv("GSI1_INDEX_NAME", "SenderIndex"),
		GSI2IndexName: getEnv("GSI2_INDEX_NAME", "RecipientIndex"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "meetgraph-events"),

		IsLambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "meetgraph"),

		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		EnableMetrics:    getEnvBool("ENABLE_METRICS", false),
		EnableCORS:       getEnvBool("ENABLE_CORS", true),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "MeetGraph"),
	}

	// Local and test environments boot without secrets set; production
	// validation below still demands real values.
	if !cfg.IsProduction() {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = "dev-jwt-secret"
		}
		if cfg.PaymentWebhookSecret == "" {
			cfg.PaymentWebhookSecret = "dev-webhook-secret"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if c.PaymentWebhookSecret == "" {
			return fmt.Errorf("PAYMENT_WEBHOOK_SECRET is required in production")
		}
	}
	return nil
}

// CacheEnabled reports whether a Redis backend is configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
