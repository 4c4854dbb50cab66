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

	// AWS configuration, used only when durable snapshots or event
	// publishing are enabled
	AWSRegion          string
	SnapshotTable      string
	TimelineTable      string
	EventBusName       string
	SnapshotsEnabled   bool
	EventBridgeEnabled bool

	// Learning policy overlay file (YAML), hot-reloaded when set
	PolicyFile string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:          getEnv("AWS_REGION", "us-west-2"),
		SnapshotTable:      getEnv("SNAPSHOT_TABLE", "cortex-snapshots"),
		TimelineTable:      getEnv("TIMELINE_TABLE", "cortex-timeline"),
		EventBusName:       getEnv("EVENT_BUS_NAME", "cortex-events"),
		SnapshotsEnabled:   getEnvBool("SNAPSHOTS_ENABLED", false),
		EventBridgeEnabled: getEnvBool("EVENTBRIDGE_ENABLED", false),

		PolicyFile: getEnv("POLICY_FILE", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "cortex"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.SnapshotsEnabled && c.SnapshotTable == "" {
			return fmt.Errorf("SNAPSHOT_TABLE is required when snapshots are enabled")
		}
		if c.EventBridgeEnabled && c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required when EventBridge is enabled")
		}
	}

	return nil
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
