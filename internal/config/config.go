package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	Storage                   StorageConfig
	RemoteAPIURL              string // non-empty enables remote REST mode
	Assistant                 AssistantConfig
	Mailer                    MailerConfig
}

// StorageConfig selects and configures the persistence backend
type StorageConfig struct {
	// Backend is one of "badger", "mysql" or "memory".
	Backend string
	DataDir string
	DSN     string
}

// AssistantConfig holds AI provider configuration
type AssistantConfig struct {
	APIKey string
	Model  string
}

// MailerConfig holds email service configuration
type MailerConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	storageConfig := StorageConfig{
		Backend: getEnv("STORAGE_BACKEND", "badger"),
		DataDir: getEnv("STORAGE_DATA_DIR", "./data"),
	}

	// Build DSN (Data Source Name) only relevant to the mysql backend
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "3306")
	dbUser := getEnv("DB_USERNAME", "root")
	dbPass := getEnv("DB_PASSWORD", "")
	dbName := getEnv("DB_NAME", "healthportal")
	storageConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUser, dbPass, dbHost, dbPort, dbName)

	assistantConfig := AssistantConfig{
		APIKey: getEnv("OPENAI_API_KEY", ""),
		Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}

	mailerConfig := MailerConfig{
		APIKey:    getEnv("SENDGRID_API_KEY", ""),
		FromEmail: getEnv("MAILER_FROM_EMAIL", "noreply@healthportal.local"),
		FromName:  getEnv("MAILER_FROM_NAME", "Health Portal"),
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:5173"),
		Environment:               getEnv("APP_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		Storage:                   storageConfig,
		RemoteAPIURL:              getEnv("API_URL", ""),
		Assistant:                 assistantConfig,
		Mailer:                    mailerConfig,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
