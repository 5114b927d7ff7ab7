package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AssistantConfig holds configuration for the AI text-generation assistant.
type AssistantConfig struct {
	Enabled bool

	// Provider is the friendly provider name (e.g. OpenAI, AzureOpenAI).
	Provider string

	// BaseURL and Endpoint are combined to form the chat-completion URL.
	BaseURL  string
	Endpoint string

	// Model or deployment name.
	Model string

	// APIKey authenticates requests; APIVersion is appended as a query
	// parameter when set (Azure-style endpoints).
	APIKey     string
	APIVersion string

	// AuthScheme is the Authorization header scheme (Bearer, ApiKey).
	// The special value "api-key" sends the key in an api-key header.
	AuthScheme string

	Temperature float64
	MaxTokens   int

	// SystemPrompt overrides the built-in system instruction when set.
	SystemPrompt string
}

// Config holds application configuration.
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Assistant
	Assistant AssistantConfig
}

var appConfig *Config

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "protrack"),
		DBPassword: getEnv("DB_PASSWORD", "protrack"),
		DBName:     getEnv("DB_NAME", "protrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		Assistant: AssistantConfig{
			Enabled:      getEnvBool("AI_ENABLED", false),
			Provider:     getEnv("AI_PROVIDER", "OpenAI"),
			BaseURL:      getEnv("AI_BASE_URL", "https://api.openai.com"),
			Endpoint:     getEnv("AI_ENDPOINT", "v1/chat/completions"),
			Model:        getEnv("AI_MODEL", "gpt-4o-mini"),
			APIKey:       getEnv("AI_API_KEY", ""),
			APIVersion:   getEnv("AI_API_VERSION", ""),
			AuthScheme:   getEnv("AI_AUTH_SCHEME", "Bearer"),
			Temperature:  getEnvFloat("AI_TEMPERATURE", 0.3),
			MaxTokens:    getEnvInt("AI_MAX_TOKENS", 300),
			SystemPrompt: getEnv("AI_SYSTEM_PROMPT", ""),
		},
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
		log.Printf("Warning: invalid %s value '%s', using default\n", key, value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
		log.Printf("Warning: invalid %s value '%s', using default\n", key, value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
		log.Printf("Warning: invalid %s value '%s', using default\n", key, value)
	}
	return defaultValue
}
