package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL  string
	RedisURL     string
	FSSAPIKey    string
	OpenAIAPIKey string
	ServerPort   string
}

// LoadConfig reads configuration from environment variables (.env file)
func LoadConfig() (*Config, error) {
	// In production env variables are often set directly; a missing .env is fine.
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		FSSAPIKey:    getEnv("FSS_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		ServerPort:   getEnv("PORT", "8080"),
	}, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
