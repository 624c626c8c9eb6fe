package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Database
	DBDriver   string // sqlite or postgres
	DBPath     string // sqlite file path
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	// Meta lead-generation channel
	MetaVerifyToken  string
	MetaAppSecret    string
	MetaPageToken    string
	MetaGraphBaseURL string

	// Voice-calling provider
	VapiAPIKey        string
	VapiBaseURL       string
	VapiWebhookSecret string

	DefaultCountryCode string
	AutoLaunchDelay    time.Duration
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "./leadgateway.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "leadgateway"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		MetaVerifyToken:  getEnv("META_VERIFY_TOKEN", ""),
		MetaAppSecret:    getEnv("META_APP_SECRET", ""),
		MetaPageToken:    getEnv("META_PAGE_TOKEN", ""),
		MetaGraphBaseURL: getEnv("META_GRAPH_BASE_URL", "https://graph.facebook.com/v19.0"),

		VapiAPIKey:        getEnv("VAPI_API_KEY", ""),
		VapiBaseURL:       getEnv("VAPI_BASE_URL", "https://api.vapi.ai"),
		VapiWebhookSecret: getEnv("VAPI_WEBHOOK_SECRET", ""),

		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "+1"),
		AutoLaunchDelay:    time.Duration(getEnvInt("AUTO_LAUNCH_DELAY_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
