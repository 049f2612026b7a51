package config

import (
	"os"
	"strings"
	"time"

	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the server.
type Config struct {
	Port     string
	LogLevel string

	// Storage is "mongo" or "memory".
	Storage  string
	MongoURI string
	DBName   string

	// JWTSecret verifies bearer tokens issued by the identity provider.
	JWTSecret string
	JWTIssuer string

	Timezone       *time.Location
	AllowedOrigins []string

	SuggestionURL     string
	SuggestionToken   string
	SuggestionTimeout time.Duration

	ReminderCron string
	CleanupCron  string
}

// LoadConfig reads the .env file when present and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Log.Info("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Storage:           strings.ToLower(getEnv("STORAGE", "mongo")),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:            getEnv("DB_NAME", "habit_manager"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTIssuer:         os.Getenv("JWT_ISSUER"),
		Timezone:          time.UTC,
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		SuggestionURL:     os.Getenv("SUGGESTION_API_URL"),
		SuggestionToken:   os.Getenv("SUGGESTION_API_TOKEN"),
		SuggestionTimeout: 20 * time.Second,
		ReminderCron:      getEnv("REMINDER_CRON", "0 18 * * *"),
		CleanupCron:       getEnv("CLEANUP_CRON", "@daily"),
	}

	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			logger.Log.WithError(err).WithField("timezone", tz).Warn("Invalid APP_TIMEZONE, falling back to UTC")
		} else {
			cfg.Timezone = loc
		}
	}

	if raw := os.Getenv("SUGGESTION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			logger.Log.WithField("value", raw).Warn("Invalid SUGGESTION_TIMEOUT, using default")
		} else {
			cfg.SuggestionTimeout = d
		}
	}

	if cfg.JWTSecret == "" {
		logger.Log.Warn("JWT_SECRET is not set, every authenticated request will be rejected")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
