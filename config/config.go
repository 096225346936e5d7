package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	AppPort       string
	AppURL        string
	SessionSecret string
	CSRFSecret    string
	Environment   string
	LogLevel      string

	NewsProvider    string
	NewsAPIKey      string
	NewsAPIURL      string
	NewsQuery       string
	NewsTimeout     time.Duration
	ArticleCacheTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		if _, exists := os.Stat(".env"); exists == nil {
			slog.Warn(".env file exists but couldn't be loaded", slog.Any("error", err))
		}
	}

	environment := getEnv("ENVIRONMENT", "development")
	sessionSecret := getEnv("SESSION_SECRET", "")
	csrfSecret := getEnv("CSRF_SECRET", "")

	if sessionSecret == "" {
		sessionSecret = generateRandomSecret("SESSION_SECRET")
	}
	if csrfSecret == "" {
		csrfSecret = generateRandomSecret("CSRF_SECRET")
	}

	appPort := getEnv("APP_PORT", "8080")
	appURL := getEnv("APP_URL", "")

	if appURL == "" {
		if environment == "production" {
			slog.Warn("APP_URL not set in production, CSRF origin validation may fail")
		} else {
			appURL = "http://localhost:" + appPort
		}
	}

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		AppPort:       appPort,
		AppURL:        appURL,
		SessionSecret: sessionSecret,
		CSRFSecret:    csrfSecret,
		Environment:   environment,
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		NewsProvider:    strings.ToLower(getEnv("NEWS_PROVIDER", "newsdata")),
		NewsAPIKey:      getEnv("NEWS_API_KEY", ""),
		NewsAPIURL:      getEnv("NEWS_API_URL", ""),
		NewsQuery:       getEnv("NEWS_QUERY", ""),
		NewsTimeout:     getEnvAsDuration("NEWS_TIMEOUT", 15*time.Second),
		ArticleCacheTTL: getEnvAsDuration("ARTICLE_CACHE_TTL", 10*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", ""),
	}

	slog.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.String("app_port", cfg.AppPort),
		slog.String("app_url", cfg.AppURL),
		slog.String("news_provider", cfg.NewsProvider))

	if cfg.DatabaseURL != "" {
		cfg.parseDBURL()
	} else {
		cfg.DBHost = getEnv("DB_HOST", "localhost")
		cfg.DBPort = getEnv("DB_PORT", "5432")
		cfg.DBUser = getEnv("DB_USER", "postgres")
		cfg.DBPassword = getEnv("DB_PASSWORD", "password")
		cfg.DBName = getEnv("DB_NAME", "news_reader")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		slog.Warn("invalid integer in environment, using default", slog.String("key", key))
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
		slog.Warn("invalid duration in environment, using default", slog.String("key", key))
	}
	return fallback
}

func (c *Config) parseDBURL() {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		slog.Error("error parsing DATABASE_URL", slog.Any("error", err))
		return
	}

	c.DBHost = u.Hostname()
	c.DBPort = u.Port()
	if c.DBPort == "" {
		c.DBPort = "5432"
	}

	c.DBUser = u.User.Username()
	if password, ok := u.User.Password(); ok {
		c.DBPassword = password
	}

	c.DBName = strings.TrimPrefix(u.Path, "/")
}

func generateRandomSecret(name string) string {
	slog.Warn("secret not set, generating random secret (will not persist across restarts)", slog.String("name", name))

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		slog.Error("failed to generate random secret", slog.String("name", name), slog.Any("error", err))
		os.Exit(1)
	}

	return base64.StdEncoding.EncodeToString(b)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SMTPConfigured reports whether enough SMTP settings are present to send mail.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.EmailFrom != ""
}
