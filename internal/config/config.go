package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Currency string
	TaxRate  decimal.Decimal

	SMTP   SMTPConfig
	Stripe StripeConfig
	S3     S3Config
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP transport is configured. Mail dispatch is
// best-effort and skipped entirely when it is not.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

func (c StripeConfig) Enabled() bool {
	return c.SecretKey != ""
}

type S3Config struct {
	Region  string
	Bucket  string
	BaseURL string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	cfg := Config{
		Env:  getEnvOrDefault("APP_ENV", "development"),
		Port: getEnvOrDefault("PORT", "8080"),

		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		CartTTL:       getDurationEnv("CART_TTL_DAYS", 30, 24*time.Hour),

		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),

		Currency: getEnvOrDefault("CURRENCY", "BGN"),
		TaxRate:  getDecimalEnv("TAX_RATE", decimal.Zero),

		SMTP: SMTPConfig{
			Host:     getEnvOrDefault("SMTP_HOST", ""),
			Port:     getEnvOrDefault("SMTP_PORT", "587"),
			Username: getEnvOrDefault("SMTP_USER", ""),
			Password: getEnvOrDefault("SMTP_PASS", ""),
			From:     getEnvOrDefault("SMTP_FROM", "orders@climasite.example"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnvOrDefault("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),
		},
		S3: S3Config{
			Region:  getEnvOrDefault("S3_REGION", "eu-central-1"),
			Bucket:  getEnvOrDefault("S3_BUCKET", ""),
			BaseURL: getEnvOrDefault("S3_BASE_URL", ""),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getDecimalEnv(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := decimal.NewFromString(value); err == nil && !parsed.IsNegative() {
			return parsed
		}
	}
	return defaultValue
}
