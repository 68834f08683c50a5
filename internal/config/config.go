package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBConnectionString string

	JWTSecret string

	NatsURL  string
	RedisURL string

	MidtransServerKey  string
	MidtransEnabled    bool
	MidtransProduction bool

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// TaxRatePercent is applied flat to every invoice subtotal.
	TaxRatePercent float64

	// Sweep windows. Warnings go out for subscriptions expiring within
	// WarnWindow; renewals fire for auto-renew subscriptions ending within
	// RenewWindow.
	WarnWindow  time.Duration
	RenewWindow time.Duration

	OtelEnabled  bool
	OtelEndpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),

		DBConnectionString: getEnv("DB_CONNECTION_STRING", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		NatsURL:  getEnv("NATS_URL", "nats://localhost:4222"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		MidtransServerKey:  getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransEnabled:    getEnvAsBool("MIDTRANS_ENABLED", false),
		MidtransProduction: getEnvAsBool("MIDTRANS_PRODUCTION", false),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "billing@school-mgmt.local"),

		TaxRatePercent: getEnvAsFloat("BILLING_TAX_RATE", 0),

		WarnWindow:  time.Duration(getEnvAsInt("SWEEP_WARN_WINDOW_HOURS", 72)) * time.Hour,
		RenewWindow: time.Duration(getEnvAsInt("SWEEP_RENEW_WINDOW_HOURS", 24)) * time.Hour,

		OtelEnabled:  getEnvAsBool("OTEL_ENABLED", false),
		OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}
