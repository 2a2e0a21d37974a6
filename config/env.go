package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Twilio   TwilioConfig
	Storage  StorageConfig
	Outbox   OutboxConfig
	Admin    AdminConfig
	QRIS     QRISConfig

	BroadcastDelay time.Duration
}

type ServerConfig struct {
	Port         string
	Env          string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN is the postgres connection url.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type JWTConfig struct {
	Secret   string
	Duration time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

type StorageConfig struct {
	UploadDir     string
	ReportsDir    string
	CloudinaryURL string
}

type OutboxConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
	BatchSize    int
}

type AdminConfig struct {
	Username string
	Email    string
	Password string
	FullName string
}

type QRISConfig struct {
	ImagePath    string
	MerchantName string
	MerchantCity string
	PostalCode   string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			AllowOrigins: splitList(getEnv("ALLOW_ORIGINS", "http://localhost:5173")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "sekarnet"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Duration: getEnvDuration("JWT_DURATION", 7*24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnv("SMTP_FROM", "SEKAR NET <noreply@sekarnet.id>"),
		},
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			From:       os.Getenv("TWILIO_PHONE_NUMBER"),
		},
		Storage: StorageConfig{
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			ReportsDir:    getEnv("REPORTS_DIR", "reports"),
			CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		},
		Outbox: OutboxConfig{
			PollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 5*time.Second),
			MaxAttempts:  getEnvAsInt("OUTBOX_MAX_ATTEMPTS", 5),
			BatchSize:    getEnvAsInt("OUTBOX_BATCH_SIZE", 20),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
			FullName: getEnv("ADMIN_NAME", "Administrator"),
		},
		QRIS: QRISConfig{
			ImagePath:    getEnv("QRIS_IMAGE_PATH", "assets/qris.png"),
			MerchantName: getEnv("QRIS_MERCHANT_NAME", "SEKAR NET"),
			MerchantCity: getEnv("QRIS_MERCHANT_CITY", "BANYUWANGI"),
			PostalCode:   getEnv("QRIS_POSTAL_CODE", "68461"),
		},
		BroadcastDelay: getEnvDuration("BROADCAST_DELAY", 100*time.Millisecond),
	}
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.Outbox.MaxAttempts < 1 {
		return fmt.Errorf("OUTBOX_MAX_ATTEMPTS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
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
