package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/fieldcrypt"
)

// Config membungkus semua environment variable yang dipakai proses
// api, worker, dan consumer. Secret divalidasi di sini supaya proses
// gagal saat start, bukan saat request pertama.
type Config struct {
	AppEnv string
	Port   string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	JWTSecret          string
	FieldEncryptionKey []byte

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	CORSAllowedOrigins []string
}

func LoadConfig() (Config, error) {
	cfg := Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "staff"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		// Tidak diberi default; worker dan consumer yang mewajibkannya.
		KafkaBroker: os.Getenv("KAFKA_BROKER"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@staff.local"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Staff Notifications"),

		CORSAllowedOrigins: splitCSV(getEnv(
			"CORS_ALLOWED_ORIGINS",
			"http://localhost:3000,http://localhost:5173",
		)),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	rawKey := os.Getenv("FIELD_ENCRYPTION_KEY")
	if rawKey == "" {
		return Config{}, fmt.Errorf("FIELD_ENCRYPTION_KEY is required")
	}
	key, err := fieldcrypt.ParseKey(rawKey)
	if err != nil {
		return Config{}, fmt.Errorf("FIELD_ENCRYPTION_KEY is invalid: %w", err)
	}
	cfg.FieldEncryptionKey = key

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
