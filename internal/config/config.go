package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	FrontendURL string

	AuthRateLimit  int
	AuthRateWindow time.Duration

	// TrustedProxies lists CIDR ranges allowed to set X-Forwarded-For.
	TrustedProxies []string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	AdminEmail    string
	AdminPassword string
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("notice: .env not loaded: %v, using process environment", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "catalogo"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 3000),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:  EnvDurationDefault("JWT_TTL", 24*time.Hour),

		FrontendURL: EnvDefault("FRONTEND_URL", "http://localhost:5173"),

		AuthRateLimit:  EnvIntDefault("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: EnvDurationDefault("AUTH_RATE_WINDOW", 15*time.Minute),

		TrustedProxies: CSV(os.Getenv("TRUSTED_PROXIES")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "prodotti"),

		AdminEmail:    EnvDefault("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
