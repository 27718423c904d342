package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	JWTSecret           string
	JWTAccessTTLMinutes int

	// Optional bootstrap admin created at startup when both email and
	// password are set.
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Optional redis backend for the login rate limiter.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CountriesBaseURL         string
	CountriesCacheTTLSeconds int

	LoginRateLimit         int
	LoginRateWindowMinutes int

	CORSAllowedOrigins []string
	OTELEndpoint       string
	MaxBodyBytes       int64
}

func Load() Config {
	// .env is optional; real deployments supply the environment directly.
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 120),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Admin"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CountriesBaseURL:         getEnv("COUNTRIES_BASE_URL", "https://restcountries.com/v3.1"),
		CountriesCacheTTLSeconds: getEnvInt("COUNTRIES_CACHE_TTL_SECONDS", 60),

		LoginRateLimit:         getEnvInt("LOGIN_RATE_LIMIT", 20),
		LoginRateWindowMinutes: getEnvInt("LOGIN_RATE_WINDOW_MINUTES", 10),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		OTELEndpoint:       getEnv("OTEL_EXPORTER_ENDPOINT", ""),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func (c Config) CountriesCacheTTL() time.Duration {
	return time.Duration(c.CountriesCacheTTLSeconds) * time.Second
}

func (c Config) LoginRateWindow() time.Duration {
	return time.Duration(c.LoginRateWindowMinutes) * time.Minute
}

func buildDBURL() string {
	// A full DATABASE_URL wins over the individual parts.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "countryhub")
	pass := getEnv("DB_PASSWORD", "countryhub")
	name := getEnv("DB_NAME", "countryhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func splitCSV(v string) []string {
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
