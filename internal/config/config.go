package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port            string
	PostgresDSN     string
	RedisAddr       string
	RedisPassword   string
	ContentCacheTTL time.Duration
	JWTSecret       string
	TokenTTL        time.Duration
	UploadDir       string
	MaxUploadBytes  int64
	CORSOrigins     []string
	LogLevel        string
	LogFormat       string
}

// Load reads the environment. Malformed numeric or duration values fall
// back to their defaults; Validate catches what must not be empty.
func Load() *Config {
	return &Config{
		Port:            getenv("PORT", "5000"),
		PostgresDSN:     getenv("POSTGRES_DSN", ""),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		ContentCacheTTL: getduration("CONTENT_CACHE_TTL", 5*time.Minute),
		JWTSecret:       getenv("JWT_SECRET", ""),
		TokenTTL:        getduration("TOKEN_TTL", 7*24*time.Hour),
		UploadDir:       getenv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:  getint64("MAX_UPLOAD_BYTES", 5<<20),
		CORSOrigins:     getlist("CORS_ORIGINS", []string{"*"}),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "json"),
	}
}

// Validate reports every setting that would keep the server from running.
func (c *Config) Validate() error {
	var errs []error
	if c.PostgresDSN == "" {
		errs = append(errs, errors.New("POSTGRES_DSN is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR must not be empty"))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

func getint64(key string, fallback int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return n
	}
	return fallback
}

func getlist(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
