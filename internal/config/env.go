package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// OCRConfig controls the footer recognition fallback.
type OCRConfig struct {
	Enabled        bool
	Command        string
	Language       string
	PSM            int
	DPI            float64
	FooterFraction float64
	Workers        int
	PageTimeout    time.Duration
	ColorMode      string
	LogFile        string
}

// CacheConfig configures the optional Redis cache of recognized text.
// An empty RedisURL disables caching.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// StorageConfig covers remote input and output locations.
type StorageConfig struct {
	S3Bucket    string
	HTTPTimeout time.Duration
}

// MetricsConfig names the Prometheus textfile written at exit, if any.
type MetricsConfig struct {
	File string
}

// Config is the top-level configuration.
type Config struct {
	Logging LoggingConfig
	Axiom   AxiomConfig
	OCR     OCRConfig
	Cache   CacheConfig
	Storage StorageConfig
	Metrics MetricsConfig
}

// FromEnv loads configuration from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_pagereorder",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.OCR = OCRConfig{
		Enabled:        parseBool(getEnv("OCR_ENABLED", "true")),
		Command:        getEnv("TESSERACT_CMD", "tesseract"),
		Language:       getEnv("OCR_LANGUAGE", "eng"),
		PSM:            parseInt(getEnv("OCR_PSM", "6"), 6),
		DPI:            parseFloat(getEnv("OCR_DPI", "200"), 200),
		FooterFraction: parseFloat(getEnv("OCR_FOOTER_FRACTION", "0.2"), 0.2),
		Workers:        parseInt(getEnv("OCR_WORKERS", "4"), 4),
		PageTimeout:    parseDuration(getEnv("OCR_PAGE_TIMEOUT", "30s"), 30*time.Second),
		ColorMode:      strings.ToLower(getEnv("OCR_COLOR_MODE", "gray")),
		LogFile:        getEnv("OCR_LOG_FILE", "ocr_log.txt"),
	}
	if cfg.OCR.FooterFraction <= 0 || cfg.OCR.FooterFraction > 1 {
		cfg.OCR.FooterFraction = 0.2
	}
	if cfg.OCR.Workers < 1 {
		cfg.OCR.Workers = 1
	}

	cfg.Cache = CacheConfig{
		RedisURL: getEnv("REDIS_URL", ""),
		TTL:      parseDuration(getEnv("OCR_CACHE_TTL", "168h"), 7*24*time.Hour),
	}

	cfg.Storage = StorageConfig{
		S3Bucket:    getEnv("AWS_S3_BUCKET", ""),
		HTTPTimeout: parseDuration(getEnv("HTTP_DOWNLOAD_TIMEOUT", "60s"), 60*time.Second),
	}

	cfg.Metrics = MetricsConfig{
		File: getEnv("METRICS_FILE", ""),
	}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
