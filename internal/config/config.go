// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for the
// database, logging, credential hashing, the repository lock and observability.
package config

import (
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Lock backends accepted by LOCK_BACKEND.
const (
	LockLocal = "local"
	LockRedis = "redis"
)

// HashConfig defines the credential hashing settings.
type HashConfig struct {
	Pepper    string // HASH_PEPPER (required)
	Salt      string // HASH_SALT; empty means a random salt per record
	Time      uint32 // HASH_TIME
	MemoryKiB uint32 // HASH_MEMORY_KIB
	Threads   uint8  // HASH_THREADS
}

// LockConfig selects the lock that serialises repository operations.
type LockConfig struct {
	Backend   string        // LOCK_BACKEND: local|redis
	RedisAddr string        // REDIS_ADDR
	Key       string        // LOCK_KEY
	Expiry    time.Duration // LOCK_EXPIRY
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "botconfig")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Database
	DBPath         string // SQLite path
	DBMaxOpenConns int    // pool size (>= 1)
	DBTrace        bool   // instrument SQL with OpenTelemetry spans

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	Hash HashConfig
	Lock LockConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	hashTime := getint("HASH_TIME", 1)
	hashMemory := getint("HASH_MEMORY_KIB", 64*1024)
	hashThreads := getint("HASH_THREADS", 4)

	cfg := Config{
		DBPath:         getenv("DB_PATH", "botconfig.db"),
		DBMaxOpenConns: getint("DB_MAX_OPEN_CONNS", 10),
		DBTrace:        getbool("DB_TRACE", false),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		Hash: HashConfig{
			Pepper:    os.Getenv("HASH_PEPPER"),
			Salt:      os.Getenv("HASH_SALT"),
			Time:      uint32(hashTime),
			MemoryKiB: uint32(hashMemory),
			Threads:   uint8(hashThreads),
		},

		Lock: LockConfig{
			Backend:   strings.ToLower(strings.TrimSpace(getenv("LOCK_BACKEND", LockLocal))),
			RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
			Key:       getenv("LOCK_KEY", "botconfig:repository"),
			Expiry:    getdur("LOCK_EXPIRY", 30*time.Second),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "botconfig"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.DBMaxOpenConns < 1 {
		return cfg, errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.Hash.Pepper == "" {
		return cfg, errors.New("HASH_PEPPER must be set")
	}
	// Range-check the raw values; the narrowed fields above wrap silently.
	if hashTime < 1 || hashMemory < 8 || hashThreads < 1 {
		return cfg, errors.New("HASH_TIME, HASH_MEMORY_KIB and HASH_THREADS must be positive (memory >= 8 KiB)")
	}
	if int64(hashTime) > math.MaxUint32 || int64(hashMemory) > math.MaxUint32 {
		return cfg, errors.New("HASH_TIME and HASH_MEMORY_KIB must fit in 32 bits")
	}
	if hashThreads > math.MaxUint8 {
		return cfg, errors.New("HASH_THREADS must be <= 255")
	}
	switch cfg.Lock.Backend {
	case LockLocal:
	case LockRedis:
		if strings.TrimSpace(cfg.Lock.RedisAddr) == "" || strings.TrimSpace(cfg.Lock.Key) == "" {
			return cfg, errors.New("REDIS_ADDR and LOCK_KEY must not be empty for the redis lock")
		}
		if cfg.Lock.Expiry <= 0 {
			return cfg, errors.New("LOCK_EXPIRY must be > 0")
		}
	default:
		return cfg, errors.New("LOCK_BACKEND must be one of: local, redis")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
