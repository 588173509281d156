package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// StoreKind selects which adapter shape serves as the primary store.
type StoreKind string

const (
	// StoreRelational uses the SQLite-backed relational adapter.
	StoreRelational StoreKind = "relational"
	// StoreDocument uses the Redis-backed document adapter.
	StoreDocument StoreKind = "document"
)

// Config holds runtime configuration values for the content server.
type Config struct {
	DBPath         string
	RedisAddr      string
	RedisDB        int
	PrimaryStore   StoreKind
	ServerPort     int
	LogLevel       string
	SentryDSN      string
	Environment    string
	PrimaryTimeout time.Duration
	ShutdownGrace  time.Duration
}

const (
	defaultDBPath         = "./data/ilmhub.db"
	defaultRedisAddr      = "localhost:6379"
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultPrimaryStore   = StoreRelational
	defaultPrimaryTimeout = 3 * time.Second
	defaultShutdownGrace  = 10 * time.Second
)

// Load reads configuration values from environment variables, applying
// defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:         getEnv("DB_PATH", defaultDBPath),
		RedisAddr:      getEnv("REDIS_ADDR", defaultRedisAddr),
		LogLevel:       getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		Environment:    getEnv("ENV", defaultEnvironment),
		PrimaryTimeout: defaultPrimaryTimeout,
		ShutdownGrace:  defaultShutdownGrace,
	}

	storeValue := getEnv("PRIMARY_STORE", string(defaultPrimaryStore))
	switch StoreKind(storeValue) {
	case StoreRelational, StoreDocument:
		cfg.PrimaryStore = StoreKind(storeValue)
	default:
		return nil, eris.Errorf("invalid PRIMARY_STORE value: %s", storeValue)
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		parsed, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid REDIS_DB value: %s", redisDB)
		}
		cfg.RedisDB = parsed
	}

	if timeout := os.Getenv("PRIMARY_TIMEOUT"); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid PRIMARY_TIMEOUT value: %s", timeout)
		}
		cfg.PrimaryTimeout = parsed
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
