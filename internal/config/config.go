package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backend names accepted in TOKENS_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Config is the full service configuration, read from the environment with an
// optional .env file on top.
type Config struct {
	HTTPAddr string

	Backend     string
	PostgresDSN string
	MySQLDSN    string

	KafkaBrokers []string
	KafkaTopic   string

	Locale       string
	CurrencyName string

	Workers   int
	QueueSize int
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:     getenv("TOKENS_HTTP_ADDR", ":8080"),
		Backend:      getenv("TOKENS_BACKEND", BackendMemory),
		PostgresDSN:  os.Getenv("TOKENS_POSTGRES_DSN"),
		MySQLDSN:     os.Getenv("TOKENS_MYSQL_DSN"),
		KafkaTopic:   getenv("TOKENS_KAFKA_TOPIC", "token_transactions"),
		Locale:       getenv("TOKENS_LOCALE", "en-US"),
		CurrencyName: getenv("TOKENS_CURRENCY_NAME", "Token"),
	}

	if brokers := os.Getenv("TOKENS_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	var err error
	if cfg.Workers, err = getint("TOKENS_WORKERS", 8); err != nil {
		return nil, err
	}
	if cfg.QueueSize, err = getint("TOKENS_QUEUE_SIZE", 256); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("TOKENS_POSTGRES_DSN is required for the postgres backend")
		}
	case BackendMySQL:
		if cfg.MySQLDSN == "" {
			return nil, fmt.Errorf("TOKENS_MYSQL_DSN is required for the mysql backend")
		}
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
