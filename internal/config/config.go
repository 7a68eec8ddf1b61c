package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

// Dashboard slider bounds and defaults.
const (
	MinBusCount     = 10
	MaxBusCount     = 150
	DefaultBusCount = 100
	DefaultDaysBack = 365
	DefaultTopN     = 10
)

// Config holds the runtime settings shared by the dashboard and the CLI.
type Config struct {
	BusCount int
	DaysBack int
	TopN     int
	// Seed makes generation reproducible; 0 seeds from the clock.
	Seed int64

	Port     string
	LogLevel string

	MongoURI string
	MongoDB  string

	MQTTBroker string
	MQTTTopic  string

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string
	JWTExpiry time.Duration

	RateLimitRequests      int
	RateLimitWindowSeconds int
	// TrustProxyHeaders keys rate limiting on X-Forwarded-For and X-Real-IP.
	TrustProxyHeaders bool
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		BusCount:               DefaultBusCount,
		DaysBack:               DefaultDaysBack,
		TopN:                   DefaultTopN,
		Port:                   "8080",
		LogLevel:               "info",
		MongoDB:                "fleet",
		MQTTTopic:              "fleet/maintenance/snapshots",
		KafkaTopic:             "fleet.maintenance.snapshots",
		JWTExpiry:              24 * time.Hour,
		RateLimitRequests:      30,
		RateLimitWindowSeconds: 60,
	}
}

// Load reads an optional .env file, then overlays environment variables on
// the defaults. Unparseable numbers keep their default.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("Failed to read .env file")
	}

	cfg := Default()
	cfg.BusCount = envInt("FLEET_BUS_COUNT", cfg.BusCount)
	cfg.DaysBack = envInt("FLEET_DAYS_BACK", cfg.DaysBack)
	cfg.TopN = envInt("FLEET_TOP_N", cfg.TopN)
	if val := os.Getenv("FLEET_SEED"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Seed = n
		}
	}

	cfg.Port = envString("PORT", cfg.Port)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	cfg.MongoURI = os.Getenv("MONGO_URI")
	cfg.MongoDB = envString("MONGO_DB", cfg.MongoDB)

	cfg.MQTTBroker = os.Getenv("MQTT_BROKER")
	cfg.MQTTTopic = envString("MQTT_TOPIC", cfg.MQTTTopic)

	cfg.KafkaBrokers = splitAndTrim(os.Getenv("KAFKA_BROKERS"))
	cfg.KafkaTopic = envString("KAFKA_TOPIC", cfg.KafkaTopic)

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if expStr := os.Getenv("JWT_EXPIRY"); expStr != "" {
		if parsed, err := time.ParseDuration(expStr); err == nil {
			cfg.JWTExpiry = parsed
		}
	}

	cfg.RateLimitRequests = envInt("RATE_LIMIT_REQUESTS", cfg.RateLimitRequests)
	cfg.RateLimitWindowSeconds = envInt("RATE_LIMIT_WINDOW_SECONDS", cfg.RateLimitWindowSeconds)
	if val := os.Getenv("TRUST_PROXY_HEADERS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.TrustProxyHeaders = b
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the generation parameters once, at the boundary.
func (c Config) Validate() error {
	if c.BusCount <= 0 {
		return fmt.Errorf("%w: bus count must be positive, got %d", ErrInvalidConfig, c.BusCount)
	}
	if c.DaysBack <= 0 {
		return fmt.Errorf("%w: days back must be positive, got %d", ErrInvalidConfig, c.DaysBack)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top N must be positive, got %d", ErrInvalidConfig, c.TopN)
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindowSeconds <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidConfig)
	}
	return nil
}

// Dashboard returns c with BusCount and TopN bounded to the dashboard range.
func (c Config) Dashboard() Config {
	c.BusCount = ClampBusCount(c.BusCount)
	c.TopN = ClampTopN(c.TopN, c.BusCount)
	return c
}

// ClampBusCount bounds a requested bus count to the dashboard range.
func ClampBusCount(n int) int {
	if n < MinBusCount {
		return MinBusCount
	}
	if n > MaxBusCount {
		return MaxBusCount
	}
	return n
}

// ClampTopN bounds a requested top N to [1, busCount].
func ClampTopN(n, busCount int) int {
	if busCount < 1 {
		return 1
	}
	if n < 1 {
		return 1
	}
	if n > busCount {
		return busCount
	}
	return n
}

// Level parses the configured log level, defaulting to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
