package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string

	AuthSecret   string
	AdminKeyHash string

	RedisAddr     string
	RedisPassword string
	CartLockTTL   time.Duration

	MongoURI      string
	MongoDatabase string

	KafkaBrokers      []string
	OrderEventsTopic  string
	EventPollInterval time.Duration

	PaymentSystemAddress string
	PaymentPollInterval  time.Duration
	WorkerPoolSize       int
	PollBatchSize        int

	TaxRate            decimal.Decimal
	DeliveryCharge     decimal.Decimal
	Location           *time.Location
	PlaceOrderAttempts int
	RevalidateOnPlace  bool

	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

const (
	defaultRunAddress          = ":8080"
	defaultAuthSecret          = "change-me-in-production"
	defaultMongoDatabase       = "storefront"
	defaultOrderEventsTopic    = "order-events"
	defaultCartLockTTL         = 10 * time.Second
	defaultPaymentPollInterval = 5 * time.Second
	defaultEventPollInterval   = 2 * time.Second
	defaultWorkerPoolSize      = 4
	defaultPollBatchSize       = 32
	defaultShutdownTimeout     = 10 * time.Second
	defaultTaxRate             = "0.05"
	defaultDeliveryCharge      = "0"
	defaultTimezone            = "UTC"
	defaultPlaceOrderAttempts  = 3
	defaultLogLevel            = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		AuthSecret:           getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AdminKeyHash:         getString(lookup, "ADMIN_KEY_HASH", ""),
		RedisAddr:            getString(lookup, "REDIS_ADDR", ""),
		RedisPassword:        getString(lookup, "REDIS_PASSWORD", ""),
		CartLockTTL:          getDuration(lookup, "CART_LOCK_TTL", defaultCartLockTTL),
		MongoURI:             getString(lookup, "MONGO_URI", ""),
		MongoDatabase:        getString(lookup, "MONGO_DATABASE", defaultMongoDatabase),
		OrderEventsTopic:     getString(lookup, "ORDER_EVENTS_TOPIC", defaultOrderEventsTopic),
		EventPollInterval:    getDuration(lookup, "EVENT_POLL_INTERVAL", defaultEventPollInterval),
		PaymentSystemAddress: getString(lookup, "PAYMENT_SYSTEM_ADDRESS", ""),
		PaymentPollInterval:  getDuration(lookup, "PAYMENT_POLL_INTERVAL", defaultPaymentPollInterval),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		PollBatchSize:        getInt(lookup, "POLL_BATCH_SIZE", defaultPollBatchSize),
		PlaceOrderAttempts:   getInt(lookup, "PLACE_ORDER_ATTEMPTS", defaultPlaceOrderAttempts),
		RevalidateOnPlace:    getBool(lookup, "REVALIDATE_ON_PLACE", true),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		brokersStr         = getString(lookup, "KAFKA_BROKERS", "")
		taxRateStr         = getString(lookup, "TAX_RATE", defaultTaxRate)
		deliveryChargeStr  = getString(lookup, "DELIVERY_CHARGE", defaultDeliveryCharge)
		timezoneStr        = getString(lookup, "TIMEZONE", defaultTimezone)
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
		pollIntervalStr    = cfg.PaymentPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PaymentSystemAddress, "p", cfg.PaymentSystemAddress, "Payment processor base URL")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for verifying auth tokens")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for locks and caching")
	fs.StringVar(&cfg.MongoURI, "mongo", cfg.MongoURI, "MongoDB URI for the product catalog")
	fs.StringVar(&brokersStr, "kafka", brokersStr, "Comma separated Kafka brokers")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent payment workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between payment polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.PollBatchSize, "poll-batch", cfg.PollBatchSize, "Maximum orders per polling batch")
	fs.StringVar(&taxRateStr, "tax-rate", taxRateStr, "Tax rate applied to the order subtotal")
	fs.StringVar(&timezoneStr, "tz", timezoneStr, "Time zone used for order numbers and delivery dates")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Minimum log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PaymentPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TaxRate, err = decimal.NewFromString(taxRateStr); err != nil {
		return nil, fmt.Errorf("invalid tax rate: %w", err)
	}
	if cfg.TaxRate.IsNegative() {
		return nil, fmt.Errorf("invalid tax rate: must not be negative")
	}

	if cfg.DeliveryCharge, err = decimal.NewFromString(deliveryChargeStr); err != nil {
		return nil, fmt.Errorf("invalid delivery charge: %w", err)
	}
	if cfg.DeliveryCharge.IsNegative() {
		return nil, fmt.Errorf("invalid delivery charge: must not be negative")
	}

	if cfg.Location, err = time.LoadLocation(timezoneStr); err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg.KafkaBrokers = splitList(brokersStr)

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.PollBatchSize <= 0 {
		cfg.PollBatchSize = defaultPollBatchSize
	}

	if cfg.PaymentPollInterval <= 0 {
		cfg.PaymentPollInterval = defaultPaymentPollInterval
	}

	if cfg.EventPollInterval <= 0 {
		cfg.EventPollInterval = defaultEventPollInterval
	}

	if cfg.CartLockTTL <= 0 {
		cfg.CartLockTTL = defaultCartLockTTL
	}

	if cfg.PlaceOrderAttempts <= 0 {
		cfg.PlaceOrderAttempts = defaultPlaceOrderAttempts
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
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
