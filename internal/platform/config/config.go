package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	RedisAddr   string
	AdminToken  string

	StripeSecretKey string

	Engine Engine
}

// Engine holds the business defaults threaded into module constructors.
// Core logic never reads these from the environment directly.
type Engine struct {
	PoolPercent          int64
	CommissionPercent    int64
	SupportRatePerMinute int64
	PayoutCurrency       string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "revshare"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	currency := strings.ToLower(strings.TrimSpace(os.Getenv("PAYOUT_CURRENCY")))
	if currency == "" {
		currency = "usd"
	}

	poolPercent, err := envInt64("POOL_PERCENT", 30)
	if err != nil {
		return Config{}, err
	}
	commissionPercent, err := envInt64("SALE_COMMISSION_PCT", 30)
	if err != nil {
		return Config{}, err
	}
	supportRate, err := envInt64("SUPPORT_RATE_CPM", 50)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName:     service,
		HTTPPort:        port,
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		RedisAddr:       redisAddr,
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		Engine: Engine{
			PoolPercent:          poolPercent,
			CommissionPercent:    commissionPercent,
			SupportRatePerMinute: supportRate,
			PayoutCurrency:       currency,
		},
	}, nil
}

func envInt64(name string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}
