// Package config reads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultServerAddress  = ":8080"
	defaultShortlistSize  = 5
	defaultFinalBidWindow = 48 * time.Hour
	defaultInterval       = time.Minute
	defaultSweepTimeout   = 30 * time.Second
)

type Config struct {
	ServerAddress        string
	PostgresConn         string
	ShortlistSize        int
	FinalBidWindow       time.Duration
	WatchdogInterval     time.Duration
	WatchdogSweepTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerAddress:        getEnv("SERVER_ADDRESS", defaultServerAddress),
		PostgresConn:         os.Getenv("POSTGRES_CONN"),
		ShortlistSize:        defaultShortlistSize,
		FinalBidWindow:       defaultFinalBidWindow,
		WatchdogInterval:     defaultInterval,
		WatchdogSweepTimeout: defaultSweepTimeout,
	}

	if cfg.PostgresConn == "" {
		return nil, fmt.Errorf("POSTGRES_CONN is required")
	}

	if v := os.Getenv("SHORTLIST_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SHORTLIST_SIZE %q: %w", v, err)
		}
		if size < 1 {
			return nil, fmt.Errorf("SHORTLIST_SIZE must be at least 1, got %d", size)
		}
		cfg.ShortlistSize = size
	}

	var err error
	if cfg.FinalBidWindow, err = getDuration("FINAL_BID_WINDOW", cfg.FinalBidWindow); err != nil {
		return nil, err
	}
	if cfg.WatchdogInterval, err = getDuration("WATCHDOG_INTERVAL", cfg.WatchdogInterval); err != nil {
		return nil, err
	}
	if cfg.WatchdogSweepTimeout, err = getDuration("WATCHDOG_SWEEP_TIMEOUT", cfg.WatchdogSweepTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}

	return d, nil
}
