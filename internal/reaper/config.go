package reaper

import (
	"time"

	"github.com/nearme-labs/nearme/internal/config"
)

// Config controls sweep cadence and batch size.
type Config struct {
	Interval  time.Duration
	BatchSize int
	LockTTL   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval:  time.Minute,
		BatchSize: 100,
		LockTTL:   55 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	return c
}

func ProvideConfig(holder *config.PaymentsConfigHolder) Config {
	payments := holder.Get()
	return Config{
		Interval:  payments.ReaperInterval(),
		BatchSize: payments.ReaperBatchSize,
	}.withDefaults()
}
