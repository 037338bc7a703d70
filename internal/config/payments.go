package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// PaymentsConfig holds the tunables of the payment-request lifecycle.
type PaymentsConfig struct {
	RequestTTLSeconds    int    `mapstructure:"requestTtlSeconds"`
	MaxAmount            string `mapstructure:"maxAmount"`
	ReaperIntervalSecs   int    `mapstructure:"reaperIntervalSeconds"`
	ReaperBatchSize      int    `mapstructure:"reaperBatchSize"`
	ListByMerchantLimit  int    `mapstructure:"listByMerchantLimit"`
}

func DefaultPaymentsConfig() PaymentsConfig {
	return PaymentsConfig{
		RequestTTLSeconds:   600,
		MaxAmount:           "1000000",
		ReaperIntervalSecs:  60,
		ReaperBatchSize:     100,
		ListByMerchantLimit: 100,
	}
}

func (c PaymentsConfig) RequestTTL() time.Duration {
	return time.Duration(c.RequestTTLSeconds) * time.Second
}

func (c PaymentsConfig) ReaperInterval() time.Duration {
	return time.Duration(c.ReaperIntervalSecs) * time.Second
}

func (c PaymentsConfig) MaxAmountDecimal() decimal.Decimal {
	max, err := decimal.NewFromString(c.MaxAmount)
	if err != nil {
		return decimal.NewFromInt(1_000_000)
	}
	return max
}

// PaymentsConfigHolder serves the current payments config and reloads it when
// the backing file changes.
type PaymentsConfigHolder struct {
	current atomic.Value // holds PaymentsConfig
}

func NewPaymentsConfigHolder() (*PaymentsConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("payments")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/nearme")
	v.AddConfigPath(".")

	v.SetEnvPrefix("NEARME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPaymentsConfig()
	v.SetDefault("payments.requestTtlSeconds", defaults.RequestTTLSeconds)
	v.SetDefault("payments.maxAmount", defaults.MaxAmount)
	v.SetDefault("payments.reaperIntervalSeconds", defaults.ReaperIntervalSecs)
	v.SetDefault("payments.reaperBatchSize", defaults.ReaperBatchSize)
	v.SetDefault("payments.listByMerchantLimit", defaults.ListByMerchantLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg PaymentsConfig
	if err := v.UnmarshalKey("payments", &cfg); err != nil {
		return nil, err
	}
	if err := validatePaymentsConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PaymentsConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PaymentsConfig
		if err := v.UnmarshalKey("payments", &updated); err != nil {
			log.Printf("[payments-config] reload failed: %v", err)
			return
		}
		if err := validatePaymentsConfig(updated); err != nil {
			log.Printf("[payments-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[payments-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPaymentsConfigHolder returns a holder pinned to cfg, with
// no file watching. Used by tests and single-shot tools.
func NewStaticPaymentsConfigHolder(cfg PaymentsConfig) *PaymentsConfigHolder {
	holder := &PaymentsConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PaymentsConfigHolder) Get() PaymentsConfig {
	return h.current.Load().(PaymentsConfig)
}

func validatePaymentsConfig(cfg PaymentsConfig) error {
	if cfg.RequestTTLSeconds <= 0 {
		return errors.New("payments.requestTtlSeconds must be positive")
	}
	max, err := decimal.NewFromString(cfg.MaxAmount)
	if err != nil || !max.IsPositive() {
		return errors.New("payments.maxAmount must be a positive decimal")
	}
	if cfg.ReaperIntervalSecs <= 0 {
		return errors.New("payments.reaperIntervalSeconds must be positive")
	}
	if cfg.ReaperBatchSize <= 0 {
		return errors.New("payments.reaperBatchSize must be positive")
	}
	return nil
}
