package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RateLimit describes a token bucket: Rate tokens per second up to Burst.
type RateLimit struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

type LimitsConfig struct {
	PaymentLink RateLimit `mapstructure:"paymentLink"`
}

type LimitsHolder struct {
	current atomic.Value // holds LimitsConfig
}

// NewLimitsHolder reads the optional limits.yml file and keeps it hot-reloaded.
// Environment values from Config are used when no file exists.
func NewLimitsHolder(cfg Config, log *zap.Logger) (*LimitsHolder, error) {
	return loadLimits(cfg, log.Named("limits"), "/etc/zoropay", ".")
}

func loadLimits(cfg Config, log *zap.Logger, paths ...string) (*LimitsHolder, error) {
	v := viper.New()

	v.SetConfigName("limits")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("ZOROPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("limits.paymentLink.rate", cfg.PaymentLinkRate)
	v.SetDefault("limits.paymentLink.burst", cfg.PaymentLinkBurst)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	var limits LimitsConfig
	if err := v.UnmarshalKey("limits", &limits); err != nil {
		return nil, err
	}
	if err := validateLimits(limits); err != nil {
		return nil, err
	}

	holder := &LimitsHolder{}
	holder.current.Store(limits)

	if fileLoaded {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated LimitsConfig
			if err := v.UnmarshalKey("limits", &updated); err != nil {
				log.Warn("limits reload failed", zap.Error(err))
				return
			}
			if err := validateLimits(updated); err != nil {
				log.Warn("invalid limits ignored", zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("limits reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

func (h *LimitsHolder) Get() LimitsConfig {
	return h.current.Load().(LimitsConfig)
}

func validateLimits(cfg LimitsConfig) error {
	if cfg.PaymentLink.Rate <= 0 {
		return errors.New("limits.paymentLink.rate must be positive")
	}
	if cfg.PaymentLink.Burst <= 0 {
		return errors.New("limits.paymentLink.burst must be positive")
	}
	return nil
}
