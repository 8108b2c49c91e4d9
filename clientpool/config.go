package clientpool

import (
	"time"
)

// DefaultName is used for metrics and logs when Config.Name is empty.
const DefaultName = "default"

// Config is the configuration struct for NewChannelPool.
//
// Can be deserialized from YAML.
type Config struct {
	// Name identifies the pool in metrics and logs.
	Name string `yaml:"name"`

	// MinConnections is the number of connections opened when the pool is
	// created.
	MinConnections int `yaml:"minConnections"`

	// MaxConnections is the maximum number of connections checked out at the
	// same time. It also caps the number of idle connections kept.
	MaxConnections int `yaml:"maxConnections"`

	// SkipValidation disables Manager.Validate on idle connections before they
	// are handed out by Get.
	SkipValidation bool `yaml:"skipValidation"`

	// ConnectAttempts is the number of times Manager.Connect is tried before
	// giving up. Defaults to 1 (no retries).
	ConnectAttempts uint `yaml:"connectAttempts"`

	// ConnectRetryDelay is the initial delay between connect attempts.
	// It grows exponentially with each retry.
	ConnectRetryDelay time.Duration `yaml:"connectRetryDelay"`

	// Breaker, when set, guards Manager.Connect with a circuit breaker.
	Breaker *BreakerConfig `yaml:"breaker"`
}

func (cfg Config) name() string {
	if cfg.Name == "" {
		return DefaultName
	}
	return cfg.Name
}

func (cfg Config) validate() error {
	if cfg.MaxConnections <= 0 || cfg.MinConnections > cfg.MaxConnections {
		return &ConfigError{
			MinConnections: cfg.MinConnections,
			MaxConnections: cfg.MaxConnections,
		}
	}
	return nil
}
