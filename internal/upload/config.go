package upload

import (
	"time"
)

type ConfigOption func(*Config)

type Config struct {
	Endpoint  string        `json:"endpoint"`
	FieldName string        `json:"fieldName"`
	Timeout   time.Duration `json:"timeout,omitempty"`
}

func defaultConfig() *Config {
	return &Config{
		FieldName: "file",
	}
}

func WithEndpoint(endpoint string) ConfigOption {
	return func(cfg *Config) {
		cfg.Endpoint = endpoint
	}
}

func WithFieldName(name string) ConfigOption {
	return func(cfg *Config) {
		if name == "" {
			return
		}

		cfg.FieldName = name
	}
}

func WithTimeout(timeout time.Duration) ConfigOption {
	return func(cfg *Config) {
		cfg.Timeout = timeout
	}
}
