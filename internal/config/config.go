package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const configFileName = "upq"

// Config holds the configuration options for the application.
type Config struct {
	MaxConcurrentUploads int           `yaml:"maxConcurrentUploads,omitempty"`
	Upload               *UploadConfig `yaml:"upload,omitempty"`
}

// UploadConfig holds configuration options for HTTP uploads.
type UploadConfig struct {
	Endpoint     string        `yaml:"endpoint,omitempty"`
	FieldName    string        `yaml:"fieldName,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	ThumbnailDir string        `yaml:"thumbnailDir,omitempty"`
}

// GetConfig reads the configuration file and returns a Config struct.
// If the configuration file does not exist, it returns the default configuration.
func GetConfig() (*Config, error) {
	configFilePath := filepath.Join(xdg.ConfigHome, configFileName)
	defaults := DefaultConfig()

	b, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &defaults, nil
		}

		return nil, err
	}

	if len(b) == 0 {
		return &defaults, nil
	}

	var cfg Config

	err = yaml.Unmarshal(b, &cfg)
	if err != nil {
		return nil, err
	}

	uploadCfg := zeroOr(cfg.Upload, defaults.Upload)

	return &Config{
		MaxConcurrentUploads: zeroOr(cfg.MaxConcurrentUploads, defaults.MaxConcurrentUploads),
		Upload: &UploadConfig{
			Endpoint:     zeroOr(uploadCfg.Endpoint, defaults.Upload.Endpoint),
			FieldName:    zeroOr(uploadCfg.FieldName, defaults.Upload.FieldName),
			Timeout:      zeroOr(uploadCfg.Timeout, defaults.Upload.Timeout),
			ThumbnailDir: zeroOr(uploadCfg.ThumbnailDir, defaults.Upload.ThumbnailDir),
		},
	}, nil
}

func DefaultConfig() Config {
	return Config{
		MaxConcurrentUploads: maxConcurrentUploads,
		Upload: &UploadConfig{
			Endpoint:     endpoint,
			FieldName:    fieldName,
			Timeout:      requestTimeout,
			ThumbnailDir: thumbnailDir,
		},
	}
}

func zeroOr[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}

	return value
}
