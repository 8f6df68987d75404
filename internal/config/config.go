package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration, populated from the environment
type Config struct {
	Environment string `envconfig:"SHOPDASH_ENVIRONMENT" default:"development"`
	ListenAddr  string `envconfig:"SHOPDASH_LISTEN_ADDR" default:":8080"`

	// DataDirectory holds the three dataset files
	DataDirectory string `envconfig:"SHOPDASH_DATA_DIR" default:"data"`

	// DataPassphrase unlocks an encrypted data directory. When empty and the
	// directory is encrypted, the server prompts on the terminal instead.
	DataPassphrase string `envconfig:"SHOPDASH_DATA_PASSPHRASE"`

	OrdersFile   string `envconfig:"SHOPDASH_ORDERS_FILE" default:"orders.csv"`
	SegmentsFile string `envconfig:"SHOPDASH_SEGMENTS_FILE" default:"customer-segmentation.csv"`
	CLVFile      string `envconfig:"SHOPDASH_CLV_FILE" default:"customer-lifetime-value.csv"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// OrdersPath returns the full path to the orders file
func (c *Config) OrdersPath() string {
	return filepath.Join(c.DataDirectory, c.OrdersFile)
}

// SegmentsPath returns the full path to the customer segmentation file
func (c *Config) SegmentsPath() string {
	return filepath.Join(c.DataDirectory, c.SegmentsFile)
}

// CLVPath returns the full path to the customer lifetime value file
func (c *Config) CLVPath() string {
	return filepath.Join(c.DataDirectory, c.CLVFile)
}
