// Package config loads the flow configuration from a TOML file and FLOW_ environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/flowfinance/store"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding the configuration,
// e.g. FLOW_STORAGE_DRIVER for storage.driver.
const EnvPrefix = "FLOW"

// Config represents the application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Price   PriceConfig   `mapstructure:"price"`
	Advisor AdvisorConfig `mapstructure:"advisor"`
	Backup  BackupConfig  `mapstructure:"backup"`
	UsdHuf  float64       `mapstructure:"usd_huf"` // USD to HUF conversion rate
}

// StorageConfig selects where the data is kept.
type StorageConfig struct {
	Driver          string `mapstructure:"driver"` // "dir", "memory", "redis" or "mongo"
	Dir             string `mapstructure:"dir"`
	RedisAddr       string `mapstructure:"redis_addr"`
	RedisPrefix     string `mapstructure:"redis_prefix"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

// PriceConfig configures the SOL price feed.
type PriceConfig struct {
	URL      string        `mapstructure:"url"`
	Path     string        `mapstructure:"path"`
	TTL      time.Duration `mapstructure:"ttl"`
	Interval time.Duration `mapstructure:"interval"`
	History  int           `mapstructure:"history"`
}

// AdvisorConfig configures the generative model.
type AdvisorConfig struct {
	Model string `mapstructure:"model"`
}

// BackupConfig configures remote backups.
type BackupConfig struct {
	Bucket      string `mapstructure:"bucket"`      // default Cloud Storage bucket
	Credentials string `mapstructure:"credentials"` // service account key file
}

// Options returns the options to open the configured storage.
func (c StorageConfig) Options() store.Options {
	return store.Options{
		Driver:          store.Driver(c.Driver),
		Dir:             c.Dir,
		RedisAddr:       c.RedisAddr,
		RedisPrefix:     c.RedisPrefix,
		MongoURI:        c.MongoURI,
		MongoDatabase:   c.MongoDatabase,
		MongoCollection: c.MongoCollection,
	}
}

var defaults = map[string]any{
	"storage.driver":           "dir",
	"storage.dir":              ".flow",
	"storage.redis_addr":       "",
	"storage.redis_prefix":     "flow:",
	"storage.mongo_uri":        "",
	"storage.mongo_database":   "flowfinance",
	"storage.mongo_collection": "state",
	"price.url":                "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd",
	"price.path":               "$.solana.usd",
	"price.ttl":                "10s",
	"price.interval":           "30s",
	"price.history":            20,
	"advisor.model":            "gemini-2.5-flash",
	"backup.bucket":            "",
	"backup.credentials":       "",
	"usd_huf":                  365,
}

// LoadConfig loads the configuration file at configPath, if not empty, and
// then applies the environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.Price.History < 1 {
		return nil, fmt.Errorf("invalid price history size %d", config.Price.History)
	}
	if config.UsdHuf <= 0 {
		return nil, fmt.Errorf("invalid usd_huf rate %v", config.UsdHuf)
	}
	return &config, nil
}
