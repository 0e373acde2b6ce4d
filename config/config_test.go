package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/flowfinance/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "dir", config.Storage.Driver)
	assert.Equal(t, ".flow", config.Storage.Dir)
	assert.Equal(t, 10*time.Second, config.Price.TTL)
	assert.Equal(t, 30*time.Second, config.Price.Interval)
	assert.Equal(t, 20, config.Price.History)
	assert.Equal(t, "$.solana.usd", config.Price.Path)
	assert.Equal(t, "gemini-2.5-flash", config.Advisor.Model)
	assert.Equal(t, 365.0, config.UsdHuf)
}

func TestLoadConfig(t *testing.T) {
	configContent := `
usd_huf = 380.5

[storage]
driver = "redis"
redis_addr = "localhost:6379"

[price]
interval = "1m"
history = 50

[backup]
bucket = "my-backups"
`
	configPath := filepath.Join(t.TempDir(), "flow.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "redis", config.Storage.Driver)
	assert.Equal(t, "localhost:6379", config.Storage.RedisAddr)
	assert.Equal(t, "flow:", config.Storage.RedisPrefix)
	assert.Equal(t, time.Minute, config.Price.Interval)
	assert.Equal(t, 10*time.Second, config.Price.TTL)
	assert.Equal(t, 50, config.Price.History)
	assert.Equal(t, "my-backups", config.Backup.Bucket)
	assert.Equal(t, 380.5, config.UsdHuf)

	opts := config.Storage.Options()
	assert.Equal(t, store.DriverRedis, opts.Driver)
	assert.Equal(t, "localhost:6379", opts.RedisAddr)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("FLOW_STORAGE_DRIVER", "mongo")
	t.Setenv("FLOW_STORAGE_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("FLOW_ADVISOR_MODEL", "gemini-2.5-pro")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "mongo", config.Storage.Driver)
	assert.Equal(t, "mongodb://localhost:27017", config.Storage.MongoURI)
	assert.Equal(t, "gemini-2.5-pro", config.Advisor.Model)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	config, err := LoadConfig("nonexistent.toml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "flow.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("usd_huf = 0\n"), 0644))
	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}
