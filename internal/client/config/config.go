package config

import (
	"os"
	"time"
)

// Store backends accepted in Config.StoreBackend.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds runtime settings for the pengaduan client.
type Config struct {
	// APIBaseURL is the REST backend root, e.g. https://host/api.
	APIBaseURL string
	// RequestTimeout bounds every outgoing HTTP request.
	RequestTimeout time.Duration

	StoreBackend string
	StorePath    string
	RedisAddr    string
	RedisPrefix  string

	// SecureStore seals stored values with a key derived from the
	// device secret kept at DeviceKeyPath.
	SecureStore   bool
	DeviceKeyPath string

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with the defaults used when nothing else is set.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.RequestTimeout = 30 * time.Second
	c.StoreBackend = BackendSQLite
	c.StorePath = "pengaduan.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "pengaduan:"
	c.SecureStore = true
	c.DeviceKeyPath = "pengaduan.key"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c,
// then the environment, then command-line flags. Later sources win. It
// panics on an unreadable config file or malformed flags.
func LoadConfig() *Config {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookupEnv func(string) (string, bool)) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg, lookupEnv)
	parseFlags(cfg, args)
	return cfg
}
