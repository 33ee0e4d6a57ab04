package config

import (
	"strconv"
	"strings"
	"time"
)

// Environment variables read by parseEnv.
const (
	EnvAPIBaseURL     = "API_BASE_URL"
	EnvRequestTimeout = "PENGADUAN_REQUEST_TIMEOUT"
	EnvStoreBackend   = "PENGADUAN_STORE"
	EnvStorePath      = "PENGADUAN_STORE_PATH"
	EnvRedisAddr      = "PENGADUAN_REDIS_ADDR"
	EnvSecureStore    = "PENGADUAN_SECURE_STORE"
	EnvDeviceKeyPath  = "PENGADUAN_DEVICE_KEY"
	EnvLogLevel       = "PENGADUAN_LOG_LEVEL"
)

// parseEnv overlays cfg with environment values. Unparseable durations and
// booleans are ignored.
func parseEnv(cfg *Config, lookupEnv func(string) (string, bool)) {
	get := func(key string) string {
		v, ok := lookupEnv(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	setString(&cfg.APIBaseURL, get(EnvAPIBaseURL))
	if v := get(EnvRequestTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	setString(&cfg.StoreBackend, get(EnvStoreBackend))
	setString(&cfg.StorePath, get(EnvStorePath))
	setString(&cfg.RedisAddr, get(EnvRedisAddr))
	if v := get(EnvSecureStore); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureStore = b
		}
	}
	setString(&cfg.DeviceKeyPath, get(EnvDeviceKeyPath))
	setString(&cfg.LogLevel, get(EnvLogLevel))
}
