package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/pengaduan/internal/flagx"
	"github.com/dmitrijs2005/pengaduan/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent fields keep
// the value from earlier sources.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StoreBackend   string          `json:"store_backend"`
	StorePath      string          `json:"store_path"`
	RedisAddr      string          `json:"redis_addr"`
	RedisPrefix    string          `json:"redis_prefix"`
	SecureStore    *bool           `json:"secure_store"`
	DeviceKeyPath  string          `json:"device_key_path"`
	LogLevel       string          `json:"log_level"`
	LogFormat      string          `json:"log_format"`
}

// parseJson overlays cfg with the file selected by -c/-config in args.
// It panics when the file cannot be read or decoded.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	if jc.SecureStore != nil {
		cfg.SecureStore = *jc.SecureStore
	}
	setString(&cfg.DeviceKeyPath, jc.DeviceKeyPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
