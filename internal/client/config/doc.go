// Package config loads runtime configuration for the pengaduan client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables (API_BASE_URL, PENGADUAN_*).
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "https://pengaduan.example.go.id/api",
//	  "request_timeout": "30s",
//	  "store_backend": "sqlite",
//	  "store_path": "/var/lib/pengaduan/kv.db",
//	  "secure_store": true,
//	  "device_key_path": "/var/lib/pengaduan/device.key",
//	  "log_level": "info"
//	}
package config
