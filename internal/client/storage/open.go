package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pengaduan/internal/client/config"
	"github.com/dmitrijs2005/pengaduan/internal/cryptox"
	"github.com/dmitrijs2005/pengaduan/internal/filex"
	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

// Open builds the Backend selected by cfg.StoreBackend, wrapped in a
// SecureBackend when cfg.SecureStore is set.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	var b Backend

	switch cfg.StoreBackend {
	case config.BackendMemory:
		b = NewMemoryBackend()
	case config.BackendSQLite, "":
		db, err := InitDatabase(ctx, cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		b = NewSQLiteBackend(db)
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			MaintNotificationsConfig: &maintnotifications.Config{
				Mode: maintnotifications.ModeDisabled,
			},
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		b = NewRedisBackend(rdb, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if !cfg.SecureStore {
		return b, nil
	}

	secret, err := filex.LoadOrCreateSecret(cfg.DeviceKeyPath, cryptox.KeySize)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("device secret: %w", err)
	}
	sb, err := NewSecureBackend(b, secret)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return sb, nil
}
