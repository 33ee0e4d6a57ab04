package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pengaduan/internal/cryptox"
)

// deviceKeySalt is fixed: the device secret is already random, argon2id
// only stretches it into a cipher key.
var deviceKeySalt = []byte("pengaduan/kv/v1")

// SecureBackend seals values before handing them to the wrapped Backend.
// Each value is bound to its key name, so values cannot be swapped
// between keys undetected.
type SecureBackend struct {
	next   Backend
	sealer *cryptox.Sealer
}

// NewSecureBackend derives the sealing key from deviceSecret.
func NewSecureBackend(next Backend, deviceSecret []byte) (*SecureBackend, error) {
	sealer, err := cryptox.NewSealer(cryptox.DeriveKey(deviceSecret, deviceKeySalt))
	if err != nil {
		return nil, err
	}
	return &SecureBackend{next: next, sealer: sealer}, nil
}

func (s *SecureBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	sealed, found, err := s.next.Get(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	plain, err := s.sealer.Open(sealed, []byte(key))
	if err != nil {
		return nil, false, fmt.Errorf("open sealed %s: %w", key, err)
	}
	return plain, true, nil
}

func (s *SecureBackend) Set(ctx context.Context, key string, value []byte) error {
	return s.next.Set(ctx, key, s.sealer.Seal(value, []byte(key)))
}

func (s *SecureBackend) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, key)
}

func (s *SecureBackend) Clear(ctx context.Context) error {
	return s.next.Clear(ctx)
}

func (s *SecureBackend) Close() error {
	return s.next.Close()
}
