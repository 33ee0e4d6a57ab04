// Package cryptox seals values at rest for the secure key-value store.
//
// A 32-byte store key is derived from a device secret with argon2id; each
// value is sealed with XChaCha20-Poly1305 under a fresh random nonce. The
// storage key name is bound as additional data, so a sealed value copied
// under another name fails to open.
package cryptox

import (
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/pengaduan/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of keys returned by DeriveKey.
const KeySize = chacha20poly1305.KeySize

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveKey stretches secret with argon2id (t=1, 64 MiB, 4 lanes).
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// Sealer encrypts and authenticates small values.
type Sealer struct {
	aead cipher.AEAD
}

func NewSealer(key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns nonce||ciphertext.
func (s *Sealer) Seal(plaintext, additionalData []byte) []byte {
	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	out := make([]byte, 0, len(nonce)+len(plaintext)+s.aead.Overhead())
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plaintext, additionalData)
}

// Open reverses Seal. Tampered data or a mismatched additionalData yields
// an error.
func (s *Sealer) Open(sealed, additionalData []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns+s.aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	return s.aead.Open(nil, sealed[:ns], sealed[ns:], additionalData)
}
