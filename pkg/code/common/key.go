package common

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Key is an ed25519 public or private key. The base58 form is computed once.
type Key struct {
	raw     []byte
	encoded string
}

func NewKeyFromBytes(raw []byte) (*Key, error) {
	return newKey(raw, base58.Encode(raw))
}

func NewKeyFromString(encoded string) (*Key, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "key isn't valid base58")
	}
	return newKey(raw, encoded)
}

// NewKeyFromSeed deterministically derives a private key from a 32 byte seed
func NewKeyFromSeed(seed []byte) (*Key, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Errorf("seed must be %d bytes", ed25519.SeedSize)
	}
	return NewKeyFromBytes(ed25519.NewKeyFromSeed(seed))
}

func NewRandomKey() (*Key, error) {
	_, private, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "error generating private key")
	}
	return NewKeyFromBytes(private)
}

func newKey(raw []byte, encoded string) (*Key, error) {
	k := &Key{raw: raw, encoded: encoded}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *Key) ToBytes() []byte {
	return k.raw
}

func (k *Key) ToBase58() string {
	return k.encoded
}

func (k *Key) IsPublic() bool {
	return len(k.raw) == ed25519.PublicKeySize
}

func (k *Key) Equals(other *Key) bool {
	if k == nil || other == nil {
		return k == other
	}
	return bytes.Equal(k.raw, other.raw)
}

func (k *Key) Validate() error {
	if k == nil {
		return errors.New("key is nil")
	}

	switch len(k.raw) {
	case ed25519.PublicKeySize, ed25519.PrivateKeySize:
	default:
		return errors.Errorf("invalid key length %d", len(k.raw))
	}

	if base58.Encode(k.raw) != k.encoded {
		return errors.New("base58 encoding doesn't match key bytes")
	}
	return nil
}
