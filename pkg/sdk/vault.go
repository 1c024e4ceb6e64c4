package sdk

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/celerix-dev/drowsewatch/internal/vault"
)

// VaultStore encrypts every value before it reaches the wrapped store.
// The stored form is a JSON string holding the hex ciphertext, so the
// wrapped store still only ever sees valid JSON.
type VaultStore struct {
	store     RecordStore
	masterKey []byte
}

// Vault wraps store with client-side AES-256-GCM encryption.
// masterKey must be 32 bytes.
func Vault(store RecordStore, masterKey []byte) (*VaultStore, error) {
	if len(masterKey) != 32 {
		return nil, fmt.Errorf("vault master key must be 32 bytes, got %d", len(masterKey))
	}
	return &VaultStore{store: store, masterKey: masterKey}, nil
}

// Write encrypts value and stores it in the wrapped store.
func (v *VaultStore) Write(ctx context.Context, key string, value []byte) error {
	ciphertext, err := vault.Encrypt(string(value), v.masterKey)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(ciphertext)
	if err != nil {
		return err
	}
	return v.store.Write(ctx, key, raw)
}

// Read retrieves and decrypts a value. Anything that is not a
// ciphertext produced with this key is reported as corrupt.
func (v *VaultStore) Read(ctx context.Context, key string) ([]byte, error) {
	raw, err := v.store.Read(ctx, key)
	if err != nil {
		return nil, err
	}

	var ciphertext string
	if err := json.Unmarshal(raw, &ciphertext); err != nil {
		return nil, fmt.Errorf("%w: %s: vault data is not a string", ErrCorruptValue, key)
	}

	plaintext, err := vault.Decrypt(ciphertext, v.masterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	return []byte(plaintext), nil
}

func (v *VaultStore) Keys(ctx context.Context) ([]string, error) {
	return v.store.Keys(ctx)
}
