package sdk

import (
	"context"
	"errors"
	"regexp"
)

var (
	// ErrKeyNotFound is returned when a requested key has never been written.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidKey is returned for keys outside [A-Za-z0-9_-]+.
	ErrInvalidKey = errors.New("invalid key")
	// ErrCorruptValue is returned when a stored value cannot be decoded.
	ErrCorruptValue = errors.New("corrupt stored value")
)

// Collection keys of the record store.
const (
	UsersKey         = "users"
	ArchivedUsersKey = "archivedUsers"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateKey checks that key can be used as a file name, Redis key suffix and protocol token.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return ErrInvalidKey
	}
	return nil
}

// --- Functional Interfaces (Interface Segregation) ---

// KVReader reads the raw JSON value stored under a key.
type KVReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// KVWriter replaces the value stored under a key. Writes never merge.
type KVWriter interface {
	Write(ctx context.Context, key string, value []byte) error
}

// KeyEnumerator lists the keys that have been written.
type KeyEnumerator interface {
	Keys(ctx context.Context) ([]string, error)
}

// --- Composite Interfaces ---

// RecordStore is the storage capability the data access layer runs on.
// The embedded engine, the Redis backend and the remote client all implement it.
type RecordStore interface {
	KVReader
	KVWriter
	KeyEnumerator
}
