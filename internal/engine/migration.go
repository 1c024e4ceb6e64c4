package engine

import (
	"context"
	"fmt"

	"github.com/celerix-dev/drowsewatch/pkg/sdk"
)

// Migrate copies every key from src into dst and returns how many keys moved.
// This works for:
// - Embedded -> Remote (The "Upgrade")
// - Remote -> Embedded (The "Backup/Offline")
// - Embedded -> Redis
func Migrate(ctx context.Context, src, dst sdk.RecordStore) (int, error) {
	keys, err := src.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list keys: %w", err)
	}

	for i, key := range keys {
		val, err := src.Read(ctx, key)
		if err != nil {
			return i, fmt.Errorf("failed to read key %s: %w", key, err)
		}
		if err := dst.Write(ctx, key, val); err != nil {
			return i, fmt.Errorf("failed to write key %s in destination: %w", key, err)
		}
	}

	return len(keys), nil
}
