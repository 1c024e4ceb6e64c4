// Package engine holds the storage backends behind sdk.RecordStore:
// an in-memory map with optional JSON file persistence, and Redis.
package engine

import "github.com/celerix-dev/drowsewatch/pkg/sdk"

var (
	_ sdk.RecordStore = (*MemStore)(nil)
	_ sdk.RecordStore = (*RedisStore)(nil)
)

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
