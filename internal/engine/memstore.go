package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/celerix-dev/drowsewatch/pkg/sdk"
)

// MemStore is a thread-safe in-memory record store.
// Every write replaces the whole value for its key and, when a persister
// is attached, is saved to disk in the background.
type MemStore struct {
	mu        sync.RWMutex
	data      map[string][]byte
	seq       uint64
	persister *Persistence
	wg        sync.WaitGroup
}

// NewMemStore initializes a store.
// It accepts existing data (from LoadAll) and an optional persister.
func NewMemStore(initialData map[string][]byte, p *Persistence) *MemStore {
	data := make(map[string][]byte, len(initialData))
	for k, v := range initialData {
		data[k] = cloneBytes(v)
	}
	return &MemStore{
		data:      data,
		persister: p,
	}
}

// Wait waits for all background persistence tasks to complete.
func (m *MemStore) Wait() {
	m.wg.Wait()
}

func (m *MemStore) Read(_ context.Context, key string) ([]byte, error) {
	if err := sdk.ValidateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return nil, sdk.ErrKeyNotFound
	}
	// Return a copy to prevent external mutation of the stored value
	return cloneBytes(val), nil
}

func (m *MemStore) Write(_ context.Context, key string, value []byte) error {
	if err := sdk.ValidateKey(key); err != nil {
		return err
	}

	snapshot := cloneBytes(value)

	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.data[key] = snapshot
	m.mu.Unlock()

	if m.persister != nil {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.persister.SaveKey(key, snapshot, seq)
		}()
	}
	return nil
}

func (m *MemStore) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]string, 0, len(m.data))
	for k := range m.data {
		list = append(list, k)
	}
	sort.Strings(list)
	return list, nil
}
