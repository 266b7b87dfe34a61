// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"context"
	"sync"
)

// Store is the key/value persistence the cache is layered on.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put replaces the whole value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// DeleteAll removes every value and reports how many were removed.
	DeleteAll(ctx context.Context) (int, error)
}

// MemoryStore is an in-process Store. Values are copied on the way in and
// out.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) DeleteAll(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.values)
	clear(m.values)
	return n, nil
}

// Len is the number of stored values.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.values)
}
