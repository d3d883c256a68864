package blob

import (
	"context"
	"sync"
)

// Memory is an in-memory Store for tests.
type Memory struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

// NewMemory creates a new in-memory blob store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Put stores the blob at key, overwriting any existing blob.
func (m *Memory) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	blobCopy := make([]byte, len(data))
	copy(blobCopy, data)
	m.blobs[key] = blobCopy
	return nil
}

// Get retrieves the blob contents. Returns ErrNotFound if missing.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	blobCopy := make([]byte, len(data))
	copy(blobCopy, data)
	return blobCopy, nil
}

// Delete removes a blob. Returns (false, nil) if not found.
func (m *Memory) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[key]; !ok {
		return false, nil
	}
	delete(m.blobs, key)
	return true, nil
}

// Len returns the number of stored blobs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

// Driver returns DriverMemory.
func (m *Memory) Driver() Driver {
	return DriverMemory
}
