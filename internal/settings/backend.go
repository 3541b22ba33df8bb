package settings

import (
	"context"
	"sync"
)

// Backend is the durable key-value medium a Session reads and writes through.
// Each call is a self-contained acquire/release of the medium.
type Backend interface {
	Load(ctx context.Context, key string) (Settings, error)
	Save(ctx context.Context, key string, s Settings) error
}

// MemoryBackend keeps settings in process memory. It is the fallback when no
// database is configured and the default in tests.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]Settings
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]Settings)}
}

func (m *MemoryBackend) Load(_ context.Context, key string) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key].Clone(), nil
}

func (m *MemoryBackend) Save(_ context.Context, key string, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = s.Clone()
	return nil
}
